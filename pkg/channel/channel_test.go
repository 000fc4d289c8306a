package channel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramed(t *testing.T) {
	cases := []struct {
		payload byte
		bits    [FrameBits]byte
	}{
		{0x00, [FrameBits]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}},
		{0xFF, [FrameBits]byte{0, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{'x', [FrameBits]byte{0, 0, 0, 0, 1, 1, 1, 1, 0, 1}},
		{'c', [FrameBits]byte{0, 1, 1, 0, 0, 0, 1, 1, 0, 1}},
	}
	for _, c := range cases {
		require.Equal(t, c.bits, Framed(c.payload), "payload %#x", c.payload)
	}
}

func TestDefaults(t *testing.T) {
	chs := Defaults()
	var data, carrier byte
	for n, c := range chs {
		require.Equal(t, n, c.ID)
		data |= 1 << c.DataBit
		carrier |= 1 << c.CarrierBit
	}
	require.Equal(t, byte(0x0F), data)
	require.Equal(t, byte(0xAA), carrier)
	require.Equal(t, "ch0('x')", chs[0].String())

	c, ok := ByCarrierLine(chs[:], 7)
	require.True(t, ok)
	require.Equal(t, 2, c.ID)
	_, ok = ByCarrierLine(chs[:], 0)
	require.False(t, ok)
}

func TestMaskDefaultsEnabled(t *testing.T) {
	var m Mask
	for id := 0; id < Count; id++ {
		require.True(t, m.Enabled(id))
	}
	require.Equal(t, uint8(0x0F), m.Bits())
	require.False(t, m.Enabled(Count))
	require.False(t, m.Enabled(-1))
}

func TestMaskDoubleToggle(t *testing.T) {
	var m Mask
	chs := Defaults()
	before := m.CarrierGate(chs[:])
	for id := 0; id < Count; id++ {
		on, err := m.Toggle(id)
		require.NoError(t, err)
		require.False(t, on)
		require.False(t, m.Enabled(id))
		require.Equal(t, before&^(1<<chs[id].CarrierBit), m.CarrierGate(chs[:]))
		on, err = m.Toggle(id)
		require.NoError(t, err)
		require.True(t, on)
		require.Equal(t, before, m.CarrierGate(chs[:]))
	}
}

func TestMaskSet(t *testing.T) {
	var m Mask
	require.NoError(t, m.Set(2, false))
	require.Equal(t, uint8(0x0B), m.Bits())
	require.NoError(t, m.Set(2, false))
	require.Equal(t, uint8(0x0B), m.Bits())
	require.NoError(t, m.Set(2, true))
	require.Equal(t, uint8(0x0F), m.Bits())
	require.Equal(t, ErrInvalidID, m.Set(4, true))
	_, err := m.Toggle(9)
	require.Equal(t, ErrInvalidID, err)
}
