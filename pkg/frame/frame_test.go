package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/irtx/pkg/channel"
)

func TestDefaultTable(t *testing.T) {
	f := Default()
	require.Equal(t, Frame{0xFF, 0x40, 0x5F, 0x43, 0x55, 0x49, 0x5C, 0x46, 0x5A, 0x40}, f)
	require.Equal(t, []byte{0x40, 0x5A, 0x46, 0x5C, 0x49, 0x55, 0x43, 0x5F, 0x40, 0xFF}, f.Wire())
	require.Equal(t, "FF 40 5F 43 55 49 5C 46 5A 40", f.String())
}

func TestDemuxReconstructsChannels(t *testing.T) {
	f := Default()
	for _, c := range channel.Defaults() {
		require.Equal(t, c.Bits(), f.Demux(c.DataBit), "channel %d", c.ID)
	}
	require.Equal(t, channel.Framed('U'), f.Demux(4))
	require.Equal(t, channel.Framed(0), f.Demux(5))
	require.Equal(t, channel.Framed(0), f.Demux(7))
	require.Equal(t, [Len]byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, f.Demux(6))
}

func TestEncodeIsPure(t *testing.T) {
	chs := channel.Defaults()
	chs[2].Payload = 0xA5
	f := Build(chs[:])
	require.Equal(t, Build(chs[:]), f)
	require.Equal(t, channel.Framed(0xA5), f.Demux(chs[2].DataBit))
	for _, c := range chs {
		require.Equal(t, c.Bits(), f.Demux(c.DataBit))
	}
	require.NotEqual(t, Default(), f)
}

func TestEncodeLanes(t *testing.T) {
	cases := []struct {
		lanes []Lane
		frame Frame
	}{
		{nil, Frame{}},
		{[]Lane{ConstLane(0, 1)}, Frame{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{[]Lane{FramedLane(1, 0)}, Frame{2, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{[]Lane{FramedLane(0, 0x01)}, Frame{1, 0, 0, 0, 0, 0, 0, 0, 1, 0}},
	}
	for n, c := range cases {
		require.Equal(t, c.frame, Encode(c.lanes...), "case %d", n)
	}
}
