package carrier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/irtx/pkg/channel"
	"github.com/robotalks/irtx/pkg/hw"
)

type countPacer int

func (p *countPacer) Wait() { *p++ }

type toggleLog []byte

func (l *toggleLog) Toggle(mask byte) { *l = append(*l, mask) }

func TestNewModulatorPairs(t *testing.T) {
	chs := channel.Defaults()
	m := NewModulator(hw.Null{}, NoPacer{}, chs[:])
	require.Equal(t, byte(0x0A), m.PairA)
	require.Equal(t, byte(0xA0), m.PairB)
	require.Equal(t, byte(0xAA), m.Lines())
}

func TestHoldSequence(t *testing.T) {
	chs := channel.Defaults()
	var log toggleLog
	var pacer countPacer
	m := NewModulator(&log, &pacer, chs[:])
	m.Hold(2, 0xFF)
	require.Equal(t, countPacer(3), pacer)
	require.Equal(t, toggleLog{0x0A, 0xA0, 0x0A, 0xA0, 0x0A, 0xA0}, log)
}

func TestHoldGate(t *testing.T) {
	chs := channel.Defaults()
	cases := []struct {
		gate byte
		log  toggleLog
	}{
		{0x08, toggleLog{0x08, 0x08}},
		{0x80, toggleLog{0x80, 0x80}},
		{0x28, toggleLog{0x08, 0x20, 0x08, 0x20}},
		{0x00, nil},
	}
	for _, c := range cases {
		var log toggleLog
		var pacer countPacer
		m := NewModulator(&log, &pacer, chs[:])
		m.Hold(1, c.gate)
		require.Equal(t, c.log, log, "gate %#x", c.gate)
		require.Equal(t, countPacer(2), pacer)
	}
}

func TestHoldCountsPerRate(t *testing.T) {
	chs := channel.Defaults()
	for _, cycles := range []uint32{63, 31, 15} {
		rec := hw.NewRecorder()
		rec.Write(0)
		m := NewModulator(rec, NoPacer{}, chs[:])
		m.Hold(cycles, m.Lines())
		for _, c := range chs {
			require.Equal(t, cycles+1, rec.Toggles(c.CarrierBit))
		}
		require.Equal(t, uint32(0), rec.Toggles(0))
	}
}

func TestSpinPacer(t *testing.T) {
	p := NewSpinPacer(0)
	require.Equal(t, DefaultHalfPeriod, p.HalfPeriod)

	p = NewSpinPacer(100 * time.Microsecond)
	start := time.Now()
	for i := 0; i < 20; i++ {
		p.Wait()
	}
	require.True(t, time.Since(start) >= 2*time.Millisecond)
	p.Reset()
	require.True(t, Calibrate(p, 10) >= 100*time.Microsecond)
	require.Equal(t, time.Duration(0), Calibrate(p, 0))
}
