package baud

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	require.Equal(t, []Rate{
		{Cycles: 63, BPS: 1200},
		{Cycles: 31, BPS: 2400},
		{Cycles: 15, BPS: 4800},
	}, DefaultTable())
}

func TestNewTable(t *testing.T) {
	cases := []struct {
		rates []uint32
		ok    bool
	}{
		{[]uint32{1200}, true},
		{[]uint32{600, 1200, 2400, 4800}, true},
		{nil, false},
		{[]uint32{0}, false},
		{[]uint32{2400, 9600}, false},
		{[]uint32{2400, 1200}, false},
		{[]uint32{1200, 1200}, false},
	}
	for _, c := range cases {
		_, err := NewTable(c.rates...)
		if c.ok {
			require.NoError(t, err, "rates %v", c.rates)
		} else {
			require.Error(t, err, "rates %v", c.rates)
		}
	}
}

func TestNewController(t *testing.T) {
	_, err := NewController(DefaultTable(), 3)
	require.Error(t, err)
	_, err = NewController(DefaultTable(), -1)
	require.Error(t, err)
	_, err = NewController(nil, 0)
	require.Error(t, err)

	c := NewDefaultController()
	require.Equal(t, 1, c.Index())
	require.Equal(t, uint32(31), c.Cycles())
	require.Equal(t, "2400 bps", c.Current().String())
}

func TestIncreaseDecreaseEveryIndex(t *testing.T) {
	table := DefaultTable()
	for i := range table {
		c, err := NewController(table, i)
		require.NoError(t, err)
		r, err := c.Increase()
		if i+1 < len(table) {
			require.NoError(t, err)
			require.Equal(t, table[i+1], r)
			require.Equal(t, i+1, c.Index())
		} else {
			require.Equal(t, &LimitError{BPS: 4800, Upper: true}, err)
			require.Equal(t, i, c.Index())
		}

		c, err = NewController(table, i)
		require.NoError(t, err)
		r, err = c.Decrease()
		if i > 0 {
			require.NoError(t, err)
			require.Equal(t, table[i-1], r)
			require.Equal(t, i-1, c.Index())
		} else {
			require.Equal(t, &LimitError{BPS: 1200}, err)
			require.Equal(t, i, c.Index())
		}
	}
}

func TestIncreaseToMaximum(t *testing.T) {
	c := NewDefaultController()
	r, err := c.Increase()
	require.NoError(t, err)
	require.Equal(t, Rate{Cycles: 15, BPS: 4800}, r)

	r, err = c.Increase()
	require.Error(t, err)
	require.Equal(t, "baud rate cannot go beyond 4800 bps", err.Error())
	require.Equal(t, uint32(4800), r.BPS)
	require.Equal(t, uint32(15), c.Cycles())
}

func TestDecreaseToMinimum(t *testing.T) {
	c := NewDefaultController()
	_, err := c.Decrease()
	require.NoError(t, err)
	_, err = c.Decrease()
	require.Equal(t, "baud rate cannot go below 1200 bps", err.Error())
	require.Equal(t, uint32(63), c.Cycles())
}

func TestTableIsCopied(t *testing.T) {
	c := NewDefaultController()
	table := c.Table()
	table[1].Cycles = 0
	require.Equal(t, uint32(31), c.Cycles())
}
