package uart

import (
	"context"
	"io"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReaderDeliversBytes(t *testing.T) {
	var got []byte
	r := &Reader{
		Src:     ioutil.NopCloser(strings.NewReader("ca2")),
		Deliver: func(b byte) { got = append(got, b) },
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, r.Run(ctx))
	require.Equal(t, []byte("ca2"), got)
}

func TestReaderStaysAfterEOF(t *testing.T) {
	r := &Reader{
		Src:     ioutil.NopCloser(strings.NewReader("")),
		Deliver: func(byte) {},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	select {
	case err := <-done:
		t.Fatalf("reader stopped at EOF: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestReaderCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	got := make(chan byte, 4)
	r := &Reader{Src: pr, Deliver: func(b byte) { got <- b }}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	_, err := pw.Write([]byte{'v'})
	require.NoError(t, err)
	require.Equal(t, byte('v'), <-got)
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestReaderError(t *testing.T) {
	pr, pw := io.Pipe()
	pw.CloseWithError(io.ErrUnexpectedEOF)
	r := &Reader{Src: pr, Deliver: func(byte) {}}
	err := r.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "uart read")
}

func TestConfig(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, 9600, conf.Baud)
	require.Empty(t, conf.Device)
	conf.Device = "/dev/null-serial-does-not-exist"
	_, err := conf.Open()
	require.Error(t, err)
}
