package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/irtx/pkg/framework"
)

// MaxLine is the longest line written; longer lines are dropped.
const MaxLine = 256

// Formatter writes timestamped tagged lines:
//
//	1:hh:mm:ss.mmm Tag:\tmessage\r\n
//
// The timestamp is derived from scheduler ticks.
type Formatter struct {
	W          io.Writer
	Ticks      fx.TickSource
	TickPeriod time.Duration

	lock sync.Mutex
}

// NewFormatter creates a Formatter.
func NewFormatter(w io.Writer, ticks fx.TickSource) *Formatter {
	return &Formatter{W: w, Ticks: ticks, TickPeriod: fx.DefaultTickPeriod}
}

// Timestamp formats an uptime. Hours wrap at 60.
func Timestamp(uptime time.Duration) string {
	ms := int64(uptime / time.Millisecond)
	return fmt.Sprintf("1:%02d:%02d:%02d.%03d ",
		(ms/3600000)%60, (ms/60000)%60, (ms/1000)%60, ms%1000)
}

// Printf implements fx.Printer.
func (f *Formatter) Printf(tag, format string, args ...interface{}) {
	var uptime time.Duration
	if f.Ticks != nil {
		uptime = time.Duration(f.Ticks.Ticks()) * f.TickPeriod
	}
	line := Timestamp(uptime)
	if tag != "" {
		line += tag + ":\t"
	}
	line += fmt.Sprintf(format, args...) + "\r\n"
	if len(line) > MaxLine {
		glog.Warningf("console: line of %d bytes dropped", len(line))
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if _, err := io.WriteString(f.W, line); err != nil {
		glog.Errorf("console: write error: %v", err)
	}
}
