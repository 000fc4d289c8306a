// Package heartbeat runs the lowest priority task, blinking the status LED
// and reporting the transmitter state.
package heartbeat

import (
	"github.com/golang/glog"

	"github.com/robotalks/irtx/pkg/command"
	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/hw"
)

// TaskName is the name of the heartbeat task.
const TaskName = "TaskPeriodic"

// DefaultPeriod is 2 seconds at the default tick rate.
const DefaultPeriod = 200

// Publisher receives status snapshots.
type Publisher interface {
	PublishStatus(command.Status)
}

// Task is the heartbeat task.
type Task struct {
	Period     uint32
	LED        hw.Pin
	Printer    fx.Printer
	Surface    *command.Surface
	Publishers []Publisher
}

// New creates a heartbeat Task.
func New(surface *command.Surface, led hw.Pin, printer fx.Printer) *Task {
	return &Task{
		Period:  DefaultPeriod,
		LED:     led,
		Printer: printer,
		Surface: surface,
	}
}

// RunTask implements fx.Task.
func (t *Task) RunTask(tc *fx.TaskContext) error {
	t.Printer.Printf(TaskName, "Starting.")
	for {
		t.Printer.Printf(TaskName, "Transmitting")
		t.LED.Toggle()
		st := t.Surface.Status()
		glog.V(3).Infof("%s: frames %d, %s, enabled %04b", TaskName, st.Frames, st.Rate, st.Enabled)
		for _, p := range t.Publishers {
			p.PublishStatus(st)
		}
		if err := tc.Delay(t.Period); err != nil {
			return err
		}
	}
}

// AddToScheduler implements fx.TaskAdder.
func (t *Task) AddToScheduler(s *fx.Scheduler) {
	s.AddTask(TaskName, fx.PrLvHeartbeat, t.RunTask)
}
