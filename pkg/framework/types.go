package framework

import (
	"context"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// TaskFunc is the body of a cooperative task. It runs only while holding
// the scheduler's run token and gives the token back at every yield point
// of its TaskContext.
type TaskFunc func(*TaskContext) error

// Task is implemented by components which run as a cooperative task.
type Task interface {
	RunTask(*TaskContext) error
}

// TaskAdder provides specific logic to add tasks to a scheduler.
type TaskAdder interface {
	AddToScheduler(*Scheduler)
}

// TickSource provides the scheduler tick count.
type TickSource interface {
	Ticks() uint32
}

// Printer writes operator-facing messages tagged with their source.
type Printer interface {
	Printf(tag, format string, args ...interface{})
}

// NopPrinter discards messages.
type NopPrinter struct{}

// Printf implements Printer.
func (NopPrinter) Printf(string, string, ...interface{}) {}

// ISR is an interrupt service routine. It must only do bookkeeping
// (tick accounting, semaphore signaling, buffer pushes) and must not
// raise another interrupt.
type ISR func()

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefined priority levels, smaller value means higher priority.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvTransmit is the priority of the transmission engine.
	PrLvTransmit = PrLvHigh
	// PrLvCommand is the priority of command processing.
	PrLvCommand = PrLvNormal
	// PrLvHeartbeat is the priority of the periodic heartbeat.
	PrLvHeartbeat = PrLvLow
)

// NoTimeout makes a semaphore wait block until signaled.
const NoTimeout uint32 = 0

// DefaultTickRate is the nominal scheduler tick frequency in Hz.
const DefaultTickRate = 100
