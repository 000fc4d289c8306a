package framework

import (
	"context"
	"sort"
	"sync"

	"github.com/golang/glog"
)

type taskState int

const (
	taskReady taskState = iota
	taskDelayed
	taskWaiting
	taskDone
)

type taskItem struct {
	name     string
	priority int
	fn       TaskFunc

	state    taskState
	readySeq uint64
	wakeAt   uint32
	timed    bool
	timedOut bool
	sem      *Semaphore
	err      error
	resume   chan struct{}
}

// yielded is handed back to Run with the run token.
type yielded struct {
	task *taskItem
	done bool
	err  error
}

// Scheduler is a fixed-priority cooperative task scheduler.
//
// Every task body runs on its own goroutine, but only the task holding the
// run token executes. The token moves only at yield points (Delay, Wait,
// Yield or return), and is always handed to the highest priority ready task.
// Tasks with equal priority are served in the order they became ready.
type Scheduler struct {
	IRQ *Interrupts

	lock    sync.Mutex
	tasks   []*taskItem
	ticks   uint32
	seq     uint64
	started bool

	yieldCh chan yielded
	wakeCh  chan struct{}
}

// NewScheduler creates a Scheduler using irq for interrupt delivery.
func NewScheduler(irq *Interrupts) *Scheduler {
	if irq == nil {
		irq = NewInterrupts()
	}
	return &Scheduler{
		IRQ:     irq,
		yieldCh: make(chan yielded),
		wakeCh:  make(chan struct{}, 1),
	}
}

// Add adds TaskAdders.
func (s *Scheduler) Add(adders ...TaskAdder) *Scheduler {
	for _, adder := range adders {
		adder.AddToScheduler(s)
	}
	return s
}

// AddTask registers a task. It must be called before Run.
func (s *Scheduler) AddTask(name string, priority int, fn TaskFunc) *Scheduler {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.started {
		panic(ErrStarted)
	}
	s.seq++
	s.tasks = append(s.tasks, &taskItem{
		name:     name,
		priority: priority,
		fn:       fn,
		readySeq: s.seq,
		resume:   make(chan struct{}),
	})
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].priority < s.tasks[j].priority
	})
	return s
}

// Ticks implements TickSource.
func (s *Scheduler) Ticks() uint32 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ticks
}

// Tick is the timer service routine. Deliver it with IRQ.Raise.
func (s *Scheduler) Tick() {
	s.lock.Lock()
	s.ticks++
	woke := false
	for _, t := range s.tasks {
		if (t.state == taskDelayed || (t.state == taskWaiting && t.timed)) && tickReached(s.ticks, t.wakeAt) {
			if t.state == taskWaiting {
				t.sem.removeWaiter(t)
				t.timedOut = true
			}
			s.makeReady(t)
			woke = true
		}
	}
	s.lock.Unlock()
	if woke {
		s.notify()
	}
}

// NewTicker creates a Ticker which delivers Tick through IRQ.
func (s *Scheduler) NewTicker() *Ticker {
	return NewTicker(s.IRQ, s.Tick)
}

// NewSemaphore creates a counting semaphore bound to this scheduler.
func (s *Scheduler) NewSemaphore(initial uint32) *Semaphore {
	return &Semaphore{sched: s, count: initial}
}

// Run dispatches tasks until all of them return, one returns an error, or
// ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.lock.Lock()
	s.started = true
	tasks := append([]*taskItem(nil), s.tasks...)
	s.lock.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for _, t := range tasks {
		go s.runTask(ctx, t)
	}

	for {
		t, alive := s.pick()
		if !alive {
			return nil
		}
		if t == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.wakeCh:
				continue
			}
		}
		glog.V(4).Infof("sched: dispatch %s", t.name)
		select {
		case t.resume <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case y := <-s.yieldCh:
			if y.done && y.err != nil {
				glog.V(2).Infof("sched: task %s stopped: %v", y.task.name, y.err)
				return y.err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, t *taskItem) {
	select {
	case <-t.resume:
	case <-ctx.Done():
		return
	}
	err := t.fn(&TaskContext{ctx: ctx, sched: s, task: t})
	s.lock.Lock()
	t.state, t.err = taskDone, err
	s.lock.Unlock()
	select {
	case s.yieldCh <- yielded{task: t, done: true, err: err}:
	case <-ctx.Done():
	}
}

// pick returns the next task to dispatch, and false when no task is left.
func (s *Scheduler) pick() (*taskItem, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	var next *taskItem
	alive := false
	for _, t := range s.tasks {
		if t.state == taskDone {
			continue
		}
		alive = true
		if t.state != taskReady {
			continue
		}
		if next == nil {
			next = t
			continue
		}
		if t.priority > next.priority {
			break
		}
		if t.readySeq < next.readySeq {
			next = t
		}
	}
	return next, alive
}

func (s *Scheduler) makeReady(t *taskItem) {
	s.seq++
	t.state, t.readySeq = taskReady, s.seq
}

func (s *Scheduler) notify() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// yield hands the run token back and blocks until dispatched again.
func (s *Scheduler) yield(ctx context.Context, t *taskItem) error {
	select {
	case s.yieldCh <- yielded{task: t}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-t.resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func tickReached(now, at uint32) bool {
	return int32(now-at) >= 0
}

// TaskContext is the handle a task uses to reach its yield points.
type TaskContext struct {
	ctx   context.Context
	sched *Scheduler
	task  *taskItem
}

// Context returns the context the scheduler is running with.
func (c *TaskContext) Context() context.Context {
	return c.ctx
}

// Name returns the task name.
func (c *TaskContext) Name() string {
	return c.task.name
}

// Ticks returns the scheduler tick count.
func (c *TaskContext) Ticks() uint32 {
	return c.sched.Ticks()
}

// Scheduler returns the owning scheduler.
func (c *TaskContext) Scheduler() *Scheduler {
	return c.sched
}

// Yield gives other ready tasks of the same or higher priority a chance
// to run.
func (c *TaskContext) Yield() error {
	return c.Delay(0)
}

// Delay suspends the task for the given number of ticks.
func (c *TaskContext) Delay(ticks uint32) error {
	s := c.sched
	s.lock.Lock()
	if ticks == 0 {
		s.makeReady(c.task)
	} else {
		c.task.state, c.task.wakeAt = taskDelayed, s.ticks+ticks
	}
	s.lock.Unlock()
	return s.yield(c.ctx, c.task)
}

// Wait takes one count from sem, suspending the task until it is signaled
// or timeout ticks elapse. NoTimeout waits forever.
func (c *TaskContext) Wait(sem *Semaphore, timeout uint32) error {
	s := c.sched
	s.lock.Lock()
	if sem.count > 0 {
		sem.count--
		s.lock.Unlock()
		return nil
	}
	t := c.task
	t.state, t.sem, t.timedOut = taskWaiting, sem, false
	if t.timed = timeout != NoTimeout; t.timed {
		t.wakeAt = s.ticks + timeout
	}
	sem.waiters = append(sem.waiters, t)
	s.lock.Unlock()

	if err := s.yield(c.ctx, t); err != nil {
		return err
	}
	s.lock.Lock()
	timedOut := t.timedOut
	t.sem, t.timedOut = nil, false
	s.lock.Unlock()
	if timedOut {
		return ErrTimeout
	}
	return nil
}

// Name implements Named.
func (s *Scheduler) Name() string {
	return "scheduler"
}
