package framework

// Semaphore is a counting semaphore bound to a Scheduler.
// Signal may be called from a service routine, Wait only from a task
// through TaskContext.Wait.
type Semaphore struct {
	sched   *Scheduler
	count   uint32
	waiters []*taskItem
}

// Signal releases one count. The highest priority waiting task becomes
// ready instead if any task is waiting.
func (m *Semaphore) Signal() {
	s := m.sched
	s.lock.Lock()
	if len(m.waiters) == 0 {
		m.count++
		s.lock.Unlock()
		return
	}
	best := 0
	for n, t := range m.waiters {
		if t.priority < m.waiters[best].priority {
			best = n
		}
	}
	t := m.waiters[best]
	m.waiters = append(m.waiters[:best], m.waiters[best+1:]...)
	s.makeReady(t)
	s.lock.Unlock()
	s.notify()
}

// Count returns the number of available counts.
func (m *Semaphore) Count() uint32 {
	m.sched.lock.Lock()
	defer m.sched.lock.Unlock()
	return m.count
}

// must be called with scheduler lock held.
func (m *Semaphore) removeWaiter(t *taskItem) {
	for n, w := range m.waiters {
		if w == t {
			m.waiters = append(m.waiters[:n], m.waiters[n+1:]...)
			return
		}
	}
}
