package console

import (
	"sync"

	"github.com/robotalks/irtx/pkg/command"
)

// InboxSize is the default capacity of the Inbox.
const InboxSize = 256

// Input is one command input, a serial key or a remote request.
type Input struct {
	Key byte
	// Cmd is used instead of Key when set.
	Cmd *command.Command
	// Reply receives the result, nil for serial input.
	Reply func(command.Result)
}

// Inbox is a bounded FIFO of inputs filled from service routines.
type Inbox struct {
	lock  sync.Mutex
	items []Input
	head  int
	size  int
	drops uint64
}

// NewInbox creates an Inbox.
func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = InboxSize
	}
	return &Inbox{items: make([]Input, capacity)}
}

// Push appends an input, or drops it when the inbox is full.
func (b *Inbox) Push(in Input) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.size == len(b.items) {
		b.drops++
		return false
	}
	b.items[(b.head+b.size)%len(b.items)] = in
	b.size++
	return true
}

// Pop removes the oldest input.
func (b *Inbox) Pop() (in Input, ok bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.size == 0 {
		return
	}
	in, b.items[b.head] = b.items[b.head], Input{}
	b.head = (b.head + 1) % len(b.items)
	b.size--
	return in, true
}

// Len returns the number of queued inputs.
func (b *Inbox) Len() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.size
}

// Drops returns the number of inputs dropped on overflow.
func (b *Inbox) Drops() uint64 {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.drops
}
