package remote

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/robotalks/irtx/pkg/remote/msgs"
)

// DefaultCommandExpiration is the default expiration expecting a result.
const DefaultCommandExpiration = 1 * time.Second

// purgeInterval is how often expired commands are checked.
const purgeInterval = 100 * time.Millisecond

// Conn is a Client over a Pipe.
type Conn struct {
	Expiration time.Duration

	pipe     Pipe
	seq      uint32
	commands list.List
	seqMap   map[uint32]*commandFuture
	onEvent  func(msgs.Message)
	lock     sync.Mutex
}

// NewConn creates a Conn.
func NewConn(rw PacketReadWriter) *Conn {
	c := &Conn{}
	c.Init(rw)
	return c
}

// Init initializes Conn with defaults.
func (c *Conn) Init(rw PacketReadWriter) {
	c.Expiration = DefaultCommandExpiration
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	c.seqMap = make(map[uint32]*commandFuture)
}

// DoCommand implements Client.
func (c *Conn) DoCommand(msg msgs.Message) Future {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.seq++
	if c.seq == 0 {
		c.seq++
	}
	f := &commandFuture{
		seq:      c.seq,
		expireAt: time.Now().Add(c.Expiration),
		result:   make(chan Result, 1),
	}
	if err := c.pipe.Request(msg, f.seq); err != nil {
		f.result <- Result{Err: err}
		return f
	}
	f.elem = c.commands.PushBack(f)
	c.seqMap[f.seq] = f
	return f
}

// OnEvent implements Client.
func (c *Conn) OnEvent(fn func(msgs.Message)) {
	c.lock.Lock()
	c.onEvent = fn
	c.lock.Unlock()
}

// Run implements Client.
func (c *Conn) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.purgeLoop(ctx)
	err := c.pipe.Run(ctx)
	c.failPending(err)
	return err
}

// Close closes the underlying transport.
func (c *Conn) Close() error {
	return c.pipe.Close()
}

func (c *Conn) handleTypedMsg(ctx context.Context, msg msgs.Message, typed *msgs.Typed) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if typed.IsEvent() {
		if fn := c.onEvent; fn != nil {
			fn(msg)
		}
		return nil
	}
	f := c.seqMap[typed.Sequence]
	if f == nil {
		return nil
	}
	c.commands.Remove(f.elem)
	delete(c.seqMap, typed.Sequence)
	result := Result{Msg: msg}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		result.Err = cmdErr
	}
	f.result <- result
	close(f.result)
	return nil
}

func (c *Conn) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.purgeExpired(now)
		}
	}
}

func (c *Conn) purgeExpired(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for c.commands.Len() > 0 {
		elem := c.commands.Front()
		f := elem.Value.(*commandFuture)
		if f.expireAt.After(now) {
			break
		}
		c.commands.Remove(elem)
		delete(c.seqMap, f.seq)
		f.result <- Result{Err: context.DeadlineExceeded}
		close(f.result)
	}
}

func (c *Conn) failPending(err error) {
	if err == nil {
		err = context.Canceled
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	for elem := c.commands.Front(); elem != nil; elem = elem.Next() {
		f := elem.Value.(*commandFuture)
		f.result <- Result{Err: err}
		close(f.result)
	}
	c.commands.Init()
	c.seqMap = make(map[uint32]*commandFuture)
}

type commandFuture struct {
	seq      uint32
	expireAt time.Time
	elem     *list.Element
	result   chan Result
}

func (c *commandFuture) ResultChan() <-chan Result {
	return c.result
}
