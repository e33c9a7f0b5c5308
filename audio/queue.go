package audio

import (
	"sync"
	"sync/atomic"
)

// queue is a bounded lock-free spsc queue of commands. When full, the producer
// evicts the oldest pending command. Slots hold pointers so an eviction racing
// with a read can never hand the consumer a torn value: the consumer claims a slot
// by advancing read with a CAS, and a failed CAS means the slot was evicted.
type queue struct {
	slots   []atomic.Pointer[slot]
	mask    uint32
	read    atomic.Uint32
	write   atomic.Uint32
	dropped atomic.Uint64
}

type slot struct {
	cmd Command
}

func newQueue(size int) *queue {
	if size <= 0 || size&(size-1) != 0 {
		panic("command queue size must be a power of 2")
	}
	return &queue{
		slots: make([]atomic.Pointer[slot], size),
		mask:  uint32(size - 1),
	}
}

// push enqueues cmd and reports whether it fit without evicting anything.
func (q *queue) push(cmd Command) bool {
	s := &slot{cmd: cmd}
	write := q.write.Load()
	fit := true
	for {
		read := q.read.Load()
		if write-read < uint32(len(q.slots)) {
			break
		}
		if q.read.CompareAndSwap(read, read+1) {
			q.dropped.Add(1)
			fit = false
			break
		}
	}
	q.slots[write&q.mask].Store(s)
	q.write.Store(write + 1)
	return fit
}

func (q *queue) pop() (Command, bool) {
	for {
		read := q.read.Load()
		if read == q.write.Load() {
			return nil, false
		}
		s := q.slots[read&q.mask].Load()
		if q.read.CompareAndSwap(read, read+1) {
			return s.cmd, true
		}
	}
}

func (q *queue) len() int {
	return int(q.write.Load() - q.read.Load())
}

// NewChannel creates the control channel between the MIDI side and the render
// thread. size must be a power of 2.
func NewChannel(size int) (*Sender, *Receiver) {
	q := newQueue(size)
	return &Sender{q: q}, &Receiver{q: q}
}

// Sender is the producer end of the control channel. It is safe to use from
// several goroutines; they are serialized among themselves so the queue only
// ever sees one producer. The render thread never touches the lock.
type Sender struct {
	mu sync.Mutex
	q  *queue
}

// Send enqueues cmd. It never waits for the consumer. It returns false if the
// channel was full and the oldest pending command was dropped to make room.
func (s *Sender) Send(cmd Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.push(cmd)
}

// Len returns the number of pending commands.
func (s *Sender) Len() int { return s.q.len() }

// Cap returns the channel capacity.
func (s *Sender) Cap() int { return len(s.q.slots) }

// Dropped returns how many commands were evicted on overflow so far.
func (s *Sender) Dropped() uint64 { return s.q.dropped.Load() }

// Receiver is the consumer end of the control channel, owned by the render
// thread. Its methods never block and never allocate.
type Receiver struct {
	q *queue
}

// TryReceive returns the oldest pending command, if any.
func (r *Receiver) TryReceive() (Command, bool) {
	return r.q.pop()
}

// Drain passes every currently available command to f in FIFO order and returns
// how many were delivered. At most one channel capacity is drained per call so a
// producer that keeps sending cannot hold the caller in the loop.
func (r *Receiver) Drain(f func(Command)) int {
	var n int
	for n < len(r.q.slots) {
		cmd, ok := r.q.pop()
		if !ok {
			break
		}
		f(cmd)
		n++
	}
	return n
}

// Len returns the number of pending commands.
func (r *Receiver) Len() int { return r.q.len() }

// Dropped returns how many commands were evicted on overflow so far.
func (r *Receiver) Dropped() uint64 { return r.q.dropped.Load() }
