package audio

import (
	"fmt"
	"sync/atomic"
)

// ReportKind classifies something the render thread wants the control side to know.
type ReportKind int

const (
	// ReportRetired carries a node that was replaced in the graph. Dropping the
	// reference on the receiving side keeps deallocation off the render thread.
	ReportRetired ReportKind = iota
	// ReportApplyError means a command could not be applied.
	ReportApplyError
	// ReportRenderError means a chunk was rendered as silence.
	ReportRenderError
	// ReportPanic means a module panicked while rendering.
	ReportPanic
)

func (k ReportKind) String() string {
	switch k {
	case ReportRetired:
		return "retired"
	case ReportApplyError:
		return "apply-error"
	case ReportRenderError:
		return "render-error"
	case ReportPanic:
		return "panic"
	}
	return fmt.Sprintf("ReportKind(%d)", int(k))
}

// Report is a message from the render thread. Err is always one of the package's
// preallocated sentinel errors so building a report never allocates.
type Report struct {
	Kind      ReportKind
	Timestamp uint64
	Node      int
	Err       error
	Retired   *Node
	Value     interface{} // recovered panic value
}

// reportBuffer is a lock-free spsc queue flowing from the render thread back to
// the control side. It never waits: when the reader falls behind, new reports
// are counted and discarded.
type reportBuffer struct {
	reports     []Report
	read, write atomic.Uint32
	dropped     atomic.Uint64
}

func newReportBuffer(size int) *reportBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("report buffer size must be a power of 2")
	}
	return &reportBuffer{reports: make([]Report, size)}
}

func (b *reportBuffer) push(r Report) bool {
	write := b.write.Load()
	if write-b.read.Load() == uint32(len(b.reports)) {
		b.dropped.Add(1)
		return false
	}
	b.reports[write%uint32(len(b.reports))] = r
	b.write.Store(write + 1)
	return true
}

func (b *reportBuffer) iter(f func(Report)) int {
	read := b.read.Load()
	write := b.write.Load()
	n := int(write - read)
	for read != write {
		i := read % uint32(len(b.reports))
		r := b.reports[i]
		b.reports[i] = Report{}
		f(r)
		read++
	}
	b.read.Store(read)
	return n
}

// Reports is the receiving end of the render thread's diagnostic channel.
type Reports struct {
	b *reportBuffer
}

// Poll passes all pending reports to f and returns how many there were. Only one
// goroutine may poll.
func (r *Reports) Poll(f func(Report)) int {
	return r.b.iter(f)
}

// Dropped returns how many reports were discarded because nobody was polling.
func (r *Reports) Dropped() uint64 {
	return r.b.dropped.Load()
}
