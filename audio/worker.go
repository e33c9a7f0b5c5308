package audio

import "errors"

// ErrRenderPanic is reported when a module panics while rendering.
var ErrRenderPanic = errors.New("module panicked during render")

// Worker is the synthesis engine: it owns the node graph, applies commands and
// renders chunks. After streaming starts only the render thread may call Apply
// and RenderChunk.
type Worker struct {
	graph   *Graph
	reports *reportBuffer
}

// NewWorker returns an engine with an empty graph. reportSize is the capacity
// of the diagnostic channel and must be a power of 2.
func NewWorker(reportSize int) *Worker {
	return &Worker{
		graph:   newGraph(),
		reports: newReportBuffer(reportSize),
	}
}

// Create returns an engine together with both ends of a control channel of the
// given capacity.
func Create(capacity int) (*Worker, *Sender, *Receiver) {
	tx, rx := NewChannel(capacity)
	return NewWorker(capacity), tx, rx
}

// Reports returns the receiving end of the worker's diagnostic channel.
func (w *Worker) Reports() *Reports {
	return &Reports{b: w.reports}
}

// HandleNode inserts n into the graph. It is meant for building the initial
// topology before streaming; while streaming, send n through the channel.
func (w *Worker) HandleNode(n *Node) error {
	_, err := w.graph.insert(n)
	return err
}

// Apply executes one command. Failures are reported, never returned.
func (w *Worker) Apply(cmd Command) {
	switch c := cmd.(type) {
	case SetParam:
		n := w.graph.node(c.Node)
		if n == nil {
			w.report(ReportApplyError, c.Timestamp, c.Node, ErrNoNode)
			return
		}
		ps, ok := n.Module.(ParamSetter)
		if !ok {
			w.report(ReportApplyError, c.Timestamp, c.Node, ErrNoParams)
			return
		}
		if !ps.SetParam(c.Slot, c.Value, c.Timestamp) {
			w.report(ReportApplyError, c.Timestamp, c.Node, ErrBadSlot)
		}
	case Note:
		for _, id := range c.Targets {
			n := w.graph.node(id)
			if n == nil {
				w.report(ReportApplyError, c.Timestamp, id, ErrNoNode)
				continue
			}
			nh, ok := n.Module.(NoteHandler)
			if !ok {
				w.report(ReportApplyError, c.Timestamp, id, ErrNoNotes)
				continue
			}
			nh.HandleNote(c.Pitch, c.Velocity, c.On, c.Timestamp)
		}
	case *Node:
		old, err := w.graph.insert(c)
		if err != nil {
			w.report(ReportApplyError, c.Timestamp, c.ID, err)
			return
		}
		if old != nil {
			w.reports.push(Report{Kind: ReportRetired, Timestamp: c.Timestamp, Node: c.ID, Retired: old})
		}
	}
}

// RenderChunk renders ChunkSize samples for timestamp ts. The returned buffer is
// owned by the graph and valid until the next call.
func (w *Worker) RenderChunk(ts uint64) (buf []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.reports.push(Report{Kind: ReportPanic, Timestamp: ts, Err: ErrRenderPanic, Value: r})
			buf, err = nil, ErrRenderPanic
		}
	}()
	buf, err = w.graph.render()
	if err != nil {
		w.report(ReportRenderError, ts, 0, err)
	}
	return buf, err
}

func (w *Worker) report(kind ReportKind, ts uint64, node int, err error) {
	w.reports.push(Report{Kind: kind, Timestamp: ts, Node: node, Err: err})
}
