package audio

// Command is an instruction for the render thread. Every command carries the
// timestamp of the event that produced it; the engine treats it as advisory.
type Command interface {
	Time() uint64
}

// SetParam sets parameter Slot of node Node to Value, already scaled to engine units.
type SetParam struct {
	Node      int
	Slot      int
	Value     float32
	Timestamp uint64
}

func (p SetParam) Time() uint64 { return p.Timestamp }

// Note starts or stops a note on every node in Targets, in order.
type Note struct {
	Targets   []int
	Pitch     float32 // midi note number
	Velocity  float32 // 0-127
	On        bool
	Timestamp uint64
}

func (n Note) Time() uint64 { return n.Timestamp }

// Time implements Command so nodes can be inserted while streaming.
func (n *Node) Time() uint64 { return n.Timestamp }
