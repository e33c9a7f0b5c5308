package audio

// Ports holds the inputs or outputs of one module for one chunk. Every buffer is
// ChunkSize samples long.
type Ports struct {
	Buffers  [][]float32
	Controls []float32
}

// Module is a synthesis node. Process runs on the render thread once per chunk
// and must not allocate or block.
type Module interface {
	// Outputs reports how many audio buffers and control values Process writes.
	Outputs() (buffers, controls int)
	Process(in, out *Ports)
}

// ParamSetter is implemented by modules with settable parameter slots.
// SetParam reports false if the module has no such slot.
type ParamSetter interface {
	SetParam(slot int, value float32, ts uint64) bool
}

// NoteHandler is implemented by modules that respond to note events.
type NoteHandler interface {
	HandleNote(pitch, velocity float32, on bool, ts uint64)
}
