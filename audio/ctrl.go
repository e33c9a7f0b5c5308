package audio

import "math"

// ConstCtrl outputs a control value that jumps to whatever slot 0 is set to.
type ConstCtrl struct {
	value float32
}

func NewConstCtrl(value float32) *ConstCtrl { return &ConstCtrl{value: value} }

func (c *ConstCtrl) Outputs() (int, int) { return 0, 1 }

func (c *ConstCtrl) SetParam(slot int, value float32, _ uint64) bool {
	if slot != 0 {
		return false
	}
	c.value = value
	return true
}

func (c *ConstCtrl) Process(_, out *Ports) {
	out.Controls[0] = c.value
}

// smoothRate is the fraction of the remaining distance covered per chunk, about
// a 15ms time constant at 44.1kHz.
const smoothRate = 0.1

// SmoothCtrl outputs a control value that glides towards slot 0 to avoid zipper
// noise when a knob moves.
type SmoothCtrl struct {
	value  float32
	target float32
}

func NewSmoothCtrl(value float32) *SmoothCtrl {
	return &SmoothCtrl{value: value, target: value}
}

func (c *SmoothCtrl) Outputs() (int, int) { return 0, 1 }

func (c *SmoothCtrl) SetParam(slot int, value float32, _ uint64) bool {
	if slot != 0 {
		return false
	}
	c.target = value
	return true
}

func (c *SmoothCtrl) Process(_, out *Ports) {
	c.value += (c.target - c.value) * smoothRate
	out.Controls[0] = c.value
}

// log2A4 is log2(440), the pitch of midi note 69.
var log2A4 = float32(math.Log2(440))

// NotePitch turns notes into a log2 frequency control signal. It holds the last
// note played; slot 0 overrides the value directly.
type NotePitch struct {
	value float32
}

func NewNotePitch() *NotePitch { return &NotePitch{value: log2A4} }

func (p *NotePitch) Outputs() (int, int) { return 0, 1 }

func (p *NotePitch) HandleNote(pitch, _ float32, on bool, _ uint64) {
	if on {
		p.value = midiToLogFreq(pitch)
	}
}

func (p *NotePitch) SetParam(slot int, value float32, _ uint64) bool {
	if slot != 0 {
		return false
	}
	p.value = value
	return true
}

func (p *NotePitch) Process(_, out *Ports) {
	out.Controls[0] = p.value
}

func midiToLogFreq(note float32) float32 {
	return log2A4 + (note-69)/12
}
