package audio

import "math"

type envelopeState int

const (
	stateInit envelopeState = iota
	stateAttack
	stateDecay
	stateSustain
	stateRelease
)

// Adsr is a note-gated envelope producing a control signal in [0, 1], scaled by
// note velocity. Slots 0-3 are attack, decay and release in seconds and sustain
// as a level.
type Adsr struct {
	sampleRate float64

	attack  float64
	decay   float64
	sustain float64
	release float64

	attackRate  float64
	decayRate   float64
	releaseRate float64

	gain  float64
	pitch float32
	val   float64
	state envelopeState
}

func NewAdsr(sampleRate, attack, decay, sustain, release float64) *Adsr {
	return &Adsr{
		sampleRate: sampleRate,
		attack:     clampTime(attack),
		decay:      clampTime(decay),
		sustain:    clampLevel(sustain),
		release:    clampTime(release),
		gain:       1,
	}
}

func (e *Adsr) Outputs() (int, int) { return 0, 1 }

func (e *Adsr) SetParam(slot int, value float32, _ uint64) bool {
	v := float64(value)
	switch slot {
	case 0:
		e.attack = clampTime(v)
	case 1:
		e.decay = clampTime(v)
	case 2:
		e.sustain = clampLevel(v)
	case 3:
		e.release = clampTime(v)
	default:
		return false
	}
	return true
}

func clampLevel(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampTime(v float64) float64 {
	if v < 0.0005 {
		return 0.0005
	}
	if v > 15 {
		return 15
	}
	return v
}

// HandleNote retriggers on note on. A note off only releases the note that is
// currently sounding.
func (e *Adsr) HandleNote(pitch, velocity float32, on bool, _ uint64) {
	if on {
		e.pitch = pitch
		e.gain = float64(velocity) / 127
		e.startAttack()
		return
	}
	if pitch == e.pitch && e.state != stateInit {
		e.startRelease()
	}
}

// Process advances the envelope by one chunk of samples.
func (e *Adsr) Process(_, out *Ports) {
	for n := 0; n < ChunkSize; n++ {
		e.value()
	}
	out.Controls[0] = float32(e.val * e.gain)
}

func (e *Adsr) value() float64 {
	switch e.state {
	case stateInit:
		return 0.
	case stateAttack:
		e.val += e.attackRate
		if e.val >= 1 {
			e.val = 1.0
			if e.decayRate > 0 {
				e.state = stateDecay
			} else {
				e.state = stateSustain
			}
		}
	case stateDecay:
		e.val -= e.decayRate
		if e.val <= e.sustain {
			e.val = e.sustain
			e.state = stateSustain
		}
	case stateSustain:
		if e.sustain == 0 {
			e.state = stateInit
		} else {
			e.val = e.sustain
		}
	case stateRelease:
		e.val -= e.releaseRate
		if e.val <= 0 {
			e.val = 0
			e.state = stateInit
		}
	}
	return e.val
}

func (e *Adsr) startAttack() {
	e.val = 0
	e.state = stateAttack
	e.attackRate = 1.0 / (e.attack * e.sampleRate)
	e.decayRate = (1.0 - e.sustain) / (e.decay * e.sampleRate)
}

func (e *Adsr) startRelease() {
	e.state = stateRelease
	e.releaseRate = e.val / (e.release * e.sampleRate)
	if e.releaseRate <= 0 {
		e.val = 0
		e.state = stateInit
	}
}
