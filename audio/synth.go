package audio

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Waveform selects the shape produced by an Oscillator.
type Waveform int

const (
	Saw Waveform = iota
	Sine
	Square
)

func (w Waveform) String() string {
	switch w {
	case Saw:
		return "saw"
	case Sine:
		return "sine"
	case Square:
		return "square"
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

// Oscillator produces one audio buffer. Its frequency in Hz is 2^ctrl where ctrl
// is control input 0, or parameter slot 0 when no control input is wired.
type Oscillator struct {
	wave       Waveform
	sampleRate float64
	logFreq    float32
	phase      float64
}

func NewOscillator(wave Waveform, sampleRate float64, logFreq float32) *Oscillator {
	return &Oscillator{wave: wave, sampleRate: sampleRate, logFreq: logFreq}
}

func (o *Oscillator) Outputs() (int, int) { return 1, 0 }

func (o *Oscillator) SetParam(slot int, value float32, _ uint64) bool {
	if slot != 0 {
		return false
	}
	o.logFreq = value
	return true
}

func (o *Oscillator) Process(in, out *Ports) {
	logFreq := o.logFreq
	if len(in.Controls) > 0 {
		logFreq = in.Controls[0]
	}
	freq := math.Exp2(float64(logFreq))
	if nyquist := o.sampleRate / 2; freq > nyquist {
		freq = nyquist
	}
	delta := freq * twoPi / o.sampleRate
	buf := out.Buffers[0]
	for n := range buf {
		buf[n] = float32(o.value(o.phase))
		o.phase += delta
		if o.phase >= twoPi {
			o.phase -= twoPi
		}
	}
}

func (o *Oscillator) value(phase float64) float64 {
	switch o.wave {
	case Sine:
		return math.Sin(phase)
	case Square:
		if phase <= math.Pi {
			return 1.0
		}
		return -1.0
	default:
		return (2.0 * phase / twoPi) - 1.
	}
}

// Biquad is a resonant lowpass filter on audio input 0. Control input 0 is the
// cutoff as log2 Hz, control input 1 the resonance in [0, 0.995].
type Biquad struct {
	sampleRate float64

	// state
	x1, x2 float64 // x[n-1] x[n-2]
	y1, y2 float64 // y[n-1] y[n-2]
}

func NewBiquad(sampleRate float64) *Biquad {
	return &Biquad{sampleRate: sampleRate}
}

func (f *Biquad) Outputs() (int, int) { return 1, 0 }

// Lowpass filter based on https://www.w3.org/2011/audio/audio-eq-cookbook.html
func (f *Biquad) Process(in, out *Ports) {
	buf := out.Buffers[0]
	if len(in.Buffers) == 0 {
		for n := range buf {
			buf[n] = 0
		}
		return
	}
	logFreq, res := float32(10), float32(0.5)
	if len(in.Controls) > 0 {
		logFreq = in.Controls[0]
	}
	if len(in.Controls) > 1 {
		res = in.Controls[1]
	}
	b0, b1, b2, a1, a2 := f.coefficients(math.Exp2(float64(logFreq)), float64(res))

	src := in.Buffers[0]
	for n := range buf {
		x := float64(src[n])
		y := b0*x + b1*f.x1 + b2*f.x2 - a1*f.y1 - a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		buf[n] = float32(y)
	}
}

// coefficients returns normalized lowpass coefficients. Resonance r maps to
// q = 1/(2(1-r)), so 0.5 gives q = 1.
func (f *Biquad) coefficients(freq, res float64) (b0, b1, b2, a1, a2 float64) {
	if limit := f.sampleRate * 0.45; freq > limit {
		freq = limit
	}
	if freq < 10 {
		freq = 10
	}
	if res < 0 {
		res = 0
	}
	if res > 0.995 {
		res = 0.995
	}
	q := 1 / (2 * (1 - res))

	omega := twoPi * freq / f.sampleRate
	cos := math.Cos(omega)
	sin := math.Sin(omega)
	alpha := sin / (2. * q)

	a0 := 1 + alpha
	b0 = (1 - cos) / 2 / a0
	b1 = (1 - cos) / a0
	b2 = b0
	a1 = -2 * cos / a0
	a2 = (1 - alpha) / a0
	return
}

// Sum mixes all audio inputs into one buffer.
type Sum struct{}

func (Sum) Outputs() (int, int) { return 1, 0 }

func (Sum) Process(in, out *Ports) {
	buf := out.Buffers[0]
	for n := range buf {
		buf[n] = 0
	}
	for _, src := range in.Buffers {
		for n := range buf {
			buf[n] += src[n]
		}
	}
}

// Gain scales audio input 0 linearly by control input 0, or by parameter slot 0
// when no control input is wired.
type Gain struct {
	level float32
}

func NewGain(level float32) *Gain { return &Gain{level: level} }

func (g *Gain) Outputs() (int, int) { return 1, 0 }

func (g *Gain) SetParam(slot int, value float32, _ uint64) bool {
	if slot != 0 {
		return false
	}
	g.level = value
	return true
}

func (g *Gain) Process(in, out *Ports) {
	level := g.level
	if len(in.Controls) > 0 {
		level = in.Controls[0]
	}
	buf := out.Buffers[0]
	if len(in.Buffers) == 0 {
		for n := range buf {
			buf[n] = 0
		}
		return
	}
	for n, v := range in.Buffers[0] {
		buf[n] = v * level
	}
}

// Dc outputs a constant audio signal.
type Dc struct {
	value float32
}

func NewDc(value float32) *Dc { return &Dc{value: value} }

func (d *Dc) Outputs() (int, int) { return 1, 0 }

func (d *Dc) SetParam(slot int, value float32, _ uint64) bool {
	if slot != 0 {
		return false
	}
	d.value = value
	return true
}

func (d *Dc) Process(_, out *Ports) {
	buf := out.Buffers[0]
	for n := range buf {
		buf[n] = d.value
	}
}
