package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-wav"
)

// Sound is a mono sample loaded into memory.
type Sound struct {
	buf  []float32
	file string
}

// File returns the path the sound was loaded from.
func (s *Sound) File() string { return s.file }

// Len returns the number of frames in the sound.
func (s *Sound) Len() int { return len(s.buf) }

// LoadSound reads the first channel of a WAV file.
func LoadSound(file string) (*Sound, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snd := Sound{file: file}
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	// FloatValue divides by 2^bits, which halves every sample
	scale := float32(int(1) << (format.BitsPerSample - 1))
	var offset int
	if format.BitsPerSample == 8 {
		offset = 128 // 8 bit samples are unsigned
	}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		for _, sample := range samples {
			v := r.IntValue(sample, 0) - offset
			snd.buf = append(snd.buf, float32(v)/scale)
		}
	}
	return &snd, nil
}

// Sampler plays a Sound from the start on every note on, scaled by velocity.
// A note off for the sounding pitch stops it.
type Sampler struct {
	sound  *Sound
	pos    int
	active bool
	pitch  float32
	gain   float32
}

func NewSampler(snd *Sound) *Sampler {
	return &Sampler{sound: snd}
}

func (s *Sampler) Outputs() (int, int) { return 1, 0 }

func (s *Sampler) HandleNote(pitch, velocity float32, on bool, _ uint64) {
	if on {
		s.pos = 0
		s.active = len(s.sound.buf) > 0
		s.pitch = pitch
		s.gain = velocity / 127
		return
	}
	if pitch == s.pitch {
		s.active = false
	}
}

func (s *Sampler) Process(_, out *Ports) {
	buf := out.Buffers[0]
	n := 0
	if s.active {
		n = copy(buf, s.sound.buf[s.pos:])
		for i := range buf[:n] {
			buf[i] *= s.gain
		}
		s.pos += n
		if s.pos >= len(s.sound.buf) {
			s.active = false
			s.pos = 0
		}
	}
	for i := range buf[n:] {
		buf[n+i] = 0
	}
}
