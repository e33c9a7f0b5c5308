package audio

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrChunkAlignment means the driver asked for a frame count that is not a
// multiple of ChunkSize, i.e. the hardware buffer size was negotiated wrongly.
var ErrChunkAlignment = errors.New("frame count is not a multiple of the chunk size")

// Engine accepts commands and produces chunks of ChunkSize mono samples.
type Engine interface {
	Apply(cmd Command)
	RenderChunk(ts uint64) ([]float32, error)
}

// Stats is a snapshot of the render loop's progress.
type Stats struct {
	Timestamp uint64 // render timestamp of the next chunk, ns
	Chunks    uint64 // chunks rendered
	Silent    uint64 // chunks rendered as silence because the engine failed
	Commands  uint64 // commands applied
}

// Sink is the render loop. The audio driver calls it once per hardware buffer;
// for every chunk it applies all pending commands, renders one chunk and copies
// it to every output channel. Only one goroutine may render at a time.
type Sink struct {
	engine   Engine
	commands *Receiver
	apply    func(Command)
	clock    clock

	timestamp atomic.Uint64
	chunks    atomic.Uint64
	silent    atomic.Uint64
	applied   atomic.Uint64
}

// NewSink returns a render loop pulling from engine and draining commands. The
// render timestamp starts at 0 and advances by ChunkDuration(sampleRate) per chunk.
func NewSink(engine Engine, commands *Receiver, sampleRate float64) *Sink {
	s := &Sink{
		engine:   engine,
		commands: commands,
		clock:    newClock(sampleRate),
	}
	// bind once so draining does not allocate a method value per chunk
	s.apply = engine.Apply
	return s
}

// Stats may be called from any goroutine.
func (s *Sink) Stats() Stats {
	return Stats{
		Timestamp: s.timestamp.Load(),
		Chunks:    s.chunks.Load(),
		Silent:    s.silent.Load(),
		Commands:  s.applied.Load(),
	}
}

// Render fills non-interleaved channel buffers. Every channel must have the same
// length, a multiple of ChunkSize; otherwise ErrChunkAlignment is returned and
// nothing is rendered.
func (s *Sink) Render(out [][]float32) error {
	if len(out) == 0 {
		return nil
	}
	frames := len(out[0])
	if frames%ChunkSize != 0 {
		return ErrChunkAlignment
	}
	for _, ch := range out[1:] {
		if len(ch) != frames {
			return ErrChunkAlignment
		}
	}
	for i := 0; i < frames; i += ChunkSize {
		buf := s.next()
		for _, ch := range out {
			copy(ch[i:i+ChunkSize], buf)
		}
	}
	return nil
}

// RenderInterleaved fills a buffer of interleaved frames with the given number
// of channels.
func (s *Sink) RenderInterleaved(out []float32, channels int) error {
	if channels <= 0 || len(out)%channels != 0 {
		return ErrChunkAlignment
	}
	frames := len(out) / channels
	if frames%ChunkSize != 0 {
		return ErrChunkAlignment
	}
	for i := 0; i < frames; i += ChunkSize {
		buf := s.next()
		frame := out[i*channels : (i+ChunkSize)*channels]
		for j, v := range buf {
			for c := 0; c < channels; c++ {
				frame[j*channels+c] = v
			}
		}
	}
	return nil
}

// Process is a non-interleaved driver callback. A misaligned buffer is a fatal
// configuration error and panics.
func (s *Sink) Process(out [][]float32) {
	if err := s.Render(out); err != nil {
		panic(fmt.Errorf("render %d frames: %w", len(out[0]), err))
	}
}

// ProcessInterleaved returns an interleaved driver callback for the given
// channel count. A misaligned buffer panics.
func (s *Sink) ProcessInterleaved(channels int) func([]float32) {
	return func(out []float32) {
		if err := s.RenderInterleaved(out, channels); err != nil {
			panic(fmt.Errorf("render %d samples on %d channels: %w", len(out), channels, err))
		}
	}
}

var silence = make([]float32, ChunkSize)

// next renders one chunk: drain, render, advance. An engine failure yields silence.
func (s *Sink) next() []float32 {
	if n := s.commands.Drain(s.apply); n > 0 {
		s.applied.Add(uint64(n))
	}
	buf, err := s.engine.RenderChunk(s.clock.now)
	if err != nil || len(buf) < ChunkSize {
		buf = silence
		s.silent.Add(1)
	}
	s.clock.advance()
	s.chunks.Add(1)
	s.timestamp.Store(s.clock.now)
	return buf[:ChunkSize]
}
