package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/youpy/go-wav"
)

// ErrWAVChannels means a WAV render was asked for other than one or two channels.
var ErrWAVChannels = errors.New("wav: only 1 or 2 channels are supported")

// renderBlock is how many chunks WriteWAV renders between writes.
const renderBlock = 16

// WriteWAV drives s for the given number of frames, as a device would, and
// writes the result as 16 bit PCM with one or two channels.
func WriteWAV(w io.Writer, s *Sink, frames, channels int, sampleRate float64) error {
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%w: got %d", ErrWAVChannels, channels)
	}
	if frames%ChunkSize != 0 {
		return fmt.Errorf("wav: %d frames: %w", frames, ErrChunkAlignment)
	}
	ww := wav.NewWriter(w, uint32(frames), uint16(channels), uint32(sampleRate), 16)

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, renderBlock*ChunkSize)
	}
	samples := make([]wav.Sample, renderBlock*ChunkSize)
	const scale = 1<<15 - 1

	for done := 0; done < frames; {
		n := renderBlock * ChunkSize
		if left := frames - done; left < n {
			n = left
		}
		block := make([][]float32, channels)
		for c := range out {
			block[c] = out[c][:n]
		}
		if err := s.Render(block); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			var sample wav.Sample
			for c := 0; c < channels; c++ {
				v := math.Max(-1, math.Min(1, float64(block[c][i])))
				sample.Values[c] = int(math.Round(v * scale))
			}
			samples[i] = sample
		}
		if err := ww.WriteSamples(samples[:n]); err != nil {
			return fmt.Errorf("wav: %w", err)
		}
		done += n
	}
	return nil
}
