package audio

// ChunkSize is the number of frames the engine renders per step. Hardware buffers
// must be an exact multiple of it.
const ChunkSize = 64

// DefaultSampleRate is used when no rate has been negotiated with a device.
const DefaultSampleRate = 44100

// ChunkDuration returns the length of one chunk in nanoseconds, truncated.
// At 44.1kHz this is 1451247ns.
func ChunkDuration(sampleRate float64) uint64 {
	return uint64(ChunkSize * 1e9 / sampleRate)
}

// clock is the render timestamp. It only ever moves forward by a fixed step per
// chunk and never reads the wall clock.
type clock struct {
	now  uint64
	step uint64
}

func newClock(sampleRate float64) clock {
	return clock{step: ChunkDuration(sampleRate)}
}

func (c *clock) advance() {
	c.now += c.step
}
