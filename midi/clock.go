package midi

import "time"

// Clock stamps packet arrival in nanoseconds since it was created, from the
// monotonic clock.
type Clock struct {
	epoch time.Time
}

func NewClock() *Clock {
	return &Clock{epoch: time.Now()}
}

func (c *Clock) Now() uint64 {
	return uint64(time.Since(c.epoch))
}
