package midi

import (
	"fmt"
	"math"
)

// Target is where a controller's value goes and the range it is scaled into.
type Target struct {
	Node int
	Slot int
	Lo   float32
	Hi   float32
}

// Scale maps a 7 bit controller value linearly onto [Lo, Hi]. The ends of the
// range are reproduced exactly.
func (t Target) Scale(value uint8) float32 {
	switch {
	case value == 0:
		return t.Lo
	case value >= 127:
		return t.Hi
	}
	return t.Lo + float32(value)/127*(t.Hi-t.Lo)
}

func (t Target) String() string {
	return fmt.Sprintf("node %d slot %d [%g, %g]", t.Node, t.Slot, t.Lo, t.Hi)
}

// Mapping routes controller numbers to targets.
type Mapping map[uint8]Target

var log2Nyquist = float32(math.Log2(22_000))

// DefaultMapping is the controller layout of the default patch: CC1 filter
// cutoff, CC2 resonance, CC3 pitch, each as log2 Hz or a plain level.
func DefaultMapping() Mapping {
	return Mapping{
		1: {Node: 3, Slot: 0, Lo: 0, Hi: log2Nyquist},
		2: {Node: 4, Slot: 0, Lo: 0, Hi: 0.995},
		3: {Node: 5, Slot: 0, Lo: 0, Hi: log2Nyquist},
	}
}
