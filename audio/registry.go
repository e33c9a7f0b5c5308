package audio

import (
	"fmt"
	"math"
	"sort"
)

type moduleDef struct {
	args int // max number of numeric arguments
	help string
	make func(sampleRate float64, args []float64) Module
}

// arg returns args[i] or def when it was not given.
func arg(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}

var modules = map[string]moduleDef{
	"const": {1, "const [value]", func(_ float64, a []float64) Module {
		return NewConstCtrl(float32(arg(a, 0, 0)))
	}},
	"smooth": {1, "smooth [value]", func(_ float64, a []float64) Module {
		return NewSmoothCtrl(float32(arg(a, 0, 0)))
	}},
	"pitch": {0, "pitch", func(_ float64, _ []float64) Module {
		return NewNotePitch()
	}},
	"adsr": {4, "adsr [attack decay sustain release]", func(sr float64, a []float64) Module {
		return NewAdsr(sr, arg(a, 0, 0.01), arg(a, 1, 0.2), arg(a, 2, 0.7), arg(a, 3, 0.3))
	}},
	"saw": {1, "saw [log2 hz]", func(sr float64, a []float64) Module {
		return NewOscillator(Saw, sr, float32(arg(a, 0, math.Log2(440))))
	}},
	"sine": {1, "sine [log2 hz]", func(sr float64, a []float64) Module {
		return NewOscillator(Sine, sr, float32(arg(a, 0, math.Log2(440))))
	}},
	"square": {1, "square [log2 hz]", func(sr float64, a []float64) Module {
		return NewOscillator(Square, sr, float32(arg(a, 0, math.Log2(440))))
	}},
	"biquad": {0, "biquad", func(sr float64, _ []float64) Module {
		return NewBiquad(sr)
	}},
	"sum": {0, "sum", func(_ float64, _ []float64) Module {
		return Sum{}
	}},
	"gain": {1, "gain [level]", func(_ float64, a []float64) Module {
		return NewGain(float32(arg(a, 0, 1)))
	}},
	"dc": {1, "dc [value]", func(_ float64, a []float64) Module {
		return NewDc(float32(arg(a, 0, 0)))
	}},
}

// NewModule builds a module by kind name. See ModuleKinds for the list.
func NewModule(kind string, sampleRate float64, args ...float64) (Module, error) {
	def, ok := modules[kind]
	if !ok {
		return nil, fmt.Errorf("unknown module kind: %s", kind)
	}
	if len(args) > def.args {
		return nil, fmt.Errorf("%s: too many arguments: want at most %d, got %d", kind, def.args, len(args))
	}
	return def.make(sampleRate, args), nil
}

// ModuleKinds returns the usage line of every module kind, sorted by name.
func ModuleKinds() []string {
	var kinds []string
	for _, def := range modules {
		kinds = append(kinds, def.help)
	}
	sort.Strings(kinds)
	return kinds
}
