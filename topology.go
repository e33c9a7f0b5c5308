package main

import (
	"math"

	"github.com/mrdg/synthbridge/audio"
)

// Node ids of the default patch. The controller table and note targets in the
// default configuration refer to these.
const (
	outputNode    = 0
	oscNode       = 1
	cutoffNode    = 3
	resonanceNode = 4
	pitchNode     = 5
)

func log2(hz float64) float32 {
	return float32(math.Log2(hz))
}

// defaultTopology is a saw oscillator following the last note played, through
// a resonant lowpass whose cutoff and resonance glide to their controllers.
func defaultTopology(sampleRate float64) []*audio.Node {
	return []*audio.Node{
		audio.NewNode(pitchNode, audio.NewNotePitch(), nil, nil),
		audio.NewNode(oscNode, audio.NewOscillator(audio.Saw, sampleRate, log2(440)),
			nil, []audio.Wire{{From: pitchNode}}),
		audio.NewNode(cutoffNode, audio.NewSmoothCtrl(log2(880)), nil, nil),
		audio.NewNode(resonanceNode, audio.NewSmoothCtrl(0.5), nil, nil),
		audio.NewNode(outputNode, audio.NewBiquad(sampleRate),
			[]audio.Wire{{From: oscNode}},
			[]audio.Wire{{From: cutoffNode}, {From: resonanceNode}}),
	}
}
