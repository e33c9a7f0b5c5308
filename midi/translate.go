package midi

import (
	"github.com/mrdg/synthbridge/audio"
	"go.uber.org/zap"
)

// Translator turns decoded messages into engine commands.
type Translator struct {
	mapping Mapping
	notes   []int
	log     *zap.Logger
}

// NewTranslator routes control changes through mapping and sends notes to the
// nodes in noteTargets, in that order.
func NewTranslator(mapping Mapping, noteTargets []int, log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Translator{
		mapping: mapping,
		notes:   append([]int(nil), noteTargets...),
		log:     log,
	}
}

// Translate converts msg, received at ts, into at most one command. Unmapped
// controllers are logged and yield nothing.
func (t *Translator) Translate(msg Message, ts uint64) (audio.Command, bool) {
	switch m := msg.(type) {
	case ControlChange:
		target, ok := t.mapping[m.Controller]
		if !ok {
			t.log.Info("no handler for controller", zap.Uint8("controller", m.Controller))
			return nil, false
		}
		return audio.SetParam{
			Node:      target.Node,
			Slot:      target.Slot,
			Value:     target.Scale(m.Value),
			Timestamp: ts,
		}, true
	case NoteEvent:
		t.log.Debug("note",
			zap.Uint8("note", m.Note),
			zap.Uint8("velocity", m.Velocity),
			zap.Bool("on", m.On))
		return audio.Note{
			Targets:   append([]int(nil), t.notes...),
			Pitch:     float32(m.Note),
			Velocity:  float32(m.Velocity),
			On:        m.On,
			Timestamp: ts,
		}, true
	}
	return nil, false
}
