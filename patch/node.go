package patch

import (
	"fmt"
	"strings"

	"github.com/mrdg/synthbridge/audio"
)

// NodeDef describes a node as written on the console:
//
//	node ID KIND [ARG...] [in NODE:SLOT...] [ctrl NODE:SLOT...]
type NodeDef struct {
	ID       int
	Kind     string
	Args     []float64
	Inputs   []audio.Wire
	Controls []audio.Wire
}

func (s NodeDef) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "node %d %s", s.ID, s.Kind)
	for _, a := range s.Args {
		fmt.Fprintf(&b, " %g", a)
	}
	writeWires(&b, "in", s.Inputs)
	writeWires(&b, "ctrl", s.Controls)
	return b.String()
}

func writeWires(b *strings.Builder, section string, wires []audio.Wire) {
	if len(wires) == 0 {
		return
	}
	b.WriteString(" " + section)
	for _, w := range wires {
		b.WriteString(" " + w.String())
	}
}

// ParseNode reads the arguments of a node command.
func ParseNode(args []Node) (NodeDef, error) {
	var def NodeDef
	if len(args) < 2 {
		return def, fmt.Errorf("node: want at least an id and a kind, got %d arguments", len(args))
	}
	id, ok := args[0].(Int)
	if !ok {
		return def, fmt.Errorf("node: id must be an integer, got %v", args[0])
	}
	kind, ok := args[1].(Identifier)
	if !ok {
		return def, fmt.Errorf("node: kind must be a name, got %v", args[1])
	}
	def.ID, def.Kind = int(id), string(kind)

	var section *[]audio.Wire
	for _, arg := range args[2:] {
		switch a := arg.(type) {
		case Int:
			if section != nil {
				return def, fmt.Errorf("node: want NODE:SLOT after a section name, got %v", a)
			}
			def.Args = append(def.Args, float64(a))
		case Float:
			if section != nil {
				return def, fmt.Errorf("node: want NODE:SLOT after a section name, got %v", a)
			}
			def.Args = append(def.Args, float64(a))
		case Identifier:
			switch a {
			case "in":
				section = &def.Inputs
			case "ctrl":
				section = &def.Controls
			default:
				return def, fmt.Errorf("node: unknown section %q, want in or ctrl", a)
			}
		case Wire:
			if section == nil {
				return def, fmt.Errorf("node: wire %d:%d outside of an in or ctrl section", a.From, a.Slot)
			}
			*section = append(*section, audio.Wire{From: a.From, Slot: a.Slot})
		default:
			return def, fmt.Errorf("node: unexpected argument %v", arg)
		}
	}
	return def, nil
}

// Build creates the module and the node with preallocated ports. Wires to
// nodes that do not exist yet are allowed and read as silence.
func (s NodeDef) Build(sampleRate float64) (*audio.Node, error) {
	if s.ID < 0 || s.ID >= audio.MaxNodes {
		return nil, fmt.Errorf("node %d: %w", s.ID, audio.ErrNodeID)
	}
	for _, w := range append(append([]audio.Wire(nil), s.Inputs...), s.Controls...) {
		if w.From < 0 || w.From >= audio.MaxNodes {
			return nil, fmt.Errorf("node %d: wire %v: %w", s.ID, w, audio.ErrNodeID)
		}
	}
	m, err := audio.NewModule(s.Kind, sampleRate, s.Args...)
	if err != nil {
		return nil, err
	}
	return audio.NewNode(s.ID, m, s.Inputs, s.Controls), nil
}
