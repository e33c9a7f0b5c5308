package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrdg/synthbridge/audio"
	"github.com/mrdg/synthbridge/midi"
	"github.com/mrdg/synthbridge/midi/transport"
	"github.com/mrdg/synthbridge/patch"
)

var errQuit = errors.New("quit")

type command struct {
	name  string
	help  string
	run   func(*session, []patch.Node) (string, error)
	arity int // -n means len(args) must be >= n
}

var commands []command

func init() {
	commands = []command{
		{"set", "set NODE SLOT VALUE", setCommand, 3},
		{"cc", "cc CONTROLLER VALUE", ccCommand, 2},
		{"note", "note PITCH VELOCITY", noteCommand, 2},
		{"off", "off PITCH", offCommand, 1},
		{"node", "node ID KIND [ARG...] [in NODE:SLOT...] [ctrl NODE:SLOT...]", nodeCommand, -2},
		{"sample", `sample ID "file.wav"`, sampleCommand, 2},
		{"sources", "sources", sourcesCommand, 0},
		{"connect", `connect INDEX|"name"`, connectCommand, 1},
		{"disconnect", "disconnect", disconnectCommand, 0},
		{"status", "status", statusCommand, 0},
		{"help", "help", helpCommand, 0},
		{"quit", "quit", quitCommand, 0},
	}
}

func (s *session) eval(input string) (string, error) {
	command, err := patch.Parse(input)
	if err != nil {
		return "", err
	}
	return s.evalCommand(command)
}

func (s *session) evalCommand(command patch.Command) (string, error) {
	if command.Name == "" {
		return "", nil
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(s, command.Args)
		if err != nil && err != errQuit {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, err
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func setCommand(s *session, args []patch.Node) (string, error) {
	var node, slot int
	var value float64
	if err := readArgs(args, &node, &slot, &value); err != nil {
		return "", err
	}
	if node < 0 || node >= audio.MaxNodes {
		return "", audio.ErrNodeID
	}
	s.send(audio.SetParam{Node: node, Slot: slot, Value: float32(value), Timestamp: s.clock.Now()})
	return "", nil
}

func readMIDIValue(v int, what string) (uint8, error) {
	if v < 0 || v > 127 {
		return 0, fmt.Errorf("%s %d out of range 0-127", what, v)
	}
	return uint8(v), nil
}

// translate runs a console-made message through the same translator as MIDI
// input, without the per-stream trace.
func (s *session) translate(msg midi.Message) (string, error) {
	cmd, ok := s.translator.Translate(msg, s.clock.Now())
	if !ok {
		return "", fmt.Errorf("no handler for %v", msg)
	}
	s.send(cmd)
	return "", nil
}

func ccCommand(s *session, args []patch.Node) (string, error) {
	var controller, value int
	if err := readArgs(args, &controller, &value); err != nil {
		return "", err
	}
	c, err := readMIDIValue(controller, "controller")
	if err != nil {
		return "", err
	}
	v, err := readMIDIValue(value, "value")
	if err != nil {
		return "", err
	}
	return s.translate(midi.ControlChange{Controller: c, Value: v})
}

func noteCommand(s *session, args []patch.Node) (string, error) {
	var pitch, velocity int
	if err := readArgs(args, &pitch, &velocity); err != nil {
		return "", err
	}
	p, err := readMIDIValue(pitch, "pitch")
	if err != nil {
		return "", err
	}
	v, err := readMIDIValue(velocity, "velocity")
	if err != nil {
		return "", err
	}
	return s.translate(midi.NoteEvent{Note: p, Velocity: v, On: v > 0})
}

func offCommand(s *session, args []patch.Node) (string, error) {
	var pitch int
	if err := readArgs(args, &pitch); err != nil {
		return "", err
	}
	p, err := readMIDIValue(pitch, "pitch")
	if err != nil {
		return "", err
	}
	return s.translate(midi.NoteEvent{Note: p})
}

func nodeCommand(s *session, args []patch.Node) (string, error) {
	def, err := patch.ParseNode(args)
	if err != nil {
		return "", err
	}
	n, err := def.Build(s.cfg.Audio.SampleRate)
	if err != nil {
		return "", err
	}
	n.Timestamp = s.clock.Now()
	s.send(n)
	return def.String(), nil
}

func sampleCommand(s *session, args []patch.Node) (string, error) {
	var id int
	var file string
	if err := readArgs(args, &id, &file); err != nil {
		return "", err
	}
	if id < 0 || id >= audio.MaxNodes {
		return "", audio.ErrNodeID
	}
	snd, err := audio.LoadSound(file)
	if err != nil {
		return "", err
	}
	n := audio.NewNode(id, audio.NewSampler(snd), nil, nil)
	n.Timestamp = s.clock.Now()
	s.send(n)
	return fmt.Sprintf("node %d: %s, %d samples", id, snd.File(), snd.Len()), nil
}

func sourcesCommand(s *session, _ []patch.Node) (string, error) {
	if s.transport == nil {
		return "", transport.ErrUnsupported
	}
	sources, err := s.transport.Sources()
	if err != nil {
		return "", err
	}
	if len(sources) == 0 {
		return "", transport.ErrNoSources
	}
	return renderSources(sources, s.source), nil
}

func connectCommand(s *session, args []patch.Node) (string, error) {
	if s.transport == nil {
		return "", transport.ErrUnsupported
	}
	var index int
	switch a := args[0].(type) {
	case patch.Int:
		index = int(a)
	case patch.String:
		i, err := transport.Find(s.transport, string(a))
		if err != nil {
			return "", err
		}
		index = i
	default:
		return "", fmt.Errorf("argument error: expected a source index or name")
	}
	if err := s.connect(index); err != nil {
		return "", err
	}
	return "connected to " + s.source, nil
}

func disconnectCommand(s *session, _ []patch.Node) (string, error) {
	return "", s.disconnect()
}

func statusCommand(s *session, _ []patch.Node) (string, error) {
	return renderStatus(s.status()), nil
}

func helpCommand(_ *session, _ []patch.Node) (string, error) {
	var b strings.Builder
	for _, cmd := range commands {
		b.WriteString(cmd.help + "\n")
	}
	b.WriteString("\nmodule kinds:\n")
	for _, kind := range audio.ModuleKinds() {
		b.WriteString("  " + kind + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func quitCommand(_ *session, _ []patch.Node) (string, error) {
	return "", errQuit
}

func readArgs(args []patch.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case patch.String:
				*p = string(s)
			case patch.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch v := arg.(type) {
			case patch.Float:
				*p = float64(v)
			case patch.Int:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			v, ok := arg.(patch.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(v)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
