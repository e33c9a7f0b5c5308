// Package midi turns raw MIDI packets into engine commands.
package midi

import (
	"errors"
	"fmt"
)

// Status bytes understood by the decoder. Only channel 0 is recognized.
const (
	StatusNoteOff       byte = 0x80
	StatusNoteOn        byte = 0x90
	StatusControlChange byte = 0xB0
)

const messageLen = 3

// ErrShortMessage means a packet ended in the middle of a recognized message.
var ErrShortMessage = errors.New("midi: short message")

// Message is a decoded MIDI message: ControlChange or NoteEvent.
type Message interface {
	isMessage()
}

// ControlChange is a control-change message on channel 0.
type ControlChange struct {
	Controller uint8
	Value      uint8
}

// NoteEvent is a note-on or note-off on channel 0. On is false for note-off and
// for note-on with velocity 0.
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	On       bool
}

func (ControlChange) isMessage() {}
func (NoteEvent) isMessage()     {}

func (c ControlChange) String() string {
	return fmt.Sprintf("cc %d=%d", c.Controller, c.Value)
}

func (n NoteEvent) String() string {
	state := "off"
	if n.On {
		state = "on"
	}
	return fmt.Sprintf("note %d %s vel=%d", n.Note, state, n.Velocity)
}

// Scanner walks one packet left to right, one message per call to Scan. It
// stops at the first byte that does not start a recognized message and does not
// try to resynchronize.
//
//	sc := midi.NewScanner(packet)
//	for sc.Scan() {
//		handle(sc.Message())
//	}
type Scanner struct {
	data []byte
	pos  int
	msg  Message
	err  error
	done bool
}

func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Scan decodes the next message and reports whether there was one.
func (s *Scanner) Scan() bool {
	if s.done || s.pos >= len(s.data) {
		s.done = true
		return false
	}
	status := s.data[s.pos]
	switch status {
	case StatusControlChange, StatusNoteOn, StatusNoteOff:
	default:
		s.done = true
		return false
	}
	if len(s.data)-s.pos < messageLen {
		s.err = fmt.Errorf("%w: status 0x%X at offset %d needs %d bytes, have %d",
			ErrShortMessage, status, s.pos, messageLen, len(s.data)-s.pos)
		s.done = true
		return false
	}
	a, b := s.data[s.pos+1], s.data[s.pos+2]
	if status == StatusControlChange {
		s.msg = ControlChange{Controller: a, Value: b}
	} else {
		s.msg = NoteEvent{Note: a, Velocity: b, On: status == StatusNoteOn && b > 0}
	}
	s.pos += messageLen
	return true
}

// Message returns the message decoded by the last successful Scan.
func (s *Scanner) Message() Message { return s.msg }

// Offset returns the offset of the first byte not yet consumed.
func (s *Scanner) Offset() int { return s.pos }

// Err returns ErrShortMessage (wrapped) if decoding stopped on a truncated
// message. Stopping on an unrecognized status is not an error.
func (s *Scanner) Err() error { return s.err }

// Decode returns all messages in a packet.
func Decode(data []byte) ([]Message, error) {
	var msgs []Message
	sc := NewScanner(data)
	for sc.Scan() {
		msgs = append(msgs, sc.Message())
	}
	return msgs, sc.Err()
}
