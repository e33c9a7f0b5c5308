package midi

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	type test struct {
		input  []byte
		want   []Message
		offset int
	}
	tests := []test{
		{
			input:  []byte{0xB0, 1, 64},
			want:   []Message{ControlChange{Controller: 1, Value: 64}},
			offset: 3,
		},
		{
			input:  []byte{0x90, 60, 100, 0x90, 60, 0, 0x80, 62, 90},
			offset: 9,
			want: []Message{
				NoteEvent{Note: 60, Velocity: 100, On: true},
				NoteEvent{Note: 60, Velocity: 0, On: false},
				NoteEvent{Note: 62, Velocity: 90, On: false},
			},
		},
		{
			// decoding stops at the first unknown status byte
			input:  []byte{0xB0, 2, 10, 0xF8, 0xB0, 3, 5},
			want:   []Message{ControlChange{Controller: 2, Value: 10}},
			offset: 3,
		},
		{
			// channel 1 is not recognized
			input:  []byte{0x91, 60, 100},
			offset: 0,
		},
		{
			input:  []byte{0xFE},
			offset: 0,
		},
		{
			input: nil,
		},
	}
	for _, test := range tests {
		sc := NewScanner(test.input)
		var got []Message
		for sc.Scan() {
			got = append(got, sc.Message())
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("%X: wrong messages:\nwant: %v\ngot:  %v", test.input, test.want, got)
		}
		if sc.Offset() != test.offset {
			t.Errorf("%X: want offset %v, got %v", test.input, test.offset, sc.Offset())
		}
		if sc.Err() != nil {
			t.Errorf("%X: unexpected error: %v", test.input, sc.Err())
		}
	}
}

func TestDecodeNoteOnAllVelocities(t *testing.T) {
	for v := 0; v < 128; v++ {
		for _, status := range []byte{0x90, 0x80} {
			msgs, err := Decode([]byte{status, 64, byte(v)})
			if err != nil || len(msgs) != 1 {
				t.Fatalf("0x%X vel %d: got %v, %v", status, v, msgs, err)
			}
			note := msgs[0].(NoteEvent)
			if want := status == 0x90 && v > 0; note.On != want {
				t.Errorf("0x%X vel %d: want on=%v, got %v", status, v, want, note.On)
			}
		}
	}
}

func TestDecodeShortMessage(t *testing.T) {
	msgs, err := Decode([]byte{0xB0, 1, 2, 0x90, 60})
	if !errors.Is(err, ErrShortMessage) {
		t.Errorf("expected ErrShortMessage, got %v", err)
	}
	if want := []Message{ControlChange{Controller: 1, Value: 2}}; !reflect.DeepEqual(want, msgs) {
		t.Errorf("want %v, got %v", want, msgs)
	}
}
