package patch

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input string
		want  Command
	}
	tests := []test{
		{
			input: "set 3 0 9.5",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Int(3), Int(0), Float(9.5)},
			},
		},
		{
			input: "node 1 saw ctrl 5:0",
			want: Command{
				Name: Identifier("node"),
				Args: []Node{Int(1), Identifier("saw"), Identifier("ctrl"), Wire{From: 5, Slot: 0}},
			},
		},
		{
			input: "node 0 biquad in 1:0 ctrl 3:0 4:0",
			want: Command{
				Name: Identifier("node"),
				Args: []Node{
					Int(0), Identifier("biquad"),
					Identifier("in"), Wire{From: 1},
					Identifier("ctrl"), Wire{From: 3}, Wire{From: 4},
				},
			},
		},
		{
			input: `sample 6 "a/file.wav"`,
			want: Command{
				Name: Identifier("sample"),
				Args: []Node{Int(6), String("a/file.wav")},
			},
		},
		{
			input: `connect ""`,
			want: Command{
				Name: Identifier("connect"),
				Args: []Node{String("")},
			},
		},
		{
			input: "   # nothing here",
			want:  Command{},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		got, err := Parse(test.input)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("\nwant: %+v\ngot:  %+v", test.want, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"1 set",
		`"set"`,
		"node 1:",
		"node 1:x",
		"node 1:2.5",
		"set :",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
