package patch

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mrdg/synthbridge/audio"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		input string
		want  NodeDef
	}{
		{
			input: "node 1 saw ctrl 5:0",
			want: NodeDef{
				ID:       1,
				Kind:     "saw",
				Controls: []audio.Wire{{From: 5, Slot: 0}},
			},
		},
		{
			input: "node 0 biquad in 1:0 ctrl 3:0 4:0",
			want: NodeDef{
				ID:       0,
				Kind:     "biquad",
				Inputs:   []audio.Wire{{From: 1}},
				Controls: []audio.Wire{{From: 3}, {From: 4}},
			},
		},
		{
			input: "node 7 adsr 0.01 0.2 1 0.5",
			want: NodeDef{
				ID:   7,
				Kind: "adsr",
				Args: []float64{0.01, 0.2, 1, 0.5},
			},
		},
	}
	for _, test := range tests {
		cmd, err := Parse(test.input)
		if err != nil {
			t.Fatal(err)
		}
		got, err := ParseNode(cmd.Args)
		if err != nil {
			t.Errorf("%q: %v", test.input, err)
			continue
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("\nwant: %+v\ngot:  %+v", test.want, got)
		}
		if got.String() != test.input {
			t.Errorf("want %q, got %q", test.input, got.String())
		}
	}
}

func TestParseNodeErrors(t *testing.T) {
	for _, input := range []string{
		"node",
		"node 1",
		"node saw 1",
		"node 1 2",
		"node 1 saw 2:0",
		"node 1 saw in 2",
		"node 1 saw out 2:0",
		`node 1 saw "x"`,
	} {
		cmd, err := Parse(input)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ParseNode(cmd.Args); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func TestBuild(t *testing.T) {
	def := NodeDef{ID: 2, Kind: "gain", Args: []float64{0.5}, Inputs: []audio.Wire{{From: 1}}}
	n, err := def.Build(44100)
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != 2 || !reflect.DeepEqual(def.Inputs, n.Inputs) {
		t.Errorf("wrong node: %+v", n)
	}
	if _, ok := n.Module.(*audio.Gain); !ok {
		t.Errorf("want a gain module, got %T", n.Module)
	}

	if _, err := (NodeDef{ID: audio.MaxNodes, Kind: "sum"}).Build(44100); !errors.Is(err, audio.ErrNodeID) {
		t.Errorf("expected ErrNodeID, got %v", err)
	}
	if _, err := (NodeDef{ID: 1, Kind: "sum", Inputs: []audio.Wire{{From: -1}}}).Build(44100); !errors.Is(err, audio.ErrNodeID) {
		t.Errorf("expected ErrNodeID, got %v", err)
	}
	if _, err := (NodeDef{ID: 1, Kind: "theremin"}).Build(44100); err == nil {
		t.Errorf("expected an error for an unknown kind")
	}
}

func TestReadScript(t *testing.T) {
	script := `# default patch
node 2 gain 0.5 in 1:0

set 2 0 0.25
`
	commands, err := ReadScript(strings.NewReader(script))
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 2, len(commands); want != got {
		t.Fatalf("want %d commands, got %d", want, got)
	}
	if want, got := Identifier("set"), commands[1].Name; want != got {
		t.Errorf("want %v, got %v", want, got)
	}

	_, err = ReadScript(strings.NewReader("status\nset 1 :\n"))
	if err == nil || !strings.HasPrefix(err.Error(), "line 2:") {
		t.Errorf("expected error on line 2, got %v", err)
	}
}
