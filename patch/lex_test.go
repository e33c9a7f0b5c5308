package patch

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "set 1 2",
			expect: []token{
				{typ: typeIdentifier, text: "set"},
				{typ: typeInt, text: "1"},
				{typ: typeInt, text: "2"},
				{typ: typeEOF},
			},
		},
		{
			input: "node 0 biquad in 1:0   ctrl 3:0",
			expect: []token{
				{typ: typeIdentifier, text: "node"},
				{typ: typeInt, text: "0"},
				{typ: typeIdentifier, text: "biquad"},
				{typ: typeIdentifier, text: "in"},
				{typ: typeInt, text: "1"},
				{typ: typeColon, text: ":"},
				{typ: typeInt, text: "0"},
				{typ: typeIdentifier, text: "ctrl"},
				{typ: typeInt, text: "3"},
				{typ: typeColon, text: ":"},
				{typ: typeInt, text: "0"},
				{typ: typeEOF},
			},
		},
		{
			input: "1.0",
			expect: []token{
				{typ: typeFloat, text: "1.0"},
				{typ: typeEOF},
			},
		},
		{
			input: "-1.",
			expect: []token{
				{typ: typeFloat, text: "-1."},
				{typ: typeEOF},
			},
		},
		{
			input: "-.1",
			expect: []token{
				{typ: typeFloat, text: "-.1"},
				{typ: typeEOF},
			},
		},
		{
			input: "2e-3",
			expect: []token{
				{typ: typeFloat, text: "2e-3"},
				{typ: typeEOF},
			},
		},
		{
			input: `sample 6 "kick drum.wav"	1`,
			expect: []token{
				{typ: typeIdentifier, text: "sample"},
				{typ: typeInt, text: "6"},
				{typ: typeString, text: `"kick drum.wav"`},
				{typ: typeInt, text: "1"},
				{typ: typeEOF},
			},
		},
		{
			input: "status # show the render loop",
			expect: []token{
				{typ: typeIdentifier, text: "status"},
				{typ: typeEOF},
			},
		},
		{
			input:  "",
			expect: []token{{typ: typeEOF}},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("unexpected lex error: %v", err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Fatalf("token mismatch: \nwant: %+v, \ngot:  %+v", test.expect, tokens)
		}
		for i, got := range tokens {
			want := test.expect[i]
			if want.typ != got.typ {
				t.Errorf("wrong type: want %v, got %v", want, got)
			}
			if want.text != got.text {
				t.Errorf("wrong text: want %v, got %v", want, got)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"a -",
		"a .-",
		"a 1x",
		"a b,c",
		`a "open`,
		"a 1e",
	} {
		_, err := lex(input)
		if err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
