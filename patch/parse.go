// Package patch parses console commands and builds engine nodes from them.
package patch

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (Wire) isNode()       {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string

// Wire is a NODE:SLOT reference, such as the source of a node input.
type Wire struct {
	From int
	Slot int
}

// Parse parses one command line. A line that is empty or holds only a comment
// yields a Command with an empty name.
func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != typeEOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	switch token.typ {
	case typeEOF:
		return cmd, nil
	case typeIdentifier:
	default:
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		var arg Node
		switch token.typ {
		case typeIdentifier:
			arg = Identifier(token.text)
		case typeString:
			arg = String(token.text[1 : len(token.text)-1])
		case typeFloat:
			f, err := strconv.ParseFloat(token.text, 64)
			if err != nil {
				return cmd, err
			}
			arg = Float(f)
		case typeInt:
			n, err := strconv.Atoi(token.text)
			if err != nil {
				return cmd, err
			}
			if p.peek().typ != typeColon {
				arg = Int(n)
				break
			}
			wire, err := p.wire(n)
			if err != nil {
				return cmd, err
			}
			arg = wire
		default:
			return cmd, unexpected(token)
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

// wire parses the ":SLOT" that follows the node number from.
func (p *parser) wire(from int) (Wire, error) {
	p.next()
	t := p.next()
	if t.typ != typeInt {
		return Wire{}, unexpected(t)
	}
	slot, err := strconv.Atoi(t.text)
	if err != nil {
		return Wire{}, err
	}
	return Wire{From: from, Slot: slot}, nil
}

func unexpected(t token) error {
	if t.typ == typeEOF {
		return fmt.Errorf("unexpected end of input at position %d", t.pos)
	}
	return fmt.Errorf("unexpected %v %q at position %d", t.typ, t.text, t.pos)
}
