package audio

import (
	"errors"
	"fmt"
)

// MaxNodes bounds node ids to [0, MaxNodes).
const MaxNodes = 256

var (
	ErrNodeID    = errors.New("node id out of range")
	ErrNoNode    = errors.New("no such node")
	ErrNoOutput  = errors.New("graph has no output node")
	ErrNoAudio   = errors.New("output node produces no audio")
	ErrNoParams  = errors.New("node has no parameters")
	ErrNoNotes   = errors.New("node does not handle notes")
	ErrBadSlot   = errors.New("parameter slot out of range")
	ErrBadModule = errors.New("node has no module")
)

// Wire connects output Slot of node From to a module input.
type Wire struct {
	From int
	Slot int
}

func (w Wire) String() string {
	return fmt.Sprintf("%d:%d", w.From, w.Slot)
}

// Node places a module in the graph under ID. Inputs are wired to audio buffer
// inputs, Controls to control inputs, both in order. Node 0 is the graph output.
type Node struct {
	ID        int
	Module    Module
	Inputs    []Wire
	Controls  []Wire
	Timestamp uint64

	in  Ports
	out Ports
	gen uint64
}

// NewNode builds a node and allocates its ports, so inserting it on the render
// thread needs no allocation.
func NewNode(id int, m Module, inputs, controls []Wire) *Node {
	n := &Node{
		ID:       id,
		Module:   m,
		Inputs:   inputs,
		Controls: controls,
		in: Ports{
			Buffers:  make([][]float32, len(inputs)),
			Controls: make([]float32, len(controls)),
		},
	}
	if m != nil {
		nbuf, nctrl := m.Outputs()
		n.out.Buffers = make([][]float32, nbuf)
		for i := range n.out.Buffers {
			n.out.Buffers[i] = make([]float32, ChunkSize)
		}
		n.out.Controls = make([]float32, nctrl)
	}
	return n
}

// Output returns the node's most recently rendered ports.
func (n *Node) Output() *Ports { return &n.out }

// Graph owns the nodes and renders them. It is only touched by the render thread
// once streaming has started.
type Graph struct {
	nodes [MaxNodes]*Node
	zero  []float32
	gen   uint64
}

func newGraph() *Graph {
	return &Graph{zero: make([]float32, ChunkSize)}
}

// insert stores n, returning whatever node previously had its id.
func (g *Graph) insert(n *Node) (*Node, error) {
	if n.ID < 0 || n.ID >= MaxNodes {
		return nil, ErrNodeID
	}
	if n.Module == nil {
		return nil, ErrBadModule
	}
	old := g.nodes[n.ID]
	g.nodes[n.ID] = n
	return old, nil
}

func (g *Graph) node(id int) *Node {
	if id < 0 || id >= MaxNodes {
		return nil
	}
	return g.nodes[id]
}

// render evaluates every node reachable from node 0 exactly once and returns the
// first audio buffer of node 0.
func (g *Graph) render() ([]float32, error) {
	out := g.nodes[0]
	if out == nil {
		return nil, ErrNoOutput
	}
	g.gen++
	g.visit(out)
	if len(out.out.Buffers) == 0 {
		return nil, ErrNoAudio
	}
	return out.out.Buffers[0], nil
}

// visit renders n after its inputs. A node already marked for this generation is
// either done or on the current path; in the latter case (a cycle) its previous
// chunk is read.
func (g *Graph) visit(n *Node) {
	n.gen = g.gen
	for i, w := range n.Inputs {
		src := g.node(w.From)
		if src == nil || w.Slot < 0 || w.Slot >= len(src.out.Buffers) {
			n.in.Buffers[i] = g.zero
			continue
		}
		if src.gen != g.gen {
			g.visit(src)
		}
		n.in.Buffers[i] = src.out.Buffers[w.Slot]
	}
	for i, w := range n.Controls {
		src := g.node(w.From)
		if src == nil || w.Slot < 0 || w.Slot >= len(src.out.Controls) {
			n.in.Controls[i] = 0
			continue
		}
		if src.gen != g.gen {
			g.visit(src)
		}
		n.in.Controls[i] = src.out.Controls[w.Slot]
	}
	n.Module.Process(&n.in, &n.out)
}
