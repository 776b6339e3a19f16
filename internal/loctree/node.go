package loctree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/etreport/internal/locvec"
	"github.com/specialistvlad/etreport/internal/trace"
)

// Aggregate is the synthesized time of a node, in seconds.
type Aggregate struct {
	Total float64
	// PerWorker is nil unless the tree was built in PerWorker mode.
	PerWorker map[int]float64
}

// Workers returns the worker ids present in the per-worker breakdown, ascending.
func (a Aggregate) Workers() []int {
	ids := make([]int, 0, len(a.PerWorker))
	for id := range a.PerWorker {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Node is one position of the topology hierarchy.
type Node struct {
	Label     locvec.Label
	Aggregate Aggregate

	root     bool
	children map[locvec.Label]*Node
	leaves   map[int]*trace.Task
}

func newNode(label locvec.Label) *Node {
	return &Node{
		Label:    label,
		children: make(map[locvec.Label]*Node),
		leaves:   make(map[int]*trace.Task),
	}
}

// IsRoot reports whether n is the tree root.
func (n *Node) IsRoot() bool {
	return n.root
}

// Child returns the direct child with the given label.
func (n *Node) Child(label locvec.Label) (*Node, bool) {
	c, ok := n.children[label]
	return c, ok
}

// Children returns the direct children ordered by label, wildcard first.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label.Less(out[j].Label) })
	return out
}

// Leaves returns every task attached directly to n, ordered by id. Unrealized
// tasks are included; use Summary to tell them apart.
func (n *Node) Leaves() []*trace.Task {
	out := make([]*trace.Task, 0, len(n.leaves))
	for _, t := range n.leaves {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (n *Node) getChild(label locvec.Label) *Node {
	c, ok := n.children[label]
	if !ok {
		c = newNode(label)
		n.children[label] = c
	}
	return c
}

// String renders the node header line without indentation.
func (n *Node) String() string {
	var sb strings.Builder
	if n.root {
		sb.WriteString("[ ROOT ]")
	} else {
		fmt.Fprintf(&sb, "[ %s ]", n.Label)
	}
	fmt.Fprintf(&sb, " %.6f", n.Aggregate.Total)
	if len(n.Aggregate.PerWorker) > 0 {
		sb.WriteString(" |")
		for _, w := range n.Aggregate.Workers() {
			fmt.Fprintf(&sb, " @%d %.6f", w, n.Aggregate.PerWorker[w])
		}
	}
	return sb.String()
}
