package loctree

import (
	"fmt"

	"github.com/specialistvlad/etreport/internal/locvec"
	"github.com/specialistvlad/etreport/internal/trace"
)

// Mode selects the shape of the synthesized aggregate.
type Mode int

const (
	// Scalar keeps a single total per node.
	Scalar Mode = iota
	// PerWorker additionally keeps the total per worker id.
	PerWorker
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Scalar:
		return "scalar"
	case PerWorker:
		return "per-worker"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tree is the location tree. Nodes are created on demand and never removed.
type Tree struct {
	Root *Node
	mode Mode
}

// New creates an empty tree.
func New(mode Mode) *Tree {
	root := newNode(locvec.Label{})
	root.root = true
	return &Tree{Root: root, mode: mode}
}

// Mode returns the aggregation mode of the tree.
func (t *Tree) Mode() Mode {
	return t.mode
}

// Insert attaches task at the node addressed by path, creating nodes and the
// wildcard siblings of concrete labels along the way.
func (t *Tree) Insert(path locvec.Path, task *trace.Task) *Node {
	node := t.Root
	for _, label := range path {
		if !label.IsWildcard() {
			node.getChild(label.Widen())
		}
		node = node.getChild(label)
	}
	node.leaves[task.ID] = task
	return node
}

// InsertVector decodes a location vector and inserts task at its position.
func (t *Tree) InsertVector(vector string, task *trace.Task) (*Node, error) {
	path, err := locvec.Parse(vector)
	if err != nil {
		return nil, err
	}
	return t.Insert(path, task), nil
}

// Lookup returns the node addressed by path, if it exists.
func (t *Tree) Lookup(path locvec.Path) (*Node, bool) {
	node := t.Root
	for _, label := range path {
		next, ok := node.Child(label)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Walk visits every node in render order, passing the path leading to it.
func (t *Tree) Walk(fn func(path locvec.Path, n *Node)) {
	walk(t.Root, nil, fn)
}

func walk(n *Node, path locvec.Path, fn func(locvec.Path, *Node)) {
	fn(path, n)
	for _, c := range n.Children() {
		childPath := make(locvec.Path, len(path), len(path)+1)
		copy(childPath, path)
		walk(c, append(childPath, c.Label), fn)
	}
}
