package loctree

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the tree depth-first, one line per node followed by its
// summarized leaves, indenting two spaces per level.
func (t *Tree) Render(w io.Writer) error {
	return renderNode(w, t.Root, 0)
}

func renderNode(w io.Writer, n *Node, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n); err != nil {
		return err
	}
	for _, task := range n.Leaves() {
		if task.Summary == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth+1), task); err != nil {
			return err
		}
	}
	for _, c := range n.Children() {
		if err := renderNode(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
