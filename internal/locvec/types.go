// internal/locvec/types.go
package locvec

import (
	"strconv"
	"strings"
)

// Wildcard is the index of a label that stands for every index of its dimension.
const Wildcard = -1

// Label is a single decoded segment of a location vector, e.g. `p0` or `b`.
type Label struct {
	Dim   byte
	Index int // Wildcard indicates no index is present.
}

// NewLabel creates a wildcard label for a dimension.
func NewLabel(dim byte) Label {
	return Label{Dim: dim, Index: Wildcard}
}

// NewIndexedLabel creates a label with a concrete index.
func NewIndexedLabel(dim byte, index int) Label {
	return Label{Dim: dim, Index: index}
}

// IsWildcard returns true if the label has no concrete index.
func (l Label) IsWildcard() bool {
	return l.Index == Wildcard
}

// Widen returns the wildcard label of the same dimension.
func (l Label) Widen() Label {
	return NewLabel(l.Dim)
}

// String renders the label as `p0`, or `p*` for a wildcard.
func (l Label) String() string {
	if l.IsWildcard() {
		return string(l.Dim) + "*"
	}
	return string(l.Dim) + strconv.Itoa(l.Index)
}

// Less orders labels by dimension letter, then index. A wildcard sorts before
// every concrete index of its dimension.
func (l Label) Less(other Label) bool {
	if l.Dim != other.Dim {
		return l.Dim < other.Dim
	}
	return l.Index < other.Index
}

// Path is a decoded location vector without its prefix.
type Path []Label

// String serializes the path back into location vector form with an empty prefix.
func (p Path) String() string {
	var sb strings.Builder
	for _, l := range p {
		sb.WriteByte(':')
		if l.IsWildcard() {
			sb.WriteByte(l.Dim)
			continue
		}
		sb.WriteString(l.String())
	}
	return sb.String()
}
