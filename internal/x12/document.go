// Package x12 provides navigation over a parsed segment forest.
package x12

import (
	"fmt"
	"strings"
)

// Node is the nested JSON rendering of a segment and its loop children
type Node struct {
	*Segment
	Nodes []Node `json:"nodes,omitempty"`
}

// Len returns the number of segments in the document
func (d *Document) Len() int {
	return len(d.Segments)
}

// At returns the segment at a flat index, or nil when out of range
func (d *Document) At(i int) *Segment {
	if i < 0 || i >= len(d.Segments) {
		return nil
	}
	return d.Segments[i]
}

// Index returns the flat index of a segment of this document
func (d *Document) Index(s *Segment) int {
	return s.LineNumber - 1
}

// ChildrenOf resolves the child indexes of a segment
func (d *Document) ChildrenOf(s *Segment) []*Segment {
	out := make([]*Segment, 0, len(s.Children))
	for _, i := range s.Children {
		out = append(out, d.Segments[i])
	}
	return out
}

// Walk visits the forest depth-first in pre-order. Returning false from fn
// skips the segment's children.
func (d *Document) Walk(fn func(s *Segment) bool) {
	var visit func(i int)
	visit = func(i int) {
		s := d.Segments[i]
		if !fn(s) {
			return
		}
		for _, c := range s.Children {
			visit(c)
		}
	}
	for _, r := range d.Roots {
		visit(r)
	}
}

// First returns the first segment in document order with the tag and one of the qualifiers
func (d *Document) First(tag string, qualifiers ...string) *Segment {
	return d.FirstFrom(0, tag, qualifiers...)
}

// FirstFrom is First starting at a flat index
func (d *Document) FirstFrom(start int, tag string, qualifiers ...string) *Segment {
	for i := max(start, 0); i < len(d.Segments); i++ {
		if d.Segments[i].Is(tag, qualifiers...) {
			return d.Segments[i]
		}
	}
	return nil
}

// All returns every segment with the tag and one of the qualifiers
func (d *Document) All(tag string, qualifiers ...string) []*Segment {
	var out []*Segment
	for _, s := range d.Segments {
		if s.Is(tag, qualifiers...) {
			out = append(out, s)
		}
	}
	return out
}

// Tree renders the forest as nested nodes
func (d *Document) Tree() []Node {
	var build func(i int) Node
	build = func(i int) Node {
		s := d.Segments[i]
		n := Node{Segment: s}
		for _, c := range s.Children {
			n.Nodes = append(n.Nodes, build(c))
		}
		return n
	}
	out := make([]Node, 0, len(d.Roots))
	for _, r := range d.Roots {
		out = append(out, build(r))
	}
	return out
}

// Shape outlines the forest as depth, tag and element values in pre-order.
// Two parses of the same text have equal shapes even though segment ids differ.
func (d *Document) Shape() []string {
	var out []string
	d.Walk(func(s *Segment) bool {
		out = append(out, fmt.Sprintf("%s%s[%d]", strings.Repeat(".", s.Depth), s.String(), len(s.Children)))
		return true
	})
	return out
}
