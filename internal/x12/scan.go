// Package x12 groups repeating segments into spans.
package x12

import "iter"

// Predicate selects segments during a span scan
type Predicate func(s *Segment) bool

// Tags matches any of the given tags
func Tags(tags ...string) Predicate {
	return func(s *Segment) bool {
		for _, t := range tags {
			if s.Tag == t {
				return true
			}
		}
		return false
	}
}

// Qualified matches a tag whose first element is one of the qualifiers
func Qualified(tag string, qualifiers ...string) Predicate {
	return func(s *Segment) bool {
		return s.Is(tag, qualifiers...)
	}
}

// Or matches when any predicate matches
func Or(preds ...Predicate) Predicate {
	return func(s *Segment) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

// Span is a repeating group: a trigger segment plus the segments that
// follow it up to, but excluding, the next trigger or boundary.
type Span struct {
	Start   int
	Trigger *Segment
	Members []*Segment
}

// First returns the first member with the tag and one of the qualifiers
func (sp Span) First(tag string, qualifiers ...string) *Segment {
	for _, m := range sp.Members {
		if m.Is(tag, qualifiers...) {
			return m
		}
	}
	return nil
}

// All returns the members with the tag and one of the qualifiers
func (sp Span) All(tag string, qualifiers ...string) []*Segment {
	var out []*Segment
	for _, m := range sp.Members {
		if m.Is(tag, qualifiers...) {
			out = append(out, m)
		}
	}
	return out
}

// End returns the flat index one past the last member
func (sp Span) End() int {
	return sp.Start + 1 + len(sp.Members)
}

// Spans scans segs in order and yields one Span per trigger. A span closes at
// the next trigger, at a boundary segment, or at the end of segs. The
// sequence holds no cursor state and can be ranged over any number of times.
func Spans(segs []*Segment, trigger, boundary Predicate) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		open := false
		var cur Span
		for i, s := range segs {
			if trigger(s) {
				if open && !yield(cur) {
					return
				}
				cur = Span{Start: i, Trigger: s}
				open = true
				continue
			}
			if !open {
				continue
			}
			if boundary != nil && boundary(s) {
				if !yield(cur) {
					return
				}
				open = false
				continue
			}
			cur.Members = append(cur.Members, s)
		}
		if open {
			yield(cur)
		}
	}
}
