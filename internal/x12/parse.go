// Package x12 tokenizes interchanges and assembles the HL forest.
package x12

import (
	"strings"

	"github.com/google/uuid"
)

// Document is an immutable parsed interchange.
// Segments is the flat arena in document order; Roots indexes its forest roots.
type Document struct {
	Delimiters      Delimiters      `json:"delimiters"`
	Raw             string          `json:"-"`
	TransactionType TransactionType `json:"transactionType"`
	Segments        []*Segment      `json:"-"`
	Roots           []int           `json:"-"`
}

// Parse tokenizes raw X12 text, classifies it and assembles the loop forest.
// Parse never fails: malformed input degrades to default delimiters and a flat forest.
func Parse(raw string) *Document {
	d := DetectDelimiters(raw)
	segs := Tokenize(raw, d)
	doc := &Document{
		Delimiters:      d,
		Raw:             raw,
		TransactionType: classify(segs),
		Segments:        segs,
	}
	doc.Roots = assemble(segs)
	return doc
}

// Tokenize splits raw text into segments using the given delimiters
func Tokenize(raw string, d Delimiters) []*Segment {
	text := trimLeading(raw)
	fragments := strings.Split(text, string(d.Segment))
	segs := make([]*Segment, 0, len(fragments))
	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		seg := tokenizeSegment(frag, d)
		seg.LineNumber = len(segs) + 1
		segs = append(segs, seg)
	}
	return segs
}

func tokenizeSegment(frag string, d Delimiters) *Segment {
	parts := strings.Split(frag, string(d.Element))
	tag := strings.ToUpper(strings.TrimSpace(parts[0]))
	seg := &Segment{
		ID:       uuid.NewString(),
		Tag:      tag,
		Raw:      frag,
		Elements: make([]Element, 0, len(parts)-1),
	}
	// ISA16 is the component separator itself
	composite := tag != isaTag
	for i, v := range parts[1:] {
		e := Element{Index: i + 1, Value: v}
		if composite && strings.IndexByte(v, d.Component) >= 0 {
			e.Components = strings.Split(v, string(d.Component))
		}
		seg.Elements = append(seg.Elements, e)
	}
	return seg
}

// Only the first transaction set header is honored
func classify(segs []*Segment) TransactionType {
	for _, s := range segs {
		if s.Tag == "ST" {
			return ClassifyTransaction(s.Element(1))
		}
	}
	return TransactionUnknown
}

// assemble builds the loop forest in two passes and returns the root indexes.
// Pass one records every HL declaration by id, pass two walks the sequence
// attaching loops to earlier parents and other segments to the current loop.
func assemble(segs []*Segment) []int {
	loops := make(map[string]int)
	for i, s := range segs {
		if s.Tag != "HL" {
			continue
		}
		s.Loop = &Loop{
			ID:        s.Element(1),
			ParentID:  s.Element(2),
			LevelCode: s.Element(3),
			ChildCode: s.Element(4),
		}
		if _, dup := loops[s.Loop.ID]; !dup {
			loops[s.Loop.ID] = i
		}
	}

	roots := make([]int, 0, len(segs))
	if len(loops) == 0 {
		for i := range segs {
			roots = append(roots, i)
		}
		return roots
	}

	current := -1
	for i, s := range segs {
		if s.Loop != nil {
			current = i
			p, ok := loops[s.Loop.ParentID]
			// forward references and orphans become roots
			if !ok || s.Loop.ParentID == "" || p >= i {
				roots = append(roots, i)
				continue
			}
			parent := segs[p]
			parent.Children = append(parent.Children, i)
			s.Depth = parent.Depth + 1
			continue
		}
		if current < 0 {
			roots = append(roots, i)
			continue
		}
		loop := segs[current]
		loop.Children = append(loop.Children, i)
		s.Depth = loop.Depth + 1
	}
	return roots
}
