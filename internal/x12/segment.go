// Package x12 defines segments and elements of an interchange.
package x12

import (
	"strconv"
	"strings"
)

// Element is a single data element of a segment
type Element struct {
	Index      int      `json:"index"`
	Value      string   `json:"value"`
	Components []string `json:"components,omitempty"`
}

// Loop carries the HL declaration of a loop-opening segment
type Loop struct {
	ID        string `json:"hlId"`
	ParentID  string `json:"parentId,omitempty"`
	LevelCode string `json:"levelCode"`
	ChildCode string `json:"childCode,omitempty"`
}

// HL03 hierarchical level codes
const (
	LevelInformationSource   = "20"
	LevelInformationReceiver = "21"
	LevelServiceProvider     = "19"
	LevelBillingProvider     = "20"
	LevelSubscriber          = "22"
	LevelDependent           = "23"
)

// Segment is one tagged line of an interchange.
// Children holds indexes into Document.Segments.
type Segment struct {
	ID         string    `json:"id"`
	Tag        string    `json:"tag"`
	Raw        string    `json:"raw"`
	Elements   []Element `json:"elements"`
	LineNumber int       `json:"lineNumber"`
	Depth      int       `json:"depth"`
	Children   []int     `json:"children,omitempty"`
	Loop       *Loop     `json:"loop,omitempty"`
}

// Element returns the value at the 1-based element position, or "" if absent
func (s *Segment) Element(pos int) string {
	if s == nil || pos < 1 || pos > len(s.Elements) {
		return ""
	}
	return s.Elements[pos-1].Value
}

// Component returns the 1-based component of the element at pos.
// A non-composite element is its own first component.
func (s *Segment) Component(pos, comp int) string {
	if s == nil || pos < 1 || pos > len(s.Elements) || comp < 1 {
		return ""
	}
	e := s.Elements[pos-1]
	if e.Components == nil {
		if comp == 1 {
			return e.Value
		}
		return ""
	}
	if comp > len(e.Components) {
		return ""
	}
	return e.Components[comp-1]
}

// Qualifier returns the first data element, which qualifies most X12 segments
func (s *Segment) Qualifier() string {
	return s.Element(1)
}

// IsLoop reports whether the segment opens a hierarchical loop
func (s *Segment) IsLoop() bool {
	return s != nil && s.Loop != nil
}

// Is reports whether the segment has the tag and, when given, one of the qualifiers
func (s *Segment) Is(tag string, qualifiers ...string) bool {
	if s == nil || s.Tag != tag {
		return false
	}
	if len(qualifiers) == 0 {
		return true
	}
	q := s.Qualifier()
	for _, want := range qualifiers {
		if q == want {
			return true
		}
	}
	return false
}

// Position formats an element reference such as NM103
func Position(tag string, pos int) string {
	if pos < 10 {
		return tag + "0" + strconv.Itoa(pos)
	}
	return tag + strconv.Itoa(pos)
}

// Values returns the element values in order
func (s *Segment) Values() []string {
	out := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		out[i] = e.Value
	}
	return out
}

func (s *Segment) String() string {
	if s == nil {
		return ""
	}
	if len(s.Elements) == 0 {
		return s.Tag
	}
	return s.Tag + "*" + strings.Join(s.Values(), "*")
}
