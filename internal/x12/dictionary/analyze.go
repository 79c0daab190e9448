// Package dictionary renders per-segment summaries and field explanations.
package dictionary

import (
	"fmt"
	"strings"

	"github.com/drfirst/go-x12/internal/x12"
)

// Analysis is the plain-language explanation of one segment
type Analysis struct {
	SegmentID string          `json:"segmentId"`
	Tag       string          `json:"tag"`
	Name      string          `json:"name"`
	Summary   string          `json:"summary"`
	Fields    []FieldAnalysis `json:"fields"`
}

// FieldAnalysis explains one element of a segment
type FieldAnalysis struct {
	Position   string `json:"position"`
	Name       string `json:"name"`
	Value      string `json:"value"`
	Definition string `json:"definition"`
}

// Describe explains a segment: its name, a one-line summary and a
// definition for every element.
func Describe(seg *x12.Segment) Analysis {
	a := Analysis{
		SegmentID: seg.ID,
		Tag:       seg.Tag,
		Name:      SegmentName(seg.Tag),
		Fields:    make([]FieldAnalysis, 0, len(seg.Elements)),
	}
	for _, e := range seg.Elements {
		name := fmt.Sprintf("Element %02d", e.Index)
		if def, ok := Element(seg.Tag, e.Index); ok {
			name = def.Name
		}
		a.Fields = append(a.Fields, FieldAnalysis{
			Position:   x12.Position(seg.Tag, e.Index),
			Name:       name,
			Value:      e.Value,
			Definition: DefineElement(seg.Tag, e),
		})
	}
	a.Summary = summarize(seg)
	return a
}

// DescribeDocument explains every segment of a document in flat order
func DescribeDocument(doc *x12.Document) []Analysis {
	out := make([]Analysis, 0, doc.Len())
	for _, s := range doc.Segments {
		out = append(out, Describe(s))
	}
	return out
}

func summarize(seg *x12.Segment) string {
	if tmpl, ok := summaries[seg.Tag]; ok {
		if s := tmpl(seg); s != "" {
			return s
		}
	}
	if name := SegmentName(seg.Tag); name != "" {
		return name
	}
	return "Unknown segment " + seg.Tag
}

// code returns the description of a coded element or the raw value
func code(seg *x12.Segment, pos int) string {
	v := seg.Element(pos)
	if v == "" {
		return ""
	}
	if desc, ok := Lookup(seg.Tag, pos, v); ok {
		return desc
	}
	return v
}

func component(seg *x12.Segment, pos, comp int) string {
	v := seg.Component(pos, comp)
	def, ok := Element(seg.Tag, pos)
	if !ok || comp > len(def.Components) {
		return v
	}
	if desc, ok := def.Components[comp-1].Codes[v]; ok {
		return desc
	}
	return v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

var summaries = map[string]func(*x12.Segment) string{
	"ISA": func(s *x12.Segment) string {
		return fmt.Sprintf("Interchange %s from %s to %s",
			strings.TrimSpace(s.Element(13)), strings.TrimSpace(s.Element(6)), strings.TrimSpace(s.Element(8)))
	},
	"GS": func(s *x12.Segment) string {
		return fmt.Sprintf("Functional group %s: %s", s.Element(6), code(s, 1))
	},
	"ST": func(s *x12.Segment) string {
		return fmt.Sprintf("Transaction set %s (%s), control number %s", s.Element(1), code(s, 1), s.Element(2))
	},
	"SE": func(s *x12.Segment) string {
		return fmt.Sprintf("End of transaction set %s: %s segments", s.Element(2), s.Element(1))
	},
	"BHT": func(s *x12.Segment) string {
		return joinNonEmpty(", ", code(s, 2), "reference "+s.Element(3), x12.FormatDate(s.Element(4)))
	},
	"BGN": func(s *x12.Segment) string {
		return joinNonEmpty(", ", code(s, 1)+" enrollment", "reference "+s.Element(2), x12.FormatDate(s.Element(3)))
	},
	"HL": func(s *x12.Segment) string {
		out := fmt.Sprintf("Level %s: %s", s.Element(1), code(s, 3))
		if p := s.Element(2); p != "" {
			out += " under level " + p
		}
		return out
	},
	"NM1": func(s *x12.Segment) string {
		name := joinNonEmpty(" ", s.Element(4), s.Element(5), s.Element(3))
		out := code(s, 1) + ": " + name
		if id := s.Element(9); id != "" {
			out += " (" + code(s, 8) + " " + id + ")"
		}
		return out
	},
	"N1": func(s *x12.Segment) string {
		return code(s, 1) + ": " + s.Element(2)
	},
	"DMG": func(s *x12.Segment) string {
		return joinNonEmpty(", ", "born "+x12.FormatDate(s.Element(2)), code(s, 3))
	},
	"DTP": func(s *x12.Segment) string {
		return code(s, 1) + " date: " + DefineElement(s.Tag, x12.Element{Index: 3, Value: s.Element(3)})
	},
	"EB": func(s *x12.Segment) string {
		out := code(s, 1)
		if st := code(s, 3); st != "" {
			out += " for " + st
		}
		if lvl := code(s, 2); lvl != "" {
			out += " (" + lvl + ")"
		}
		if amt := s.Element(7); amt != "" {
			out += " amount " + amt
		}
		return out
	},
	"EQ": func(s *x12.Segment) string {
		return "Inquiry for " + code(s, 1)
	},
	"MSG": func(s *x12.Segment) string {
		return "Message: " + s.Element(1)
	},
	"TRN": func(s *x12.Segment) string {
		return code(s, 1) + ": " + s.Element(2)
	},
	"STC": func(s *x12.Segment) string {
		out := "Claim status: " + joinNonEmpty(", ", component(s, 1, 1), component(s, 1, 2))
		if d := x12.FormatDate(s.Element(2)); d != "" {
			out += " as of " + d
		}
		return out
	},
	"CLM": func(s *x12.Segment) string {
		return fmt.Sprintf("Claim %s for %s at %s", s.Element(1), s.Element(2), component(s, 5, 1))
	},
	"SV1": func(s *x12.Segment) string {
		return fmt.Sprintf("Service %s charged %s for %s %s", s.Component(1, 2), s.Element(2), s.Element(4), code(s, 3))
	},
	"HI": func(s *x12.Segment) string {
		var codes []string
		for _, e := range s.Elements {
			if c := s.Component(e.Index, 2); c != "" {
				codes = append(codes, c)
			}
		}
		return "Diagnoses: " + strings.Join(codes, ", ")
	},
	"INS": func(s *x12.Segment) string {
		who := "Dependent"
		if s.Element(1) == "Y" {
			who = "Subscriber"
		}
		return joinNonEmpty(", ", who+" ("+code(s, 2)+")", code(s, 3), code(s, 4))
	},
	"HD": func(s *x12.Segment) string {
		return joinNonEmpty(", ", code(s, 3)+" coverage", code(s, 1), code(s, 5))
	},
	"REF": func(s *x12.Segment) string {
		return code(s, 1) + ": " + s.Element(2)
	},
	"AMT": func(s *x12.Segment) string {
		return code(s, 1) + ": " + s.Element(2)
	},
	"AAA": func(s *x12.Segment) string {
		if s.Element(1) == "Y" {
			return "Request valid: " + code(s, 3)
		}
		return joinNonEmpty(", ", "Request rejected: "+code(s, 3), code(s, 4))
	},
	"SBR": func(s *x12.Segment) string {
		return joinNonEmpty(", ", code(s, 1)+" payer", code(s, 9))
	},
}
