// Package dictionary holds the offline X12 code dictionary used to explain
// segments and elements in plain language. All tables are read-only after
// package initialization and safe for concurrent use.
package dictionary

import (
	"strconv"
	"strings"

	"github.com/drfirst/go-x12/internal/x12"
)

// CodeNotRecognized marks a coded value absent from the dictionary
const CodeNotRecognized = "code not recognized"

// Kind is the data kind of an element position
type Kind int

// Element kinds
const (
	KindText Kind = iota
	KindIdentifier
	KindCode
	KindDate
	KindTime
	KindAmount
	KindQuantity
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindIdentifier:
		return "identifier"
	case KindCode:
		return "code"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindAmount:
		return "amount"
	case KindQuantity:
		return "quantity"
	case KindComposite:
		return "composite"
	}
	return "unknown"
}

// ElementDef describes one element position, or one component of a composite
type ElementDef struct {
	Name       string
	Kind       Kind
	Codes      map[string]string
	Components []ElementDef
}

// SegmentName returns the plain-language segment name, or "" for unknown tags
func SegmentName(tag string) string {
	return segmentNames[tag]
}

// Element returns the definition of a segment element position
func Element(tag string, pos int) (ElementDef, bool) {
	def, ok := elements[tag][pos]
	return def, ok
}

// Lookup returns the description of a code at a segment element position
func Lookup(tag string, pos int, code string) (string, bool) {
	def, ok := Element(tag, pos)
	if !ok || def.Kind != KindCode {
		return "", false
	}
	desc, ok := def.Codes[code]
	return desc, ok
}

// Define renders the human-readable definition of a raw element value.
// Composite values are split on the component separator and each part is
// resolved on its own; parts are joined with "; ".
func Define(tag string, pos int, value string, component byte) string {
	if value == "" {
		return ""
	}
	def, ok := Element(tag, pos)
	if !ok {
		return fallback(ElementDef{}, value)
	}
	if def.Kind == KindComposite {
		return defineComposite(def, strings.Split(value, string(component)))
	}
	return resolve(def, value)
}

// DefineElement renders the definition of a parsed element
func DefineElement(tag string, e x12.Element) string {
	if e.Value == "" {
		return ""
	}
	def, ok := Element(tag, e.Index)
	if !ok {
		return fallback(ElementDef{}, e.Value)
	}
	if def.Kind == KindComposite {
		parts := e.Components
		if parts == nil {
			parts = []string{e.Value}
		}
		return defineComposite(def, parts)
	}
	return resolve(def, e.Value)
}

func defineComposite(def ElementDef, parts []string) string {
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		partDef := ElementDef{Name: "Component " + strconv.Itoa(i+1), Kind: KindCode}
		if i < len(def.Components) {
			partDef = def.Components[i]
		}
		out = append(out, partDef.Name+": "+resolve(partDef, part))
	}
	return strings.Join(out, "; ")
}

func resolve(def ElementDef, value string) string {
	switch def.Kind {
	case KindText, KindIdentifier:
		return value
	case KindCode:
		if desc, ok := def.Codes[value]; ok {
			return desc
		}
	case KindDate:
		if start, end := x12.FormatDateRange(value); start != "" && end != "" {
			return start + " to " + end
		}
	case KindTime:
		if len(value) >= 4 {
			return value[:2] + ":" + value[2:4]
		}
	case KindAmount, KindQuantity:
		return value
	case KindComposite:
		return defineComposite(def, []string{value})
	}
	return fallback(def, value)
}

// fallback applies the heuristics for values the tables do not cover:
// dates, then amounts and quantities, then the not-recognized marker.
func fallback(def ElementDef, value string) string {
	if isDateBearing(def) && x12.IsDate(value) {
		return x12.FormatDate(value)
	}
	if isAmountBearing(def) {
		return value
	}
	return CodeNotRecognized
}

func isDateBearing(def ElementDef) bool {
	return def.Kind == KindDate || strings.Contains(def.Name, "Date")
}

func isAmountBearing(def ElementDef) bool {
	if def.Kind == KindAmount || def.Kind == KindQuantity {
		return true
	}
	name := strings.ToLower(def.Name)
	return strings.Contains(name, "amount") || strings.Contains(name, "quantity") || strings.Contains(name, "count")
}
