// Package x12 detects interchange delimiters from the ISA header.
package x12

import "strings"

// Interchange header geometry. The ISA segment is the only fixed-width
// segment in X12 and self-declares the delimiters used by the rest of the
// interchange.
const (
	isaTag               = "ISA"
	isaLength            = 106
	isaElementSepIndex   = 3
	isaComponentSepIndex = 104
	isaSegmentTermIndex  = 105
	utf8ByteOrderMark    = "\ufeff"
	defaultElementSep    = '*'
	defaultComponentSep  = ':'
	defaultSegmentTerm   = '~'
)

// Delimiters holds the three structural delimiters of an interchange
type Delimiters struct {
	Element   byte `json:"element"`
	Component byte `json:"component"`
	Segment   byte `json:"segment"`
}

// RepetitionSeparator is the ISA11 repetition separator emitted by builders
const RepetitionSeparator = '^'

// DefaultDelimiters are the de-facto standard X12 delimiters
var DefaultDelimiters = Delimiters{
	Element:   defaultElementSep,
	Component: defaultComponentSep,
	Segment:   defaultSegmentTerm,
}

// String renders the delimiters as a three character string
func (d Delimiters) String() string {
	return string([]byte{d.Element, d.Component, d.Segment})
}

// DetectDelimiters reads the delimiters declared by the ISA header.
// Text that does not start with a full ISA header yields DefaultDelimiters.
func DetectDelimiters(raw string) Delimiters {
	text := trimLeading(raw)
	if len(text) < isaLength || !strings.HasPrefix(text, isaTag) {
		return DefaultDelimiters
	}
	return Delimiters{
		Element:   text[isaElementSepIndex],
		Component: text[isaComponentSepIndex],
		Segment:   text[isaSegmentTermIndex],
	}
}

func trimLeading(raw string) string {
	return strings.TrimLeft(strings.TrimPrefix(raw, utf8ByteOrderMark), " \t\r\n")
}
