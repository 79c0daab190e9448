// Package mapper resolves subscriber and dependent scopes.
package mapper

import (
	"strings"

	"github.com/drfirst/go-x12/internal/x12"
)

// scope is the party a segment belongs to when the segment itself does not say
type scope int

const (
	scopeNone scope = iota
	scopeSubscriber
	scopeDependent
)

// scopes assigns every segment the nearest preceding scope setter:
// an HL with level 22 or NM1*IL opens the subscriber scope, an HL with level
// 23 or a dependent name opens the dependent scope, and any other HL closes
// both. Other names (payer, provider) leave the scope unchanged.
func scopes(doc *x12.Document, dependentQualifiers ...string) []scope {
	out := make([]scope, doc.Len())
	cur := scopeNone
	for i, s := range doc.Segments {
		switch {
		case s.IsLoop():
			switch s.Loop.LevelCode {
			case x12.LevelSubscriber:
				cur = scopeSubscriber
			case x12.LevelDependent:
				cur = scopeDependent
			default:
				cur = scopeNone
			}
		case s.Is("NM1", "IL"):
			cur = scopeSubscriber
		case s.Is("NM1", dependentQualifiers...):
			cur = scopeDependent
		}
		out[i] = cur
	}
	return out
}

// firstInScope returns the first segment with the tag whose scope matches
func firstInScope(doc *x12.Document, sc []scope, want scope, tag string, qualifiers ...string) *x12.Segment {
	for i, s := range doc.Segments {
		if sc[i] == want && s.Is(tag, qualifiers...) {
			return s
		}
	}
	return nil
}

func mapEnvelope(doc *x12.Document) Envelope {
	isa := doc.First("ISA")
	gs := doc.First("GS")
	env := Envelope{
		SenderQualifier:   strings.TrimSpace(isa.Element(5)),
		SenderID:          strings.TrimSpace(isa.Element(6)),
		ReceiverQualifier: strings.TrimSpace(isa.Element(7)),
		ReceiverID:        strings.TrimSpace(isa.Element(8)),
		ControlNumber:     strings.TrimSpace(isa.Element(13)),
		Usage:             strings.TrimSpace(isa.Element(15)),
		Date:              x12.FormatDate(gs.Element(4)),
		Time:              gs.Element(5),
	}
	if env.Date == "" && len(isa.Element(9)) == 6 {
		env.Date = x12.FormatDate("20" + isa.Element(9))
	}
	if env.Time == "" {
		env.Time = isa.Element(10)
	}
	return env
}

// beginning holds BHT values shared by the HL-based transactions
type beginning struct {
	Reference       string
	TransactionDate string
}

func mapBeginning(doc *x12.Document) beginning {
	bht := doc.First("BHT")
	return beginning{
		Reference:       bht.Element(3),
		TransactionDate: x12.FormatDate(bht.Element(4)),
	}
}

func transactionDate(date string, env Envelope) string {
	if d := x12.CompactDate(date); d != "" {
		return d
	}
	if d := x12.CompactDate(env.Date); d != "" {
		return d
	}
	return x12.Now().Format(x12.LayoutDate)
}

func transactionTime(env Envelope) string {
	if len(env.Time) == 4 {
		return env.Time
	}
	return x12.Now().Format(x12.LayoutTime)
}

// dateRange reads a DTP03 as a start and optional end date
func dateRange(dtp *x12.Segment) (string, string) {
	if dtp == nil {
		return "", ""
	}
	if dtp.Element(2) == "RD8" {
		return x12.FormatDateRange(dtp.Element(3))
	}
	return x12.FormatDate(dtp.Element(3)), ""
}
