// Package mapper writes segments and the interchange envelope.
package mapper

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/drfirst/go-x12/internal/x12"
)

const (
	isaAuthorization  = "00"
	isaSecurity       = "00"
	isaVersion        = "00501"
	isaNoAck          = "0"
	defaultQualifier  = "ZZ"
	defaultUsage      = "P"
	controlNumberMax  = 999999999
	transactionNumber = "0001"
	lineBreak         = "\n"
)

// segmentWriter accumulates transaction set body segments (ST up to, not including, SE)
type segmentWriter struct {
	lines []string
}

// add writes a segment, trimming trailing empty elements
func (w *segmentWriter) add(tag string, elems ...string) {
	n := len(elems)
	for n > 0 && elems[n-1] == "" {
		n--
	}
	parts := make([]string, 0, n+1)
	parts = append(parts, tag)
	parts = append(parts, elems[:n]...)
	w.lines = append(w.lines, strings.Join(parts, string(x12.DefaultDelimiters.Element)))
}

func (w *segmentWriter) addIf(cond bool, tag string, elems ...string) {
	if cond {
		w.add(tag, elems...)
	}
}

// date writes a DTP with D8 or RD8 format depending on whether an end date is given
func (w *segmentWriter) date(qualifier, start, end string) {
	from, to := x12.CompactDate(start), x12.CompactDate(end)
	switch {
	case from != "" && to != "":
		w.add("DTP", qualifier, "RD8", from+"-"+to)
	case from != "":
		w.add("DTP", qualifier, "D8", from)
	}
}

func (w *segmentWriter) demographics(dob, gender string) {
	if dob == "" && gender == "" {
		return
	}
	d8 := x12.CompactDate(dob)
	format := "D8"
	if d8 == "" {
		format = ""
	}
	w.add("DMG", format, d8, gender)
}

// hl writes the next HL segment and returns its id
func (w *segmentWriter) hl(counter *int, parent int, level string, hasChild bool) int {
	*counter++
	id := *counter
	p := ""
	if parent > 0 {
		p = strconv.Itoa(parent)
	}
	child := "0"
	if hasChild {
		child = "1"
	}
	w.add("HL", strconv.Itoa(id), p, level, child)
	return id
}

// composite joins components, trimming trailing empty ones
func composite(parts ...string) string {
	n := len(parts)
	for n > 0 && parts[n-1] == "" {
		n--
	}
	return strings.Join(parts[:n], string(x12.DefaultDelimiters.Component))
}

func boolCode(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func pad(v string, width int) string {
	if len(v) >= width {
		return v
	}
	return v + strings.Repeat(" ", width-len(v))
}

// newControlNumber returns a random interchange control number; uniqueness
// within a trading partner window is all receivers expect.
func newControlNumber() int {
	return rand.IntN(controlNumberMax) + 1
}

// envelope wraps a transaction set body with ST/SE, GS/GE and ISA/IEA
func envelope(t x12.TransactionType, env Envelope, body *segmentWriter) (string, error) {
	if env.SenderID == "" {
		return "", &BuildError{Field: "Envelope.SenderID", Message: "sender id is required"}
	}
	if env.ReceiverID == "" {
		return "", &BuildError{Field: "Envelope.ReceiverID", Message: "receiver id is required"}
	}
	if len(env.SenderID) > 15 {
		return "", &BuildError{Field: "Envelope.SenderID", Message: "sender id exceeds 15 characters"}
	}
	if len(env.ReceiverID) > 15 {
		return "", &BuildError{Field: "Envelope.ReceiverID", Message: "receiver id exceeds 15 characters"}
	}

	if len(env.SenderQualifier) > 2 || len(env.ReceiverQualifier) > 2 {
		return "", &BuildError{Field: "Envelope.SenderQualifier", Message: "interchange id qualifiers are two characters"}
	}
	if len(env.Usage) > 1 {
		return "", &BuildError{Field: "Envelope.Usage", Message: "usage indicator is one character"}
	}

	now := x12.Now()
	d8 := x12.CompactDate(env.Date)
	if d8 == "" {
		d8 = now.Format(x12.LayoutDate)
	}
	hhmm := env.Time
	if len(hhmm) != 4 {
		hhmm = now.Format(x12.LayoutTime)
	}
	senderQual := orDefault(env.SenderQualifier, defaultQualifier)
	receiverQual := orDefault(env.ReceiverQualifier, defaultQualifier)
	usage := orDefault(env.Usage, defaultUsage)
	control := newControlNumber()
	isaControl := fmt.Sprintf("%09d", control)
	groupControl := strconv.Itoa(control)

	out := &segmentWriter{}
	out.lines = append(out.lines, strings.Join([]string{
		"ISA",
		isaAuthorization, pad("", 10),
		isaSecurity, pad("", 10),
		pad(senderQual, 2), pad(env.SenderID, 15),
		pad(receiverQual, 2), pad(env.ReceiverID, 15),
		d8[2:], hhmm,
		string(x12.RepetitionSeparator), isaVersion, isaControl,
		isaNoAck, usage, string(x12.DefaultDelimiters.Component),
	}, string(x12.DefaultDelimiters.Element)))
	out.add("GS", t.FunctionalID(), env.SenderID, env.ReceiverID, d8, hhmm, groupControl, "X", t.Version())
	out.add("ST", string(t), transactionNumber, t.Version())
	out.lines = append(out.lines, body.lines...)
	// ST through SE inclusive
	out.add("SE", strconv.Itoa(len(body.lines)+2), transactionNumber)
	out.add("GE", "1", groupControl)
	out.add("IEA", "1", isaControl)

	term := string(x12.DefaultDelimiters.Segment)
	return strings.Join(out.lines, term+lineBreak) + term + lineBreak, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
