// Package x12 converts between X12 compact dates and calendar dates.
package x12

import (
	"strings"
	"time"
)

// Date layouts
const (
	LayoutDate     = "20060102"
	LayoutISODate  = "2006-01-02"
	LayoutTime     = "1504"
	LayoutShortISA = "060102"
)

// timeNow is a variable to allow mocking in tests
var timeNow = time.Now

// Now returns the current time used for envelope dates
func Now() time.Time {
	return timeNow()
}

// FormatDate converts a CCYYMMDD date to YYYY-MM-DD.
// Malformed or absent dates yield "".
func FormatDate(d8 string) string {
	t, err := time.Parse(LayoutDate, strings.TrimSpace(d8))
	if err != nil {
		return ""
	}
	return t.Format(LayoutISODate)
}

// CompactDate converts a YYYY-MM-DD date (or an already compact one) to CCYYMMDD.
// Malformed or absent dates yield "".
func CompactDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if t, err := time.Parse(LayoutISODate, iso); err == nil {
		return t.Format(LayoutDate)
	}
	if t, err := time.Parse(LayoutDate, iso); err == nil {
		return t.Format(LayoutDate)
	}
	return ""
}

// IsDate reports whether s is a valid CCYYMMDD date
func IsDate(s string) bool {
	if len(s) != len(LayoutDate) {
		return false
	}
	_, err := time.Parse(LayoutDate, s)
	return err == nil
}

// FormatDateRange splits an RD8 value (CCYYMMDD-CCYYMMDD) into hyphenated dates
func FormatDateRange(rd8 string) (start, end string) {
	from, to, ok := strings.Cut(rd8, "-")
	if !ok {
		return FormatDate(rd8), ""
	}
	return FormatDate(from), FormatDate(to)
}
