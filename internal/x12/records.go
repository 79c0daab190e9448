// Package x12 extracts navigable records from a document.
package x12

import "strings"

// RecordType is the coarse kind of a navigable record
type RecordType string

// Record types
const (
	RecordClaim       RecordType = "claim"
	RecordSubscriber  RecordType = "subscriber"
	RecordMember      RecordType = "member"
	RecordTransaction RecordType = "transaction"
	RecordUnknown     RecordType = "unknown"
)

// Record is a read-only summary of a claim, member or subscriber scope
type Record struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Value      string     `json:"value"`
	Type       RecordType `json:"type"`
	StartIndex int        `json:"startIndex"`
}

// Records extracts the navigable records of a document. Each record's scope
// starts at its trigger segment and runs to the next trigger or boundary.
func Records(doc *Document) []Record {
	var recs []Record
	switch doc.TransactionType {
	case TransactionHealthCareClaim:
		recs = claimRecords(doc)
	case TransactionBenefitEnrollment:
		recs = memberRecords(doc)
	case TransactionEligibilityInquiry, TransactionEligibilityResponse:
		recs = subscriberRecords(doc)
	case TransactionClaimStatusInquiry, TransactionClaimStatusResponse:
		recs = claimStatusRecords(doc)
	case TransactionServicesReview, TransactionPremiumPayment, TransactionPurchaseOrder,
		TransactionInvoice, TransactionShipNotice, TransactionUnknown:
		recs = transactionRecords(doc)
	}
	if len(recs) == 0 && doc.Len() > 0 {
		first := doc.Segments[0]
		recs = append(recs, Record{
			ID:    first.ID,
			Label: first.Tag,
			Value: first.String(),
			Type:  RecordUnknown,
		})
	}
	return recs
}

func claimRecords(doc *Document) []Record {
	var recs []Record
	for sp := range Spans(doc.Segments, Tags("CLM"), Tags("CLM", "HL", "SE")) {
		recs = append(recs, Record{
			ID:         sp.Trigger.ID,
			Label:      "Claim " + sp.Trigger.Element(1),
			Value:      sp.Trigger.Element(2),
			Type:       RecordClaim,
			StartIndex: sp.Start,
		})
	}
	return recs
}

func memberRecords(doc *Document) []Record {
	var recs []Record
	for sp := range Spans(doc.Segments, Tags("INS"), Tags("INS", "SE")) {
		label := personName(sp.First("NM1", "IL"))
		if label == "" {
			label = "Member"
		}
		value := sp.First("REF", "0F").Element(2)
		recs = append(recs, Record{
			ID:         sp.Trigger.ID,
			Label:      label,
			Value:      value,
			Type:       RecordMember,
			StartIndex: sp.Start,
		})
	}
	return recs
}

func subscriberRecords(doc *Document) []Record {
	var recs []Record
	for sp := range Spans(doc.Segments, Qualified("NM1", "IL"), Tags("HL", "SE")) {
		recs = append(recs, Record{
			ID:         sp.Trigger.ID,
			Label:      personName(sp.Trigger),
			Value:      sp.Trigger.Element(9),
			Type:       RecordSubscriber,
			StartIndex: sp.Start,
		})
	}
	return recs
}

func claimStatusRecords(doc *Document) []Record {
	var recs []Record
	for sp := range Spans(doc.Segments, Tags("TRN"), Tags("TRN", "HL", "SE")) {
		value := sp.First("STC").Element(1)
		if value == "" {
			value = sp.First("AMT", "T3").Element(2)
		}
		recs = append(recs, Record{
			ID:         sp.Trigger.ID,
			Label:      "Claim " + sp.Trigger.Element(2),
			Value:      value,
			Type:       RecordClaim,
			StartIndex: sp.Start,
		})
	}
	return recs
}

func transactionRecords(doc *Document) []Record {
	var recs []Record
	for sp := range Spans(doc.Segments, Tags("ST"), Tags("SE")) {
		recs = append(recs, Record{
			ID:         sp.Trigger.ID,
			Label:      "Transaction " + sp.Trigger.Element(1),
			Value:      sp.Trigger.Element(2),
			Type:       RecordTransaction,
			StartIndex: sp.Start,
		})
	}
	return recs
}

// personName renders an NM1 as "LAST, FIRST", or the organization name
func personName(nm1 *Segment) string {
	last, first := nm1.Element(3), nm1.Element(4)
	switch {
	case last != "" && first != "":
		return last + ", " + first
	default:
		return strings.TrimSpace(last + first)
	}
}
