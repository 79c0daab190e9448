// Package x12 parses ASC X12 EDI interchanges into a hierarchical segment forest.
package x12

// TransactionType identifies the transaction set carried by a document (ST01)
type TransactionType string

// Transaction set constants
const (
	TransactionUnknown             TransactionType = ""
	TransactionEligibilityInquiry  TransactionType = "270"
	TransactionEligibilityResponse TransactionType = "271"
	TransactionClaimStatusInquiry  TransactionType = "276"
	TransactionClaimStatusResponse TransactionType = "277"
	TransactionServicesReview      TransactionType = "278"
	TransactionPremiumPayment      TransactionType = "820"
	TransactionBenefitEnrollment   TransactionType = "834"
	TransactionHealthCareClaim     TransactionType = "837"
	TransactionPurchaseOrder       TransactionType = "850"
	TransactionInvoice             TransactionType = "810"
	TransactionShipNotice          TransactionType = "856"
)

var transactionDescriptions = map[TransactionType]string{
	TransactionEligibilityInquiry:  "Eligibility, Coverage or Benefit Inquiry",
	TransactionEligibilityResponse: "Eligibility, Coverage or Benefit Information",
	TransactionClaimStatusInquiry:  "Health Care Claim Status Request",
	TransactionClaimStatusResponse: "Health Care Claim Status Notification",
	TransactionServicesReview:      "Health Care Services Review",
	TransactionPremiumPayment:      "Payroll Deducted and Other Group Premium Payment",
	TransactionBenefitEnrollment:   "Benefit Enrollment and Maintenance",
	TransactionHealthCareClaim:     "Health Care Claim",
	TransactionPurchaseOrder:       "Purchase Order",
	TransactionInvoice:             "Invoice",
	TransactionShipNotice:          "Ship Notice/Manifest",
}

// ClassifyTransaction maps an ST01 value to a TransactionType.
// Codes outside the enumerated set classify as TransactionUnknown.
func ClassifyTransaction(code string) TransactionType {
	t := TransactionType(code)
	if _, ok := transactionDescriptions[t]; ok {
		return t
	}
	return TransactionUnknown
}

// Description returns the transaction set name
func (t TransactionType) Description() string {
	if d, ok := transactionDescriptions[t]; ok {
		return d
	}
	return "Unknown transaction"
}

// Supported reports whether a view model exists for the transaction type
func (t TransactionType) Supported() bool {
	switch t {
	case TransactionEligibilityInquiry, TransactionEligibilityResponse,
		TransactionClaimStatusInquiry, TransactionClaimStatusResponse,
		TransactionBenefitEnrollment, TransactionHealthCareClaim:
		return true
	}
	return false
}

// FunctionalID returns the GS01 functional identifier code for the transaction type
func (t TransactionType) FunctionalID() string {
	switch t {
	case TransactionEligibilityInquiry:
		return "HS"
	case TransactionEligibilityResponse:
		return "HB"
	case TransactionClaimStatusInquiry:
		return "HR"
	case TransactionClaimStatusResponse:
		return "HN"
	case TransactionServicesReview:
		return "HI"
	case TransactionPremiumPayment:
		return "RA"
	case TransactionBenefitEnrollment:
		return "BE"
	case TransactionHealthCareClaim:
		return "HC"
	case TransactionPurchaseOrder:
		return "PO"
	case TransactionInvoice:
		return "IN"
	case TransactionShipNotice:
		return "SH"
	}
	return ""
}

// Version returns the implementation guide version (GS08/ST03) used when building
func (t TransactionType) Version() string {
	switch t {
	case TransactionEligibilityInquiry, TransactionEligibilityResponse:
		return "005010X279A1"
	case TransactionClaimStatusInquiry, TransactionClaimStatusResponse:
		return "005010X212"
	case TransactionHealthCareClaim:
		return "005010X222A1"
	case TransactionBenefitEnrollment:
		return "005010X220A1"
	case TransactionServicesReview:
		return "005010X217"
	}
	return "005010"
}
