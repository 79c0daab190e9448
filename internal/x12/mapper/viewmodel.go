// Package mapper projects a parsed X12 document into typed per-transaction
// view models and builds compliant X12 text back from them.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/internal/x12/dictionary"
)

// ErrUnsupportedTransaction is returned for transaction types without a view model
var ErrUnsupportedTransaction = errors.New("unsupported transaction type")

// ViewModel is the editable, transaction-specific form of a document.
// The set of implementations is closed to this package.
type ViewModel interface {
	TransactionType() x12.TransactionType
	Header() *Envelope
	// describe fills the derived description fields from the code dictionary
	describe()
}

// Envelope carries the interchange and functional group header values
type Envelope struct {
	SenderQualifier   string `json:"senderQualifier"`
	SenderID          string `json:"senderId"`
	ReceiverQualifier string `json:"receiverQualifier"`
	ReceiverID        string `json:"receiverId"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	ControlNumber     string `json:"controlNumber"`
	Usage             string `json:"usage"`
}

// BuildError represents a view model that cannot be serialized
type BuildError struct {
	Field   string
	Message string
	Cause   error
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// define resolves a code with the standard component delimiter
func define(tag string, pos int, value string) string {
	return dictionary.Define(tag, pos, value, x12.DefaultDelimiters.Component)
}

func described(vm ViewModel) ViewModel {
	vm.describe()
	return vm
}

func unsupported(t x12.TransactionType) error {
	if t == x12.TransactionUnknown {
		return fmt.Errorf("%w: unknown", ErrUnsupportedTransaction)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedTransaction, t)
}

// Map projects a document into the view model of its transaction type.
// Description fields are recomputed on every map; Build never reads them.
func Map(doc *x12.Document) (ViewModel, error) {
	switch doc.TransactionType {
	case x12.TransactionEligibilityInquiry:
		return described(mapEligibilityRequest(doc)), nil
	case x12.TransactionEligibilityResponse:
		return described(mapEligibilityResponse(doc)), nil
	case x12.TransactionClaimStatusInquiry:
		return described(mapClaimStatusRequest(doc)), nil
	case x12.TransactionClaimStatusResponse:
		return described(mapClaimStatusResponse(doc)), nil
	case x12.TransactionHealthCareClaim:
		return described(mapClaim(doc)), nil
	case x12.TransactionBenefitEnrollment:
		return described(mapEnrollment(doc)), nil
	case x12.TransactionServicesReview, x12.TransactionPremiumPayment,
		x12.TransactionPurchaseOrder, x12.TransactionInvoice,
		x12.TransactionShipNotice, x12.TransactionUnknown:
		return nil, unsupported(doc.TransactionType)
	}
	return nil, unsupported(doc.TransactionType)
}

// Build serializes a view model to X12 text with a fresh envelope
func Build(vm ViewModel) (string, error) {
	switch v := vm.(type) {
	case *EligibilityRequest:
		if v != nil {
			return buildEligibilityRequest(v)
		}
	case *EligibilityResponse:
		if v != nil {
			return buildEligibilityResponse(v)
		}
	case *ClaimStatusRequest:
		if v != nil {
			return buildClaimStatusRequest(v)
		}
	case *ClaimStatusResponse:
		if v != nil {
			return buildClaimStatusResponse(v)
		}
	case *Claim:
		if v != nil {
			return buildClaim(v)
		}
	case *Enrollment:
		if v != nil {
			return buildEnrollment(v)
		}
	}
	// nil interfaces and typed nil pointers both land here
	return "", &BuildError{Field: "ViewModel", Message: "view model is required"}
}

// New returns an empty view model for the transaction type
func New(t x12.TransactionType) (ViewModel, error) {
	switch t {
	case x12.TransactionEligibilityInquiry:
		return &EligibilityRequest{}, nil
	case x12.TransactionEligibilityResponse:
		return &EligibilityResponse{}, nil
	case x12.TransactionClaimStatusInquiry:
		return &ClaimStatusRequest{}, nil
	case x12.TransactionClaimStatusResponse:
		return &ClaimStatusResponse{}, nil
	case x12.TransactionHealthCareClaim:
		return &Claim{}, nil
	case x12.TransactionBenefitEnrollment:
		return &Enrollment{}, nil
	case x12.TransactionServicesReview, x12.TransactionPremiumPayment,
		x12.TransactionPurchaseOrder, x12.TransactionInvoice,
		x12.TransactionShipNotice, x12.TransactionUnknown:
		return nil, unsupported(t)
	}
	return nil, unsupported(t)
}

// Decode unmarshals a JSON view model of the given transaction type
func Decode(t x12.TransactionType, data []byte) (ViewModel, error) {
	vm, err := New(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, vm); err != nil {
		return nil, fmt.Errorf("decode %s view model: %w", t, err)
	}
	return vm, nil
}
