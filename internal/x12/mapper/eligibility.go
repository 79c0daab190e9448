// Package mapper maps and builds 270 eligibility inquiries.
package mapper

import (
	"github.com/drfirst/go-x12/internal/x12"
)

// Entity identifier qualifiers used by the eligibility transactions
const (
	entityPayer      = "PR"
	entityProvider   = "1P"
	entitySubscriber = "IL"
	entityDependent  = "03"
	entityPatient    = "QC"
)

// EligibilityRequest is the view model of a 270 eligibility inquiry
type EligibilityRequest struct {
	Envelope            Envelope `json:"envelope"`
	Reference           string   `json:"reference"`
	TransactionDate     string   `json:"transactionDate"`
	TraceNumber         string   `json:"traceNumber"`
	TraceOriginator     string   `json:"traceOriginator"`
	PayerName           string   `json:"payerName"`
	PayerID             string   `json:"payerId"`
	ProviderName        string   `json:"providerName"`
	ProviderNPI         string   `json:"providerNpi"`
	SubscriberLastName  string   `json:"subscriberLastName"`
	SubscriberFirstName string   `json:"subscriberFirstName"`
	SubscriberID        string   `json:"subscriberId"`
	SubscriberDOB       string   `json:"subscriberDob"`
	SubscriberGender    string   `json:"subscriberGender"`
	GroupNumber         string   `json:"groupNumber"`
	ServiceDate         string   `json:"serviceDate"`
	ServiceTypeCodes    []string `json:"serviceTypeCodes"`
	HasDependent        bool     `json:"hasDependent"`
	DependentLastName   string   `json:"dependentLastName"`
	DependentFirstName  string   `json:"dependentFirstName"`
	DependentDOB        string   `json:"dependentDob"`
	DependentGender     string   `json:"dependentGender"`

	// ServiceTypeDescriptions parallels ServiceTypeCodes
	ServiceTypeDescriptions []string `json:"serviceTypeDescriptions,omitempty"`
}

// Header implements ViewModel
func (vm *EligibilityRequest) Header() *Envelope {
	return &vm.Envelope
}

// TransactionType implements ViewModel
func (*EligibilityRequest) TransactionType() x12.TransactionType {
	return x12.TransactionEligibilityInquiry
}

func (vm *EligibilityRequest) describe() {
	vm.ServiceTypeDescriptions = nil
	for _, c := range vm.ServiceTypeCodes {
		vm.ServiceTypeDescriptions = append(vm.ServiceTypeDescriptions, define("EQ", 1, c))
	}
}

func mapEligibilityRequest(doc *x12.Document) *EligibilityRequest {
	sc := scopes(doc, entityDependent)
	b := mapBeginning(doc)
	payer := doc.First("NM1", entityPayer)
	provider := doc.First("NM1", entityProvider)
	sub := doc.First("NM1", entitySubscriber)
	trn := doc.First("TRN", "1")
	subDMG := firstInScope(doc, sc, scopeSubscriber, "DMG")

	vm := &EligibilityRequest{
		Envelope:            mapEnvelope(doc),
		Reference:           b.Reference,
		TransactionDate:     b.TransactionDate,
		TraceNumber:         trn.Element(2),
		TraceOriginator:     trn.Element(3),
		PayerName:           payer.Element(3),
		PayerID:             payer.Element(9),
		ProviderName:        provider.Element(3),
		ProviderNPI:         provider.Element(9),
		SubscriberLastName:  sub.Element(3),
		SubscriberFirstName: sub.Element(4),
		SubscriberID:        sub.Element(9),
		SubscriberDOB:       x12.FormatDate(subDMG.Element(2)),
		SubscriberGender:    subDMG.Element(3),
		GroupNumber:         doc.First("REF", "6P").Element(2),
		ServiceDate:         x12.FormatDate(doc.First("DTP", "291").Element(3)),
	}
	for _, eq := range doc.All("EQ") {
		vm.ServiceTypeCodes = append(vm.ServiceTypeCodes, eq.Element(1))
	}

	// dependent presence is structural, never read from a field
	if dep := doc.First("NM1", entityDependent); dep != nil {
		depDMG := firstInScope(doc, sc, scopeDependent, "DMG")
		vm.HasDependent = true
		vm.DependentLastName = dep.Element(3)
		vm.DependentFirstName = dep.Element(4)
		vm.DependentDOB = x12.FormatDate(depDMG.Element(2))
		vm.DependentGender = depDMG.Element(3)
	}
	return vm
}

func buildEligibilityRequest(vm *EligibilityRequest) (string, error) {
	w := &segmentWriter{}
	w.add("BHT", "0022", "13", vm.Reference, transactionDate(vm.TransactionDate, vm.Envelope), transactionTime(vm.Envelope))

	var hl int
	source := w.hl(&hl, 0, x12.LevelInformationSource, true)
	w.add("NM1", entityPayer, "2", vm.PayerName, "", "", "", "", "PI", vm.PayerID)
	receiver := w.hl(&hl, source, x12.LevelInformationReceiver, true)
	w.add("NM1", entityProvider, "2", vm.ProviderName, "", "", "", "", "XX", vm.ProviderNPI)
	subscriber := w.hl(&hl, receiver, x12.LevelSubscriber, vm.HasDependent)
	w.addIf(vm.TraceNumber != "", "TRN", "1", vm.TraceNumber, vm.TraceOriginator)
	w.add("NM1", entitySubscriber, "1", vm.SubscriberLastName, vm.SubscriberFirstName, "", "", "", "MI", vm.SubscriberID)
	w.addIf(vm.GroupNumber != "", "REF", "6P", vm.GroupNumber)
	w.demographics(vm.SubscriberDOB, vm.SubscriberGender)

	// inquiry details belong to the patient level
	if vm.HasDependent {
		w.hl(&hl, subscriber, x12.LevelDependent, false)
		w.add("NM1", entityDependent, "1", vm.DependentLastName, vm.DependentFirstName)
		w.demographics(vm.DependentDOB, vm.DependentGender)
	}
	w.date("291", vm.ServiceDate, "")
	for _, code := range vm.ServiceTypeCodes {
		w.add("EQ", code)
	}
	return envelope(vm.TransactionType(), vm.Envelope, w)
}
