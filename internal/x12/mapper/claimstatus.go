// Package mapper maps and builds 276 and 277 claim status transactions.
package mapper

import (
	"github.com/drfirst/go-x12/internal/x12"
)

const entityInformationReceiver = "41"

// StatusParties are the hierarchical parties shared by 276 and 277
type StatusParties struct {
	PayerName           string `json:"payerName"`
	PayerID             string `json:"payerId"`
	ReceiverName        string `json:"receiverName"`
	ReceiverID          string `json:"receiverId"`
	ProviderName        string `json:"providerName"`
	ProviderNPI         string `json:"providerNpi"`
	SubscriberLastName  string `json:"subscriberLastName"`
	SubscriberFirstName string `json:"subscriberFirstName"`
	SubscriberID        string `json:"subscriberId"`
	HasDependent        bool   `json:"hasDependent"`
	DependentLastName   string `json:"dependentLastName"`
	DependentFirstName  string `json:"dependentFirstName"`
}

// ClaimStatusRequest is the view model of a 276 claim status inquiry
type ClaimStatusRequest struct {
	Envelope        Envelope `json:"envelope"`
	Reference       string   `json:"reference"`
	TransactionDate string   `json:"transactionDate"`
	StatusParties
	SubscriberDOB    string         `json:"subscriberDob"`
	SubscriberGender string         `json:"subscriberGender"`
	DependentDOB     string         `json:"dependentDob"`
	DependentGender  string         `json:"dependentGender"`
	Claims           []ClaimInquiry `json:"claims"`
}

// ClaimInquiry identifies one claim whose status is requested
type ClaimInquiry struct {
	TraceNumber      string `json:"traceNumber"`
	PayerClaimNumber string `json:"payerClaimNumber"`
	PatientAccount   string `json:"patientAccount"`
	ChargeAmount     string `json:"chargeAmount"`
	ServiceDateFrom  string `json:"serviceDateFrom"`
	ServiceDateTo    string `json:"serviceDateTo"`
}

// ClaimStatusResponse is the view model of a 277 claim status notification
type ClaimStatusResponse struct {
	Envelope        Envelope `json:"envelope"`
	Reference       string   `json:"reference"`
	TransactionDate string   `json:"transactionDate"`
	StatusParties
	Claims []ClaimStatus `json:"claims"`
}

// ClaimStatus is one claim with its reported statuses
type ClaimStatus struct {
	TraceNumber      string       `json:"traceNumber"`
	PayerClaimNumber string       `json:"payerClaimNumber"`
	PatientAccount   string       `json:"patientAccount"`
	ServiceDateFrom  string       `json:"serviceDateFrom"`
	ServiceDateTo    string       `json:"serviceDateTo"`
	Statuses         []StatusInfo `json:"statuses"`
}

// StatusInfo is one STC segment. Category, Status and Entity are the
// components of STC01.
type StatusInfo struct {
	Category      string `json:"category"`
	Status        string `json:"status"`
	Entity        string `json:"entity"`
	EffectiveDate string `json:"effectiveDate"`
	ChargeAmount  string `json:"chargeAmount"`
	PaidAmount    string `json:"paidAmount"`

	// StatusDescription resolves each STC01 component independently
	StatusDescription   string `json:"statusDescription,omitempty"`
	CategoryDescription string `json:"categoryDescription,omitempty"`
}

// 276 carries no coded values worth describing
func (*ClaimStatusRequest) describe() {}

func (vm *ClaimStatusResponse) describe() {
	for i := range vm.Claims {
		for j := range vm.Claims[i].Statuses {
			s := &vm.Claims[i].Statuses[j]
			s.StatusDescription = define("STC", 1, composite(s.Category, s.Status, s.Entity))
			s.CategoryDescription = define("STC", 1, s.Category)
		}
	}
}

// Header implements ViewModel
func (vm *ClaimStatusRequest) Header() *Envelope {
	return &vm.Envelope
}

// Header implements ViewModel
func (vm *ClaimStatusResponse) Header() *Envelope {
	return &vm.Envelope
}

// TransactionType implements ViewModel
func (*ClaimStatusRequest) TransactionType() x12.TransactionType {
	return x12.TransactionClaimStatusInquiry
}

// TransactionType implements ViewModel
func (*ClaimStatusResponse) TransactionType() x12.TransactionType {
	return x12.TransactionClaimStatusResponse
}

// Claim spans run from a TRN to the next TRN or loop boundary
var claimStatusBoundary = x12.Tags("TRN", "HL", "SE")

func mapStatusParties(doc *x12.Document) StatusParties {
	payer := doc.First("NM1", entityPayer)
	receiver := doc.First("NM1", entityInformationReceiver)
	provider := doc.First("NM1", entityProvider)
	sub := doc.First("NM1", entitySubscriber)
	p := StatusParties{
		PayerName:           payer.Element(3),
		PayerID:             payer.Element(9),
		ReceiverName:        receiver.Element(3),
		ReceiverID:          receiver.Element(9),
		ProviderName:        provider.Element(3),
		ProviderNPI:         provider.Element(9),
		SubscriberLastName:  sub.Element(3),
		SubscriberFirstName: sub.Element(4),
		SubscriberID:        sub.Element(9),
	}
	if dep := doc.First("NM1", entityPatient); dep != nil {
		p.HasDependent = true
		p.DependentLastName = dep.Element(3)
		p.DependentFirstName = dep.Element(4)
	}
	return p
}

func mapClaimStatusRequest(doc *x12.Document) *ClaimStatusRequest {
	sc := scopes(doc, entityPatient)
	b := mapBeginning(doc)
	vm := &ClaimStatusRequest{
		Envelope:        mapEnvelope(doc),
		Reference:       b.Reference,
		TransactionDate: b.TransactionDate,
		StatusParties:   mapStatusParties(doc),
	}
	subDMG := firstInScope(doc, sc, scopeSubscriber, "DMG")
	vm.SubscriberDOB = x12.FormatDate(subDMG.Element(2))
	vm.SubscriberGender = subDMG.Element(3)
	if vm.HasDependent {
		depDMG := firstInScope(doc, sc, scopeDependent, "DMG")
		vm.DependentDOB = x12.FormatDate(depDMG.Element(2))
		vm.DependentGender = depDMG.Element(3)
	}

	for sp := range x12.Spans(doc.Segments, x12.Tags("TRN"), claimStatusBoundary) {
		from, to := dateRange(sp.First("DTP", "472"))
		vm.Claims = append(vm.Claims, ClaimInquiry{
			TraceNumber:      sp.Trigger.Element(2),
			PayerClaimNumber: sp.First("REF", "1K").Element(2),
			PatientAccount:   sp.First("REF", "EJ").Element(2),
			ChargeAmount:     sp.First("AMT", "T3").Element(2),
			ServiceDateFrom:  from,
			ServiceDateTo:    to,
		})
	}
	return vm
}

func mapClaimStatusResponse(doc *x12.Document) *ClaimStatusResponse {
	b := mapBeginning(doc)
	vm := &ClaimStatusResponse{
		Envelope:        mapEnvelope(doc),
		Reference:       b.Reference,
		TransactionDate: b.TransactionDate,
		StatusParties:   mapStatusParties(doc),
	}
	for sp := range x12.Spans(doc.Segments, x12.Tags("TRN"), claimStatusBoundary) {
		from, to := dateRange(sp.First("DTP", "472"))
		claim := ClaimStatus{
			TraceNumber:      sp.Trigger.Element(2),
			PayerClaimNumber: sp.First("REF", "1K").Element(2),
			PatientAccount:   sp.First("REF", "EJ").Element(2),
			ServiceDateFrom:  from,
			ServiceDateTo:    to,
		}
		for _, stc := range sp.All("STC") {
			claim.Statuses = append(claim.Statuses, StatusInfo{
				Category:      stc.Component(1, 1),
				Status:        stc.Component(1, 2),
				Entity:        stc.Component(1, 3),
				EffectiveDate: x12.FormatDate(stc.Element(2)),
				ChargeAmount:  stc.Element(4),
				PaidAmount:    stc.Element(5),
			})
		}
		vm.Claims = append(vm.Claims, claim)
	}
	return vm
}

// writeStatusHierarchy emits the payer, receiver and provider levels and
// returns the provider level id
func writeStatusHierarchy(w *segmentWriter, hl *int, p StatusParties) int {
	source := w.hl(hl, 0, x12.LevelInformationSource, true)
	w.add("NM1", entityPayer, "2", p.PayerName, "", "", "", "", "PI", p.PayerID)
	receiver := w.hl(hl, source, x12.LevelInformationReceiver, true)
	w.add("NM1", entityInformationReceiver, "2", p.ReceiverName, "", "", "", "", "46", p.ReceiverID)
	provider := w.hl(hl, receiver, x12.LevelServiceProvider, true)
	w.add("NM1", entityProvider, "2", p.ProviderName, "", "", "", "", "XX", p.ProviderNPI)
	return provider
}

func buildClaimStatusRequest(vm *ClaimStatusRequest) (string, error) {
	w := &segmentWriter{}
	w.add("BHT", "0010", "13", vm.Reference, transactionDate(vm.TransactionDate, vm.Envelope), transactionTime(vm.Envelope))

	var hl int
	provider := writeStatusHierarchy(w, &hl, vm.StatusParties)
	subscriber := w.hl(&hl, provider, x12.LevelSubscriber, vm.HasDependent)
	w.demographics(vm.SubscriberDOB, vm.SubscriberGender)
	w.add("NM1", entitySubscriber, "1", vm.SubscriberLastName, vm.SubscriberFirstName, "", "", "", "MI", vm.SubscriberID)
	if vm.HasDependent {
		w.hl(&hl, subscriber, x12.LevelDependent, false)
		w.demographics(vm.DependentDOB, vm.DependentGender)
		w.add("NM1", entityPatient, "1", vm.DependentLastName, vm.DependentFirstName)
	}
	// claims belong to the patient level
	for _, c := range vm.Claims {
		w.add("TRN", "1", c.TraceNumber)
		w.addIf(c.PayerClaimNumber != "", "REF", "1K", c.PayerClaimNumber)
		w.addIf(c.PatientAccount != "", "REF", "EJ", c.PatientAccount)
		w.addIf(c.ChargeAmount != "", "AMT", "T3", c.ChargeAmount)
		w.date("472", c.ServiceDateFrom, c.ServiceDateTo)
	}
	return envelope(vm.TransactionType(), vm.Envelope, w)
}

func buildClaimStatusResponse(vm *ClaimStatusResponse) (string, error) {
	w := &segmentWriter{}
	w.add("BHT", "0010", "08", vm.Reference, transactionDate(vm.TransactionDate, vm.Envelope), transactionTime(vm.Envelope), "DG")

	var hl int
	provider := writeStatusHierarchy(w, &hl, vm.StatusParties)
	subscriber := w.hl(&hl, provider, x12.LevelSubscriber, vm.HasDependent)
	w.add("NM1", entitySubscriber, "1", vm.SubscriberLastName, vm.SubscriberFirstName, "", "", "", "MI", vm.SubscriberID)
	if vm.HasDependent {
		w.hl(&hl, subscriber, x12.LevelDependent, false)
		w.add("NM1", entityPatient, "1", vm.DependentLastName, vm.DependentFirstName)
	}
	for _, c := range vm.Claims {
		w.add("TRN", "2", c.TraceNumber)
		for _, s := range c.Statuses {
			w.add("STC", composite(s.Category, s.Status, s.Entity), x12.CompactDate(s.EffectiveDate), "", s.ChargeAmount, s.PaidAmount)
		}
		w.addIf(c.PayerClaimNumber != "", "REF", "1K", c.PayerClaimNumber)
		w.addIf(c.PatientAccount != "", "REF", "EJ", c.PatientAccount)
		w.date("472", c.ServiceDateFrom, c.ServiceDateTo)
	}
	return envelope(vm.TransactionType(), vm.Envelope, w)
}
