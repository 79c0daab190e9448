// Package mapper maps and builds 837 professional claims.
package mapper

import (
	"strconv"

	"github.com/drfirst/go-x12/internal/x12"
	"github.com/shopspring/decimal"
)

// Entity identifier qualifiers used by the professional claim
const (
	entitySubmitter       = "41"
	entityReceiver        = "40"
	entityBillingProvider = "85"
	relationshipSelf      = "18"
	maxDiagnosesPerHI     = 12
)

// Claim is the view model of an 837 professional claim
type Claim struct {
	Envelope               Envelope `json:"envelope"`
	Reference              string   `json:"reference"`
	TransactionDate        string   `json:"transactionDate"`
	SubmitterName          string   `json:"submitterName"`
	SubmitterID            string   `json:"submitterId"`
	SubmitterContactName   string   `json:"submitterContactName"`
	SubmitterPhone         string   `json:"submitterPhone"`
	ReceiverName           string   `json:"receiverName"`
	ReceiverID             string   `json:"receiverId"`
	BillingProviderName    string   `json:"billingProviderName"`
	BillingProviderNPI     string   `json:"billingProviderNpi"`
	BillingProviderAddress string   `json:"billingProviderAddress"`
	BillingProviderCity    string   `json:"billingProviderCity"`
	BillingProviderState   string   `json:"billingProviderState"`
	BillingProviderZip     string   `json:"billingProviderZip"`
	BillingProviderTaxID   string   `json:"billingProviderTaxId"`
	PayerResponsibility    string   `json:"payerResponsibility"`
	GroupNumber            string   `json:"groupNumber"`
	ClaimFilingCode        string   `json:"claimFilingCode"`
	SubscriberLastName     string   `json:"subscriberLastName"`
	SubscriberFirstName    string   `json:"subscriberFirstName"`
	SubscriberID           string   `json:"subscriberId"`
	SubscriberDOB          string   `json:"subscriberDob"`
	SubscriberGender       string   `json:"subscriberGender"`
	PayerName              string   `json:"payerName"`
	PayerID                string   `json:"payerId"`
	HasDependent           bool     `json:"hasDependent"`
	PatientRelationship    string   `json:"patientRelationship"`
	DependentLastName      string   `json:"dependentLastName"`
	DependentFirstName     string   `json:"dependentFirstName"`
	DependentDOB           string   `json:"dependentDob"`
	DependentGender        string   `json:"dependentGender"`
	ClaimID                string   `json:"claimId"`
	// TotalCharge is derived from the service lines when empty, so a
	// rebuilt claim maps back with the computed total
	TotalCharge          string        `json:"totalCharge"`
	PlaceOfService       string        `json:"placeOfService"`
	FrequencyCode        string        `json:"frequencyCode"`
	ProviderSignature    string        `json:"providerSignature"`
	Assignment           string        `json:"assignment"`
	BenefitsAssignment   string        `json:"benefitsAssignment"`
	ReleaseOfInformation string        `json:"releaseOfInformation"`
	Diagnoses            []string      `json:"diagnoses"`
	ServiceLines         []ServiceLine `json:"serviceLines"`

	PlaceOfServiceDescription string `json:"placeOfServiceDescription,omitempty"`
}

// ServiceLine is one LX loop of a professional claim
type ServiceLine struct {
	ProcedureCode     string   `json:"procedureCode"`
	Modifiers         []string `json:"modifiers"`
	Charge            string   `json:"charge"`
	Units             string   `json:"units"`
	DiagnosisPointers []string `json:"diagnosisPointers"`
	ServiceDate       string   `json:"serviceDate"`
	LineControlNumber string   `json:"lineControlNumber"`
}

// Header implements ViewModel
func (vm *Claim) Header() *Envelope {
	return &vm.Envelope
}

// TransactionType implements ViewModel
func (*Claim) TransactionType() x12.TransactionType {
	return x12.TransactionHealthCareClaim
}

func (vm *Claim) describe() {
	vm.PlaceOfServiceDescription = define("SV1", 5, vm.PlaceOfService)
}

// ChargeTotal sums the service line charges. Unparseable charges are
// reported as an error rather than silently dropped.
func (vm *Claim) ChargeTotal() (decimal.Decimal, error) {
	total := decimal.Zero
	for i, line := range vm.ServiceLines {
		if line.Charge == "" {
			continue
		}
		d, err := decimal.NewFromString(line.Charge)
		if err != nil {
			return decimal.Zero, &BuildError{Field: "ServiceLines[" + strconv.Itoa(i) + "].Charge", Message: "invalid amount", Cause: err}
		}
		total = total.Add(d)
	}
	return total, nil
}

// Service line spans close at the next line, claim or loop boundary
var serviceLineBoundary = x12.Tags("LX", "CLM", "HL", "SE")

func mapClaim(doc *x12.Document) *Claim {
	sc := scopes(doc, entityPatient)
	b := mapBeginning(doc)
	submitter := doc.First("NM1", entitySubmitter)
	per := doc.First("PER", "IC")
	receiver := doc.First("NM1", entityReceiver)
	sbr := doc.First("SBR")
	sub := doc.First("NM1", entitySubscriber)
	subDMG := firstInScope(doc, sc, scopeSubscriber, "DMG")
	payer := doc.First("NM1", entityPayer)
	clm := doc.First("CLM")

	vm := &Claim{
		Envelope:             mapEnvelope(doc),
		Reference:            b.Reference,
		TransactionDate:      b.TransactionDate,
		SubmitterName:        submitter.Element(3),
		SubmitterID:          submitter.Element(9),
		SubmitterContactName: per.Element(2),
		SubmitterPhone:       per.Element(4),
		ReceiverName:         receiver.Element(3),
		ReceiverID:           receiver.Element(9),
		PayerResponsibility:  sbr.Element(1),
		GroupNumber:          sbr.Element(3),
		ClaimFilingCode:      sbr.Element(9),
		SubscriberLastName:   sub.Element(3),
		SubscriberFirstName:  sub.Element(4),
		SubscriberID:         sub.Element(9),
		SubscriberDOB:        x12.FormatDate(subDMG.Element(2)),
		SubscriberGender:     subDMG.Element(3),
		PayerName:            payer.Element(3),
		PayerID:              payer.Element(9),
		ClaimID:              clm.Element(1),
		TotalCharge:          clm.Element(2),
		PlaceOfService:       clm.Component(5, 1),
		FrequencyCode:        clm.Component(5, 3),
		ProviderSignature:    clm.Element(6),
		Assignment:           clm.Element(7),
		BenefitsAssignment:   clm.Element(8),
		ReleaseOfInformation: clm.Element(9),
	}

	for sp := range x12.Spans(doc.Segments, x12.Qualified("NM1", entityBillingProvider), x12.Tags("NM1", "HL", "SE")) {
		vm.BillingProviderName = sp.Trigger.Element(3)
		vm.BillingProviderNPI = sp.Trigger.Element(9)
		vm.BillingProviderAddress = sp.First("N3").Element(1)
		n4 := sp.First("N4")
		vm.BillingProviderCity = n4.Element(1)
		vm.BillingProviderState = n4.Element(2)
		vm.BillingProviderZip = n4.Element(3)
		vm.BillingProviderTaxID = sp.First("REF", "EI").Element(2)
		break
	}

	if dep := doc.First("NM1", entityPatient); dep != nil {
		depDMG := firstInScope(doc, sc, scopeDependent, "DMG")
		vm.HasDependent = true
		vm.PatientRelationship = doc.First("PAT").Element(1)
		vm.DependentLastName = dep.Element(3)
		vm.DependentFirstName = dep.Element(4)
		vm.DependentDOB = x12.FormatDate(depDMG.Element(2))
		vm.DependentGender = depDMG.Element(3)
	}

	for _, hi := range doc.All("HI") {
		for _, e := range hi.Elements {
			if code := hi.Component(e.Index, 2); code != "" {
				vm.Diagnoses = append(vm.Diagnoses, code)
			}
		}
	}

	for sp := range x12.Spans(doc.Segments, x12.Tags("LX"), serviceLineBoundary) {
		vm.ServiceLines = append(vm.ServiceLines, mapServiceLine(sp))
	}
	return vm
}

func mapServiceLine(sp x12.Span) ServiceLine {
	sv1 := sp.First("SV1")
	line := ServiceLine{
		ProcedureCode:     sv1.Component(1, 2),
		Charge:            sv1.Element(2),
		Units:             sv1.Element(4),
		ServiceDate:       x12.FormatDate(sp.First("DTP", "472").Element(3)),
		LineControlNumber: sp.First("REF", "6R").Element(2),
	}
	for i := 3; i <= 6; i++ {
		if m := sv1.Component(1, i); m != "" {
			line.Modifiers = append(line.Modifiers, m)
		}
	}
	for i := 1; i <= 4; i++ {
		if p := sv1.Component(7, i); p != "" {
			line.DiagnosisPointers = append(line.DiagnosisPointers, p)
		}
	}
	return line
}

func buildClaim(vm *Claim) (string, error) {
	total := vm.TotalCharge
	if total == "" {
		sum, err := vm.ChargeTotal()
		if err != nil {
			return "", err
		}
		total = sum.String()
	}

	w := &segmentWriter{}
	w.add("BHT", "0019", "00", vm.Reference, transactionDate(vm.TransactionDate, vm.Envelope), transactionTime(vm.Envelope), "CH")
	w.add("NM1", entitySubmitter, "2", vm.SubmitterName, "", "", "", "", "46", vm.SubmitterID)
	w.addIf(vm.SubmitterContactName != "" || vm.SubmitterPhone != "", "PER", "IC", vm.SubmitterContactName, "TE", vm.SubmitterPhone)
	w.add("NM1", entityReceiver, "2", vm.ReceiverName, "", "", "", "", "46", vm.ReceiverID)

	var hl int
	billing := w.hl(&hl, 0, x12.LevelBillingProvider, true)
	w.add("NM1", entityBillingProvider, "2", vm.BillingProviderName, "", "", "", "", "XX", vm.BillingProviderNPI)
	w.addIf(vm.BillingProviderAddress != "", "N3", vm.BillingProviderAddress)
	w.addIf(vm.BillingProviderCity != "" || vm.BillingProviderState != "" || vm.BillingProviderZip != "",
		"N4", vm.BillingProviderCity, vm.BillingProviderState, vm.BillingProviderZip)
	w.addIf(vm.BillingProviderTaxID != "", "REF", "EI", vm.BillingProviderTaxID)

	subscriber := w.hl(&hl, billing, x12.LevelSubscriber, vm.HasDependent)
	relationship := relationshipSelf
	if vm.HasDependent {
		relationship = ""
	}
	w.add("SBR", orDefault(vm.PayerResponsibility, "P"), relationship, vm.GroupNumber, "", "", "", "", "", vm.ClaimFilingCode)
	w.add("NM1", entitySubscriber, "1", vm.SubscriberLastName, vm.SubscriberFirstName, "", "", "", "MI", vm.SubscriberID)
	w.demographics(vm.SubscriberDOB, vm.SubscriberGender)
	w.add("NM1", entityPayer, "2", vm.PayerName, "", "", "", "", "PI", vm.PayerID)

	if vm.HasDependent {
		w.hl(&hl, subscriber, x12.LevelDependent, false)
		w.add("PAT", vm.PatientRelationship)
		w.add("NM1", entityPatient, "1", vm.DependentLastName, vm.DependentFirstName)
		w.demographics(vm.DependentDOB, vm.DependentGender)
	}

	w.add("CLM", vm.ClaimID, total, "", "",
		composite(vm.PlaceOfService, "B", vm.FrequencyCode),
		vm.ProviderSignature, vm.Assignment, vm.BenefitsAssignment, vm.ReleaseOfInformation)
	writeDiagnoses(w, vm.Diagnoses)

	for i, line := range vm.ServiceLines {
		w.add("LX", strconv.Itoa(i+1))
		proc := append([]string{"HC", line.ProcedureCode}, line.Modifiers...)
		w.add("SV1", composite(proc...), line.Charge, "UN", line.Units, "", "", composite(line.DiagnosisPointers...))
		w.date("472", line.ServiceDate, "")
		w.addIf(line.LineControlNumber != "", "REF", "6R", line.LineControlNumber)
	}
	return envelope(vm.TransactionType(), vm.Envelope, w)
}

// writeDiagnoses emits HI segments; the first code is the principal diagnosis
func writeDiagnoses(w *segmentWriter, codes []string) {
	for start := 0; start < len(codes); start += maxDiagnosesPerHI {
		end := min(start+maxDiagnosesPerHI, len(codes))
		elems := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			qual := "ABF"
			if i == 0 {
				qual = "ABK"
			}
			elems = append(elems, composite(qual, codes[i]))
		}
		w.add("HI", elems...)
	}
}
