// Package mapper maps and builds 271 eligibility responses.
package mapper

import (
	"strconv"

	"github.com/drfirst/go-x12/internal/x12"
)

// EligibilityResponse is the view model of a 271 eligibility response
type EligibilityResponse struct {
	Envelope            Envelope      `json:"envelope"`
	Reference           string        `json:"reference"`
	TransactionDate     string        `json:"transactionDate"`
	TraceNumber         string        `json:"traceNumber"`
	TraceOriginator     string        `json:"traceOriginator"`
	PayerName           string        `json:"payerName"`
	PayerID             string        `json:"payerId"`
	ProviderName        string        `json:"providerName"`
	ProviderNPI         string        `json:"providerNpi"`
	SubscriberLastName  string        `json:"subscriberLastName"`
	SubscriberFirstName string        `json:"subscriberFirstName"`
	SubscriberID        string        `json:"subscriberId"`
	SubscriberDOB       string        `json:"subscriberDob"`
	SubscriberGender    string        `json:"subscriberGender"`
	GroupNumber         string        `json:"groupNumber"`
	Rejections          []Rejection   `json:"rejections"`
	HasDependent        bool          `json:"hasDependent"`
	DependentLastName   string        `json:"dependentLastName"`
	DependentFirstName  string        `json:"dependentFirstName"`
	DependentDOB        string        `json:"dependentDob"`
	DependentGender     string        `json:"dependentGender"`
	Benefits            []BenefitLine `json:"benefits"`
}

// Rejection is an AAA request validation
type Rejection struct {
	Valid    string `json:"valid"`
	Reason   string `json:"reason"`
	FollowUp string `json:"followUp"`

	ReasonDescription string `json:"reasonDescription,omitempty"`
}

// BenefitLine is one EB segment with the messages, dates and references that follow it
type BenefitLine struct {
	ForDependent          bool          `json:"forDependent"`
	Eligibility           string        `json:"eligibility"`
	CoverageLevel         string        `json:"coverageLevel"`
	ServiceType           string        `json:"serviceType"`
	InsuranceType         string        `json:"insuranceType"`
	PlanDescription       string        `json:"planDescription"`
	TimePeriod            string        `json:"timePeriod"`
	Amount                string        `json:"amount"`
	Percent               string        `json:"percent"`
	QuantityQualifier     string        `json:"quantityQualifier"`
	Quantity              string        `json:"quantity"`
	AuthorizationRequired string        `json:"authorizationRequired"`
	InNetwork             string        `json:"inNetwork"`
	Dates                 []BenefitDate `json:"dates"`
	Messages              []string      `json:"messages"`
	References            []Reference   `json:"references"`

	EligibilityDescription   string `json:"eligibilityDescription,omitempty"`
	CoverageLevelDescription string `json:"coverageLevelDescription,omitempty"`
	ServiceTypeDescription   string `json:"serviceTypeDescription,omitempty"`
}

// BenefitDate is a DTP attached to a benefit; End is set for date ranges
type BenefitDate struct {
	Qualifier string `json:"qualifier"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// Reference is a REF qualifier and value pair
type Reference struct {
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
}

func (vm *EligibilityResponse) describe() {
	for i := range vm.Rejections {
		r := &vm.Rejections[i]
		r.ReasonDescription = define("AAA", 3, r.Reason)
	}
	for i := range vm.Benefits {
		b := &vm.Benefits[i]
		b.EligibilityDescription = define("EB", 1, b.Eligibility)
		b.CoverageLevelDescription = define("EB", 2, b.CoverageLevel)
		b.ServiceTypeDescription = define("EB", 3, b.ServiceType)
	}
}

// Header implements ViewModel
func (vm *EligibilityResponse) Header() *Envelope {
	return &vm.Envelope
}

// TransactionType implements ViewModel
func (*EligibilityResponse) TransactionType() x12.TransactionType {
	return x12.TransactionEligibilityResponse
}

// Benefit spans close at the next benefit or at any loop or name boundary
var benefitBoundary = x12.Tags("EB", "HL", "NM1", "LS", "SE")

func mapEligibilityResponse(doc *x12.Document) *EligibilityResponse {
	sc := scopes(doc, entityDependent)
	b := mapBeginning(doc)
	payer := doc.First("NM1", entityPayer)
	provider := doc.First("NM1", entityProvider)
	sub := doc.First("NM1", entitySubscriber)
	trn := doc.First("TRN", "2")
	subDMG := firstInScope(doc, sc, scopeSubscriber, "DMG")

	vm := &EligibilityResponse{
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
	}
	for _, aaa := range doc.All("AAA") {
		vm.Rejections = append(vm.Rejections, Rejection{
			Valid:    aaa.Element(1),
			Reason:   aaa.Element(3),
			FollowUp: aaa.Element(4),
		})
	}
	if dep := doc.First("NM1", entityDependent); dep != nil {
		depDMG := firstInScope(doc, sc, scopeDependent, "DMG")
		vm.HasDependent = true
		vm.DependentLastName = dep.Element(3)
		vm.DependentFirstName = dep.Element(4)
		vm.DependentDOB = x12.FormatDate(depDMG.Element(2))
		vm.DependentGender = depDMG.Element(3)
	}

	for sp := range x12.Spans(doc.Segments, x12.Tags("EB"), benefitBoundary) {
		vm.Benefits = append(vm.Benefits, mapBenefit(sp, sc[sp.Start] == scopeDependent))
	}
	return vm
}

func mapBenefit(sp x12.Span, dependent bool) BenefitLine {
	eb := sp.Trigger
	line := BenefitLine{
		ForDependent:          dependent,
		Eligibility:           eb.Element(1),
		CoverageLevel:         eb.Element(2),
		ServiceType:           eb.Element(3),
		InsuranceType:         eb.Element(4),
		PlanDescription:       eb.Element(5),
		TimePeriod:            eb.Element(6),
		Amount:                eb.Element(7),
		Percent:               eb.Element(8),
		QuantityQualifier:     eb.Element(9),
		Quantity:              eb.Element(10),
		AuthorizationRequired: eb.Element(11),
		InNetwork:             eb.Element(12),
	}
	for _, m := range sp.Members {
		switch m.Tag {
		case "MSG":
			line.Messages = append(line.Messages, m.Element(1))
		case "DTP":
			start, end := dateRange(m)
			line.Dates = append(line.Dates, BenefitDate{Qualifier: m.Element(1), Start: start, End: end})
		case "REF":
			line.References = append(line.References, Reference{Qualifier: m.Element(1), Value: m.Element(2)})
		}
	}
	return line
}

func buildEligibilityResponse(vm *EligibilityResponse) (string, error) {
	if !vm.HasDependent {
		for i, b := range vm.Benefits {
			if b.ForDependent {
				return "", &BuildError{
					Field:   "Benefits[" + strconv.Itoa(i) + "].ForDependent",
					Message: "dependent benefit without a dependent",
				}
			}
		}
	}

	w := &segmentWriter{}
	w.add("BHT", "0022", "11", vm.Reference, transactionDate(vm.TransactionDate, vm.Envelope), transactionTime(vm.Envelope))

	var hl int
	source := w.hl(&hl, 0, x12.LevelInformationSource, true)
	w.add("NM1", entityPayer, "2", vm.PayerName, "", "", "", "", "PI", vm.PayerID)
	receiver := w.hl(&hl, source, x12.LevelInformationReceiver, true)
	w.add("NM1", entityProvider, "2", vm.ProviderName, "", "", "", "", "XX", vm.ProviderNPI)
	subscriber := w.hl(&hl, receiver, x12.LevelSubscriber, vm.HasDependent)
	w.addIf(vm.TraceNumber != "", "TRN", "2", vm.TraceNumber, vm.TraceOriginator)
	w.add("NM1", entitySubscriber, "1", vm.SubscriberLastName, vm.SubscriberFirstName, "", "", "", "MI", vm.SubscriberID)
	w.addIf(vm.GroupNumber != "", "REF", "6P", vm.GroupNumber)
	for _, r := range vm.Rejections {
		w.add("AAA", r.Valid, "", r.Reason, r.FollowUp)
	}
	w.demographics(vm.SubscriberDOB, vm.SubscriberGender)
	writeBenefits(w, vm.Benefits, false)

	if vm.HasDependent {
		w.hl(&hl, subscriber, x12.LevelDependent, false)
		w.add("NM1", entityDependent, "1", vm.DependentLastName, vm.DependentFirstName)
		w.demographics(vm.DependentDOB, vm.DependentGender)
		writeBenefits(w, vm.Benefits, true)
	}
	return envelope(vm.TransactionType(), vm.Envelope, w)
}

func writeBenefits(w *segmentWriter, benefits []BenefitLine, dependent bool) {
	for _, b := range benefits {
		if b.ForDependent != dependent {
			continue
		}
		w.add("EB", b.Eligibility, b.CoverageLevel, b.ServiceType, b.InsuranceType,
			b.PlanDescription, b.TimePeriod, b.Amount, b.Percent,
			b.QuantityQualifier, b.Quantity, b.AuthorizationRequired, b.InNetwork)
		for _, r := range b.References {
			w.add("REF", r.Qualifier, r.Value)
		}
		for _, d := range b.Dates {
			w.date(d.Qualifier, d.Start, d.End)
		}
		for _, m := range b.Messages {
			w.add("MSG", m)
		}
	}
}
