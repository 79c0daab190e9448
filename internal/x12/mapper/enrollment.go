// Package mapper maps and builds 834 benefit enrollments.
package mapper

import (
	"github.com/drfirst/go-x12/internal/x12"
)

// Enrollment is the view model of an 834 benefit enrollment
type Enrollment struct {
	Envelope        Envelope `json:"envelope"`
	Purpose         string   `json:"purpose"`
	Reference       string   `json:"reference"`
	TransactionDate string   `json:"transactionDate"`
	Action          string   `json:"action"`
	SponsorName     string   `json:"sponsorName"`
	SponsorID       string   `json:"sponsorId"`
	PayerName       string   `json:"payerName"`
	PayerID         string   `json:"payerId"`
	Members         []Member `json:"members"`
}

// Member is one INS loop
type Member struct {
	Subscriber        bool       `json:"subscriber"`
	Relationship      string     `json:"relationship"`
	MaintenanceType   string     `json:"maintenanceType"`
	MaintenanceReason string     `json:"maintenanceReason"`
	BenefitStatus     string     `json:"benefitStatus"`
	SubscriberID      string     `json:"subscriberId"`
	GroupNumber       string     `json:"groupNumber"`
	EligibilityBegin  string     `json:"eligibilityBegin"`
	LastName          string     `json:"lastName"`
	FirstName         string     `json:"firstName"`
	SSN               string     `json:"ssn"`
	Address           string     `json:"address"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	Zip               string     `json:"zip"`
	DOB               string     `json:"dob"`
	Gender            string     `json:"gender"`
	Coverages         []Coverage `json:"coverages"`

	RelationshipDescription string `json:"relationshipDescription,omitempty"`
	MaintenanceDescription  string `json:"maintenanceDescription,omitempty"`
}

// Coverage is one HD loop of a member
type Coverage struct {
	MaintenanceType string `json:"maintenanceType"`
	InsuranceLine   string `json:"insuranceLine"`
	PlanDescription string `json:"planDescription"`
	CoverageLevel   string `json:"coverageLevel"`
	BenefitBegin    string `json:"benefitBegin"`
	BenefitEnd      string `json:"benefitEnd"`

	InsuranceLineDescription string `json:"insuranceLineDescription,omitempty"`
}

func (vm *Enrollment) describe() {
	for i := range vm.Members {
		m := &vm.Members[i]
		m.RelationshipDescription = define("INS", 2, m.Relationship)
		m.MaintenanceDescription = define("INS", 3, m.MaintenanceType)
		for j := range m.Coverages {
			c := &m.Coverages[j]
			c.InsuranceLineDescription = define("HD", 3, c.InsuranceLine)
		}
	}
}

// Header implements ViewModel
func (vm *Enrollment) Header() *Envelope {
	return &vm.Envelope
}

// TransactionType implements ViewModel
func (*Enrollment) TransactionType() x12.TransactionType {
	return x12.TransactionBenefitEnrollment
}

func mapEnrollment(doc *x12.Document) *Enrollment {
	bgn := doc.First("BGN")
	sponsor := doc.First("N1", "P5")
	payer := doc.First("N1", "IN")
	vm := &Enrollment{
		Envelope:        mapEnvelope(doc),
		Purpose:         bgn.Element(1),
		Reference:       bgn.Element(2),
		TransactionDate: x12.FormatDate(bgn.Element(3)),
		Action:          bgn.Element(8),
		SponsorName:     sponsor.Element(2),
		SponsorID:       sponsor.Element(4),
		PayerName:       payer.Element(2),
		PayerID:         payer.Element(4),
	}
	for sp := range x12.Spans(doc.Segments, x12.Tags("INS"), x12.Tags("SE")) {
		vm.Members = append(vm.Members, mapMember(sp))
	}
	return vm
}

func mapMember(sp x12.Span) Member {
	ins := sp.Trigger
	nm1 := sp.First("NM1", entitySubscriber)
	n4 := sp.First("N4")
	dmg := sp.First("DMG")
	m := Member{
		Subscriber:        ins.Element(1) == "Y",
		Relationship:      ins.Element(2),
		MaintenanceType:   ins.Element(3),
		MaintenanceReason: ins.Element(4),
		BenefitStatus:     ins.Element(5),
		SubscriberID:      sp.First("REF", "0F").Element(2),
		GroupNumber:       sp.First("REF", "1L").Element(2),
		EligibilityBegin:  x12.FormatDate(sp.First("DTP", "356").Element(3)),
		LastName:          nm1.Element(3),
		FirstName:         nm1.Element(4),
		SSN:               nm1.Element(9),
		Address:           sp.First("N3").Element(1),
		City:              n4.Element(1),
		State:             n4.Element(2),
		Zip:               n4.Element(3),
		DOB:               x12.FormatDate(dmg.Element(2)),
		Gender:            dmg.Element(3),
	}
	// coverages nest inside the member span
	for cov := range x12.Spans(sp.Members, x12.Tags("HD"), nil) {
		m.Coverages = append(m.Coverages, Coverage{
			MaintenanceType: cov.Trigger.Element(1),
			InsuranceLine:   cov.Trigger.Element(3),
			PlanDescription: cov.Trigger.Element(4),
			CoverageLevel:   cov.Trigger.Element(5),
			BenefitBegin:    x12.FormatDate(cov.First("DTP", "348").Element(3)),
			BenefitEnd:      x12.FormatDate(cov.First("DTP", "349").Element(3)),
		})
	}
	return m
}

func buildEnrollment(vm *Enrollment) (string, error) {
	w := &segmentWriter{}
	w.add("BGN", vm.Purpose, vm.Reference, transactionDate(vm.TransactionDate, vm.Envelope), transactionTime(vm.Envelope), "", "", "", vm.Action)
	w.add("N1", "P5", vm.SponsorName, "FI", vm.SponsorID)
	w.add("N1", "IN", vm.PayerName, "FI", vm.PayerID)

	for _, m := range vm.Members {
		w.add("INS", boolCode(m.Subscriber), m.Relationship, m.MaintenanceType, m.MaintenanceReason, m.BenefitStatus)
		w.addIf(m.SubscriberID != "", "REF", "0F", m.SubscriberID)
		w.addIf(m.GroupNumber != "", "REF", "1L", m.GroupNumber)
		w.date("356", m.EligibilityBegin, "")
		ssnQualifier := ""
		if m.SSN != "" {
			ssnQualifier = "34"
		}
		w.add("NM1", entitySubscriber, "1", m.LastName, m.FirstName, "", "", "", ssnQualifier, m.SSN)
		w.addIf(m.Address != "", "N3", m.Address)
		w.addIf(m.City != "" || m.State != "" || m.Zip != "", "N4", m.City, m.State, m.Zip)
		w.demographics(m.DOB, m.Gender)
		for _, c := range m.Coverages {
			w.add("HD", c.MaintenanceType, "", c.InsuranceLine, c.PlanDescription, c.CoverageLevel)
			w.date("348", c.BenefitBegin, "")
			w.date("349", c.BenefitEnd, "")
		}
	}
	return envelope(vm.TransactionType(), vm.Envelope, w)
}
