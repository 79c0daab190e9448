// Package dictionary holds the element definitions keyed by tag and position.
package dictionary

import "github.com/drfirst/go-x12/internal/x12"

var segmentNames = map[string]string{
	"AAA": "Request Validation",
	"AMT": "Monetary Amount Information",
	"BGN": "Beginning Segment",
	"BHT": "Beginning of Hierarchical Transaction",
	"CLM": "Health Claim",
	"DMG": "Demographic Information",
	"DTP": "Date or Time or Period",
	"EB":  "Eligibility or Benefit Information",
	"EQ":  "Eligibility or Benefit Inquiry",
	"GE":  "Functional Group Trailer",
	"GS":  "Functional Group Header",
	"HD":  "Health Coverage",
	"HI":  "Health Care Information Codes",
	"HL":  "Hierarchical Level",
	"IEA": "Interchange Control Trailer",
	"INS": "Insured Benefit",
	"ISA": "Interchange Control Header",
	"LE":  "Loop Trailer",
	"LS":  "Loop Header",
	"LX":  "Transaction Set Line Number",
	"MSG": "Message Text",
	"N1":  "Party Identification",
	"N3":  "Party Location",
	"N4":  "Geographic Location",
	"NM1": "Individual or Organizational Name",
	"PAT": "Patient Information",
	"PER": "Administrative Communications Contact",
	"PRV": "Provider Information",
	"QTY": "Quantity Information",
	"REF": "Reference Information",
	"SBR": "Subscriber Information",
	"SE":  "Transaction Set Trailer",
	"ST":  "Transaction Set Header",
	"STC": "Status Information",
	"SV1": "Professional Service",
	"TRN": "Trace",
}

var transactionSetCodes = func() map[string]string {
	codes := make(map[string]string)
	for _, t := range []x12.TransactionType{
		x12.TransactionEligibilityInquiry, x12.TransactionEligibilityResponse,
		x12.TransactionClaimStatusInquiry, x12.TransactionClaimStatusResponse,
		x12.TransactionServicesReview, x12.TransactionPremiumPayment,
		x12.TransactionBenefitEnrollment, x12.TransactionHealthCareClaim,
		x12.TransactionPurchaseOrder, x12.TransactionInvoice, x12.TransactionShipNotice,
	} {
		codes[string(t)] = t.Description()
	}
	return codes
}()

func text(name string) ElementDef     { return ElementDef{Name: name, Kind: KindText} }
func ident(name string) ElementDef    { return ElementDef{Name: name, Kind: KindIdentifier} }
func date(name string) ElementDef     { return ElementDef{Name: name, Kind: KindDate} }
func clock(name string) ElementDef    { return ElementDef{Name: name, Kind: KindTime} }
func amount(name string) ElementDef   { return ElementDef{Name: name, Kind: KindAmount} }
func quantity(name string) ElementDef { return ElementDef{Name: name, Kind: KindQuantity} }
func percent(name string) ElementDef  { return ElementDef{Name: name, Kind: KindAmount} }
func composite(name string, parts ...ElementDef) ElementDef {
	return ElementDef{Name: name, Kind: KindComposite, Components: parts}
}
func coded(name string, codes map[string]string) ElementDef {
	return ElementDef{Name: name, Kind: KindCode, Codes: codes}
}

var procedureComposite = composite("Composite Medical Procedure Identifier",
	coded("Product/Service ID Qualifier", procedureQualifiers),
	ident("Procedure Code"),
	ident("Procedure Modifier 1"),
	ident("Procedure Modifier 2"),
	ident("Procedure Modifier 3"),
	ident("Procedure Modifier 4"),
	text("Description"),
)

var diagnosisComposite = composite("Health Care Code Information",
	coded("Diagnosis Type Code", diagnosisQualifiers),
	ident("Diagnosis Code"),
)

var statusComposite = composite("Health Care Claim Status",
	coded("Category", claimStatusCategoryCodes),
	coded("Status", claimStatusCodes),
	coded("Entity", entityIdentifierCodes),
)

// elements maps segment tag and 1-based element position to its definition
var elements = map[string]map[int]ElementDef{
	"ISA": {
		1:  coded("Authorization Information Qualifier", authorizationQualifiers),
		2:  text("Authorization Information"),
		3:  coded("Security Information Qualifier", securityQualifiers),
		4:  text("Security Information"),
		5:  coded("Interchange ID Qualifier", interchangeIDQualifiers),
		6:  ident("Interchange Sender ID"),
		7:  coded("Interchange ID Qualifier", interchangeIDQualifiers),
		8:  ident("Interchange Receiver ID"),
		9:  text("Interchange Date"),
		10: clock("Interchange Time"),
		11: text("Repetition Separator"),
		12: text("Interchange Control Version Number"),
		13: ident("Interchange Control Number"),
		14: coded("Acknowledgment Requested", acknowledgmentCodes),
		15: coded("Interchange Usage Indicator", usageIndicators),
		16: text("Component Element Separator"),
	},
	"IEA": {
		1: quantity("Number of Included Functional Groups"),
		2: ident("Interchange Control Number"),
	},
	"GS": {
		1: coded("Functional Identifier Code", functionalIdentifierCodes),
		2: ident("Application Sender's Code"),
		3: ident("Application Receiver's Code"),
		4: date("Date"),
		5: clock("Time"),
		6: ident("Group Control Number"),
		7: coded("Responsible Agency Code", agencyCodes),
		8: text("Version / Release / Industry Identifier Code"),
	},
	"GE": {
		1: quantity("Number of Transaction Sets Included"),
		2: ident("Group Control Number"),
	},
	"ST": {
		1: coded("Transaction Set Identifier Code", transactionSetCodes),
		2: ident("Transaction Set Control Number"),
		3: text("Implementation Convention Reference"),
	},
	"SE": {
		1: quantity("Number of Included Segments"),
		2: ident("Transaction Set Control Number"),
	},
	"BHT": {
		1: coded("Hierarchical Structure Code", hierarchicalStructureCodes),
		2: coded("Transaction Set Purpose Code", purposeCodes),
		3: ident("Reference Identification"),
		4: date("Date"),
		5: clock("Time"),
		6: coded("Transaction Type Code", claimTransactionTypeCodes),
	},
	"BGN": {
		1: coded("Transaction Set Purpose Code", purposeCodes),
		2: ident("Reference Identification"),
		3: date("Date"),
		4: clock("Time"),
		5: text("Time Code"),
		8: coded("Action Code", enrollmentActionCodes),
	},
	"HL": {
		1: ident("Hierarchical ID Number"),
		2: ident("Hierarchical Parent ID Number"),
		3: coded("Hierarchical Level Code", hierarchicalLevelCodes),
		4: coded("Hierarchical Child Code", hierarchicalChildCodes),
	},
	"NM1": {
		1: coded("Entity Identifier Code", entityIdentifierCodes),
		2: coded("Entity Type Qualifier", entityTypeCodes),
		3: text("Name Last or Organization Name"),
		4: text("Name First"),
		5: text("Name Middle"),
		6: text("Name Prefix"),
		7: text("Name Suffix"),
		8: coded("Identification Code Qualifier", identificationQualifiers),
		9: ident("Identification Code"),
	},
	"N1": {
		1: coded("Entity Identifier Code", entityIdentifierCodes),
		2: text("Name"),
		3: coded("Identification Code Qualifier", identificationQualifiers),
		4: ident("Identification Code"),
	},
	"N3": {
		1: text("Address Information"),
		2: text("Address Information"),
	},
	"N4": {
		1: text("City Name"),
		2: text("State or Province Code"),
		3: text("Postal Code"),
		4: text("Country Code"),
	},
	"PER": {
		1: coded("Contact Function Code", contactFunctionCodes),
		2: text("Name"),
		3: coded("Communication Number Qualifier", communicationQualifiers),
		4: text("Communication Number"),
		5: coded("Communication Number Qualifier", communicationQualifiers),
		6: text("Communication Number"),
	},
	"PRV": {
		1: coded("Provider Code", providerCodes),
		2: coded("Reference Identification Qualifier", taxonomyQualifiers),
		3: ident("Provider Taxonomy Code"),
	},
	"REF": {
		1: coded("Reference Identification Qualifier", referenceQualifiers),
		2: ident("Reference Identification"),
		3: text("Description"),
	},
	"DMG": {
		1: coded("Date Time Period Format Qualifier", dateFormatQualifiers),
		2: date("Date of Birth"),
		3: coded("Gender Code", genderCodes),
	},
	"DTP": {
		1: coded("Date/Time Qualifier", dateQualifierCodes),
		2: coded("Date Time Period Format Qualifier", dateFormatQualifiers),
		3: date("Date Time Period"),
	},
	"TRN": {
		1: coded("Trace Type Code", traceTypeCodes),
		2: ident("Reference Identification"),
		3: ident("Originating Company Identifier"),
		4: ident("Reference Identification"),
	},
	"EQ": {
		1: coded("Service Type Code", serviceTypeCodes),
		2: procedureComposite,
		3: coded("Coverage Level Code", coverageLevelCodes),
	},
	"EB": {
		1:  coded("Eligibility or Benefit Information Code", eligibilityCodes),
		2:  coded("Coverage Level Code", coverageLevelCodes),
		3:  coded("Service Type Code", serviceTypeCodes),
		4:  coded("Insurance Type Code", insuranceTypeCodes),
		5:  text("Plan Coverage Description"),
		6:  coded("Time Period Qualifier", timePeriodCodes),
		7:  amount("Monetary Amount"),
		8:  percent("Percentage as Decimal"),
		9:  coded("Quantity Qualifier", quantityQualifiers),
		10: quantity("Quantity"),
		11: coded("Authorization or Certification Indicator", yesNoCodes),
		12: coded("In Plan Network Indicator", yesNoCodes),
		13: procedureComposite,
	},
	"MSG": {
		1: text("Free-form Message Text"),
	},
	"AAA": {
		1: coded("Valid Request Indicator", yesNoCodes),
		3: coded("Reject Reason Code", rejectReasonCodes),
		4: coded("Follow-up Action Code", followUpActionCodes),
	},
	"LS": {
		1: ident("Loop Identifier Code"),
	},
	"LE": {
		1: ident("Loop Identifier Code"),
	},
	"AMT": {
		1: coded("Amount Qualifier Code", amountQualifiers),
		2: amount("Monetary Amount"),
	},
	"STC": {
		1:  statusComposite,
		2:  date("Status Information Effective Date"),
		3:  text("Action Code"),
		4:  amount("Total Claim Charge Amount"),
		5:  amount("Claim Payment Amount"),
		6:  date("Adjudication or Payment Date"),
		10: statusComposite,
		11: statusComposite,
	},
	"SBR": {
		1: coded("Payer Responsibility Sequence Number Code", payerResponsibilityCodes),
		2: coded("Individual Relationship Code", relationshipCodes),
		3: ident("Subscriber Group or Policy Number"),
		4: text("Subscriber Group Name"),
		9: coded("Claim Filing Indicator Code", claimFilingCodes),
	},
	"PAT": {
		1: coded("Individual Relationship Code", relationshipCodes),
	},
	"CLM": {
		1: ident("Patient Control Number"),
		2: amount("Total Claim Charge Amount"),
		5: composite("Health Care Service Location Information",
			coded("Place of Service Code", placeOfServiceCodes),
			coded("Facility Code Qualifier", facilityQualifierCodes),
			coded("Claim Frequency Type Code", claimFrequencyCodes),
		),
		6: coded("Provider or Supplier Signature Indicator", yesNoCodes),
		7: coded("Assignment or Plan Participation Code", assignmentCodes),
		8: coded("Benefits Assignment Certification Indicator", yesNoCodes),
		9: coded("Release of Information Code", releaseOfInformationCodes),
	},
	"HI": {
		1:  diagnosisComposite,
		2:  diagnosisComposite,
		3:  diagnosisComposite,
		4:  diagnosisComposite,
		5:  diagnosisComposite,
		6:  diagnosisComposite,
		7:  diagnosisComposite,
		8:  diagnosisComposite,
		9:  diagnosisComposite,
		10: diagnosisComposite,
		11: diagnosisComposite,
		12: diagnosisComposite,
	},
	"LX": {
		1: quantity("Assigned Number"),
	},
	"SV1": {
		1: procedureComposite,
		2: amount("Line Item Charge Amount"),
		3: coded("Unit or Basis for Measurement Code", unitBasisCodes),
		4: quantity("Service Unit Count"),
		5: coded("Place of Service Code", placeOfServiceCodes),
		7: composite("Composite Diagnosis Code Pointer",
			ident("Diagnosis Code Pointer"),
			ident("Diagnosis Code Pointer"),
			ident("Diagnosis Code Pointer"),
			ident("Diagnosis Code Pointer"),
		),
	},
	"INS": {
		1: coded("Member Indicator", yesNoCodes),
		2: coded("Individual Relationship Code", relationshipCodes),
		3: coded("Maintenance Type Code", maintenanceTypeCodes),
		4: coded("Maintenance Reason Code", maintenanceReasonCodes),
		5: coded("Benefit Status Code", benefitStatusCodes),
		8: coded("Employment Status Code", employmentStatusCodes),
	},
	"HD": {
		1: coded("Maintenance Type Code", maintenanceTypeCodes),
		3: coded("Insurance Line Code", insuranceLineCodes),
		4: text("Plan Coverage Description"),
		5: coded("Coverage Level Code", coverageLevelCodes),
	},
	"QTY": {
		1: text("Quantity Qualifier"),
		2: quantity("Quantity"),
	},
}
