// Package dictionary holds the code value tables.
package dictionary

// Code sets shared by several element positions. Descriptions follow the
// X12 005010 code source wording, shortened where the source is verbose.

var entityIdentifierCodes = map[string]string{
	"03": "Dependent",
	"1P": "Provider",
	"2B": "Third-Party Administrator",
	"31": "Postal Mailing Address",
	"36": "Employer",
	"40": "Receiver",
	"41": "Submitter",
	"45": "Drop-off Location",
	"70": "Prior Incorrect Insured",
	"74": "Corrected Insured",
	"77": "Service Location",
	"82": "Rendering Provider",
	"85": "Billing Provider",
	"87": "Pay-to Provider",
	"BO": "Broker or Sales Office",
	"DK": "Ordering Physician",
	"DN": "Referring Provider",
	"FA": "Facility",
	"GP": "Gateway Provider",
	"IL": "Insured or Subscriber",
	"IN": "Insurer",
	"P5": "Plan Sponsor",
	"PE": "Payee",
	"PR": "Payer",
	"QC": "Patient",
	"TV": "Third Party Administrator",
}

var entityTypeCodes = map[string]string{
	"1": "Person",
	"2": "Non-Person Entity",
}

var identificationQualifiers = map[string]string{
	"24": "Employer's Identification Number",
	"34": "Social Security Number",
	"46": "Electronic Transmitter Identification Number",
	"94": "Code assigned by the organization that is the ultimate destination of the transaction set",
	"FI": "Federal Taxpayer's Identification Number",
	"II": "Standard Unique Health Identifier for each Individual in the United States",
	"MI": "Member Identification Number",
	"PI": "Payor Identification",
	"SV": "Service Provider Number",
	"XV": "Centers for Medicare and Medicaid Services PlanID",
	"XX": "Centers for Medicare and Medicaid Services National Provider Identifier",
	"ZZ": "Mutually Defined",
}

var interchangeIDQualifiers = map[string]string{
	"01": "Duns (Dun & Bradstreet)",
	"14": "Duns Plus Suffix",
	"20": "Health Industry Number (HIN)",
	"27": "Carrier Identification Number as assigned by Health Care Financing Administration (HCFA)",
	"28": "Fiscal Intermediary Identification Number as assigned by HCFA",
	"29": "Medicare Provider and Supplier Identification Number as assigned by HCFA",
	"30": "U.S. Federal Tax Identification Number",
	"33": "National Association of Insurance Commissioners Company Code (NAIC)",
	"ZZ": "Mutually Defined",
}

var hierarchicalLevelCodes = map[string]string{
	"19": "Provider of Service",
	"20": "Information Source",
	"21": "Information Receiver",
	"22": "Subscriber",
	"23": "Dependent",
	"PT": "Patient",
}

var hierarchicalChildCodes = map[string]string{
	"0": "No Subordinate HL Segment in This Hierarchical Structure",
	"1": "Additional Subordinate HL Data Segment in This Hierarchical Structure",
}

var eligibilityCodes = map[string]string{
	"1":  "Active Coverage",
	"2":  "Active - Full Risk Capitation",
	"3":  "Active - Services Capitated",
	"4":  "Active - Services Capitated to Primary Care Physician",
	"5":  "Active - Pending Investigation",
	"6":  "Inactive",
	"7":  "Inactive - Pending Eligibility Update",
	"8":  "Inactive - Pending Investigation",
	"A":  "Co-Insurance",
	"B":  "Co-Payment",
	"C":  "Deductible",
	"CB": "Coverage Basis",
	"D":  "Benefit Description",
	"E":  "Exclusions",
	"F":  "Limitations",
	"G":  "Out of Pocket (Stop Loss)",
	"H":  "Unlimited",
	"I":  "Non-Covered",
	"J":  "Cost Containment",
	"K":  "Reserve",
	"L":  "Primary Care Provider",
	"M":  "Pre-existing Condition",
	"MC": "Managed Care Coordinator",
	"N":  "Services Restricted to Following Provider",
	"O":  "Not Deemed a Medical Necessity",
	"P":  "Benefit Disclaimer",
	"Q":  "Second Surgical Opinion Required",
	"R":  "Other or Additional Payor",
	"S":  "Prior Year(s) History",
	"T":  "Card(s) Reported Lost/Stolen",
	"U":  "Contact Following Entity for Eligibility or Benefit Information",
	"V":  "Cannot Process",
	"W":  "Other Source of Data",
	"X":  "Health Care Facility",
	"Y":  "Spend Down",
}

var coverageLevelCodes = map[string]string{
	"CHD": "Children Only",
	"DEP": "Dependents Only",
	"E1D": "Employee and One Dependent",
	"E2D": "Employee and Two Dependents",
	"E3D": "Employee and Three Dependents",
	"ECH": "Employee and Children",
	"EMP": "Employee Only",
	"ESP": "Employee and Spouse",
	"FAM": "Family",
	"IND": "Individual",
	"SPC": "Spouse and Children",
	"SPO": "Spouse Only",
	"TWO": "Two Party",
}

var serviceTypeCodes = map[string]string{
	"1":  "Medical Care",
	"2":  "Surgical",
	"3":  "Consultation",
	"4":  "Diagnostic X-Ray",
	"5":  "Diagnostic Lab",
	"6":  "Radiation Therapy",
	"7":  "Anesthesia",
	"8":  "Surgical Assistance",
	"12": "Durable Medical Equipment Purchase",
	"18": "Durable Medical Equipment Rental",
	"23": "Diagnostic Dental",
	"30": "Health Benefit Plan Coverage",
	"33": "Chiropractic",
	"35": "Dental Care",
	"42": "Home Health Care",
	"45": "Hospice",
	"47": "Hospital",
	"48": "Hospital - Inpatient",
	"50": "Hospital - Outpatient",
	"52": "Hospital - Emergency Medical",
	"60": "General Benefits",
	"76": "Dialysis",
	"81": "Routine Physical",
	"82": "Family Planning",
	"86": "Emergency Services",
	"88": "Pharmacy",
	"93": "Podiatry",
	"98": "Professional (Physician) Visit - Office",
	"A4": "Psychiatric",
	"A7": "Psychiatric - Inpatient",
	"A8": "Psychiatric - Outpatient",
	"AD": "Occupational Therapy",
	"AE": "Physical Medicine",
	"AG": "Skilled Nursing Care",
	"AI": "Substance Abuse",
	"AL": "Vision (Optometry)",
	"BG": "Cardiac Rehabilitation",
	"BT": "Gynecological",
	"BV": "Obstetrical/Gynecological",
	"BZ": "Physician Visit - Office: Well",
	"CF": "Mail Order Prescription Drug",
	"DM": "Durable Medical Equipment",
	"MH": "Mental Health",
	"PT": "Physical Therapy",
	"UC": "Urgent Care",
}

var insuranceTypeCodes = map[string]string{
	"12": "Medicare Secondary Working Aged Beneficiary or Spouse with Employer Group Health Plan",
	"13": "Medicare Secondary End-Stage Renal Disease Beneficiary",
	"47": "Medicare Secondary, Other Liability Insurance is Primary",
	"C1": "Commercial",
	"CO": "Consolidated Omnibus Budget Reconciliation Act (COBRA)",
	"EP": "Exclusive Provider Organization",
	"HM": "Health Maintenance Organization",
	"HN": "Health Maintenance Organization (HMO) - Medicare Risk",
	"IP": "Individual Policy",
	"MA": "Medicare Part A",
	"MB": "Medicare Part B",
	"MC": "Medicaid",
	"OT": "Other",
	"PR": "Preferred Provider Organization (PPO)",
	"PS": "Point of Service (POS)",
	"QM": "Qualified Medicare Beneficiary",
	"SP": "Supplemental Policy",
	"WC": "Workers Compensation",
}

var timePeriodCodes = map[string]string{
	"6":  "Hour",
	"7":  "Day",
	"21": "Years",
	"22": "Service Year",
	"23": "Calendar Year",
	"24": "Year to Date",
	"25": "Contract",
	"26": "Episode",
	"27": "Visit",
	"29": "Remaining",
	"32": "Lifetime",
	"33": "Lifetime Remaining",
	"34": "Month",
	"35": "Week",
}

var quantityQualifiers = map[string]string{
	"DY": "Days",
	"HS": "Hours",
	"MN": "Months",
	"VS": "Visits",
	"YY": "Years",
}

var yesNoCodes = map[string]string{
	"N": "No",
	"U": "Unknown",
	"W": "Not Applicable",
	"Y": "Yes",
}

var dateQualifierCodes = map[string]string{
	"050": "Received",
	"096": "Discharge",
	"102": "Issue",
	"152": "Effective Date of Change",
	"193": "Period Start",
	"194": "Period End",
	"286": "Retirement",
	"290": "Coordination of Benefits",
	"291": "Plan",
	"292": "Benefit",
	"295": "Primary Care Provider",
	"300": "Enrollment Signature Date",
	"303": "Maintenance Effective",
	"304": "Latest Visit or Consultation",
	"307": "Eligibility",
	"336": "Employment Begin",
	"337": "Employment End",
	"340": "Consolidated Omnibus Budget Reconciliation Act (COBRA) Begin",
	"341": "Consolidated Omnibus Budget Reconciliation Act (COBRA) End",
	"343": "Premium Paid to Date End",
	"346": "Plan Begin",
	"347": "Plan End",
	"348": "Benefit Begin",
	"349": "Benefit End",
	"356": "Eligibility Begin",
	"357": "Eligibility End",
	"382": "Enrollment",
	"431": "Onset of Current Illness or Symptom",
	"435": "Admission",
	"454": "Initial Treatment",
	"472": "Service",
}

var dateFormatQualifiers = map[string]string{
	"D8":  "Date Expressed in Format CCYYMMDD",
	"RD8": "Range of Dates Expressed in Format CCYYMMDD-CCYYMMDD",
}

var genderCodes = map[string]string{
	"F": "Female",
	"M": "Male",
	"U": "Unknown",
}

var referenceQualifiers = map[string]string{
	"0F":  "Subscriber Number",
	"17":  "Client Reporting Category",
	"18":  "Plan Number",
	"1L":  "Group or Policy Number",
	"1K":  "Payor's Claim Number",
	"1W":  "Member Identification Number",
	"23":  "Client Number",
	"38":  "Master Policy Number",
	"3H":  "Case Number",
	"6P":  "Group Number",
	"6R":  "Provider Control Number",
	"9F":  "Referral Number",
	"ABB": "Personal ID Number",
	"BLT": "Billing Type",
	"CE":  "Class of Contract Code",
	"D9":  "Claim Number",
	"DX":  "Department/Agency Number",
	"EA":  "Medical Record Identification Number",
	"EI":  "Employer's Identification Number",
	"EJ":  "Patient Account Number",
	"F6":  "Health Insurance Claim (HIC) Number",
	"F8":  "Original Reference Number",
	"G1":  "Prior Authorization Number",
	"HJ":  "Identity Card Number",
	"IG":  "Insurance Policy Number",
	"N6":  "Plan Network Identification Number",
	"NQ":  "Medicaid Recipient Identification Number",
	"Q4":  "Prior Identifier Number",
	"SY":  "Social Security Number",
	"TJ":  "Federal Taxpayer's Identification Number",
	"ZZ":  "Mutually Defined",
}

var diagnosisQualifiers = map[string]string{
	"ABF": "International Classification of Diseases Clinical Modification (ICD-10-CM) Diagnosis",
	"ABJ": "International Classification of Diseases Clinical Modification (ICD-10-CM) Admitting Diagnosis",
	"ABK": "International Classification of Diseases Clinical Modification (ICD-10-CM) Principal Diagnosis",
	"APR": "International Classification of Diseases Clinical Modification (ICD-10-CM) Patient's Reason for Visit",
	"BF":  "International Classification of Diseases Clinical Modification (ICD-9-CM) Diagnosis",
	"BK":  "International Classification of Diseases Clinical Modification (ICD-9-CM) Principal Diagnosis",
}

var placeOfServiceCodes = map[string]string{
	"02": "Telehealth Provided Other than in Patient's Home",
	"10": "Telehealth Provided in Patient's Home",
	"11": "Office",
	"12": "Home",
	"20": "Urgent Care Facility",
	"21": "Inpatient Hospital",
	"22": "On Campus-Outpatient Hospital",
	"23": "Emergency Room - Hospital",
	"24": "Ambulatory Surgical Center",
	"31": "Skilled Nursing Facility",
	"32": "Nursing Facility",
	"41": "Ambulance - Land",
	"49": "Independent Clinic",
	"50": "Federally Qualified Health Center",
	"65": "End-Stage Renal Disease Treatment Facility",
	"81": "Independent Laboratory",
	"99": "Other Place of Service",
}

var facilityQualifierCodes = map[string]string{
	"A": "Uniform Billing Claim Form Bill Type",
	"B": "Place of Service Codes for Professional or Dental Services",
}

var claimFrequencyCodes = map[string]string{
	"1": "Original",
	"7": "Replacement of Prior Claim",
	"8": "Void/Cancel of Prior Claim",
}

var assignmentCodes = map[string]string{
	"A": "Assigned",
	"B": "Assignment Accepted on Clinical Lab Services Only",
	"C": "Not Assigned",
}

var releaseOfInformationCodes = map[string]string{
	"I": "Informed Consent to Release Medical Information for Conditions or Diagnoses Regulated by Federal Statutes",
	"Y": "Yes, Provider has a Signed Statement Permitting Release of Medical Billing Data Related to a Claim",
}

var procedureQualifiers = map[string]string{
	"ER": "Jurisdiction Specific Procedure and Supply Codes",
	"HC": "Health Care Financing Administration Common Procedural Coding System (HCPCS) Codes",
	"IV": "Home Infusion EDI Coalition (HIEC) Product/Service Code",
	"WK": "Advanced Billing Concepts (ABC) Codes",
}

var unitBasisCodes = map[string]string{
	"MJ": "Minutes",
	"UN": "Unit",
}

var claimStatusCategoryCodes = map[string]string{
	"A0": "Acknowledgement/Forwarded - The claim/encounter has been forwarded to another entity",
	"A1": "Acknowledgement/Receipt - The claim/encounter has been received",
	"A2": "Acknowledgement/Acceptance into adjudication system",
	"A3": "Acknowledgement/Returned as unprocessable claim",
	"A4": "Acknowledgement/Not Found - The claim/encounter can not be found in the adjudication system",
	"A6": "Acknowledgement/Rejected for Missing Information",
	"A7": "Acknowledgement/Rejected for Invalid Information",
	"A8": "Acknowledgement/Rejected for relational field in error",
	"D0": "Data Search Unsuccessful",
	"E0": "Response not possible - error on submitted request data",
	"E1": "Response not possible - System Status",
	"E2": "Information Holder is not responding; resubmit at a later time",
	"E3": "Correction required - relational fields in error",
	"E4": "Trading partner agreement specific requirement not met: Data correction required",
	"F0": "Finalized - The claim/encounter has completed the adjudication cycle",
	"F1": "Finalized/Payment - The claim/line has been paid",
	"F2": "Finalized/Denial - The claim/line has been denied",
	"F3": "Finalized/Revised - Adjudication information has been changed",
	"F4": "Finalized/Adjudication Complete - No payment forthcoming",
	"P0": "Pending: Adjudication/Details",
	"P1": "Pending/In Process - The claim or encounter is in the adjudication system",
	"P2": "Pending/Payer Review",
	"P3": "Pending/Provider Requested Information",
	"P4": "Pending/Patient Requested Information",
	"P5": "Pending/Payer Administrative/System hold",
	"R0": "Requests for additional Information/General Requests",
	"R1": "Requests for additional Information/Entity Requests",
	"R3": "Requests for additional Information/Claim/Line",
}

var claimStatusCodes = map[string]string{
	"1":   "For more detailed information, see remittance advice",
	"3":   "Claim has been adjudicated and is awaiting payment cycle",
	"19":  "Entity acknowledges receipt of claim/encounter",
	"20":  "Accepted for processing",
	"21":  "Missing or invalid information",
	"35":  "Claim/encounter not found",
	"65":  "Claim/line has been paid",
	"88":  "Entity not eligible for benefits for submitted dates of service",
	"107": "Processed according to contract provisions",
	"187": "Date(s) of service",
}

var relationshipCodes = map[string]string{
	"01": "Spouse",
	"15": "Ward",
	"18": "Self",
	"19": "Child",
	"20": "Employee",
	"21": "Unknown",
	"39": "Organ Donor",
	"40": "Cadaver Donor",
	"53": "Life Partner",
	"G8": "Other Relationship",
}

var maintenanceTypeCodes = map[string]string{
	"001": "Change",
	"021": "Addition",
	"024": "Cancellation or Termination",
	"025": "Reinstatement",
	"030": "Audit or Compare",
}

var maintenanceReasonCodes = map[string]string{
	"01": "Divorce",
	"02": "Birth",
	"03": "Death",
	"05": "Adoption",
	"07": "Termination of Benefits",
	"08": "Termination of Employment",
	"14": "Voluntary Withdrawal",
	"25": "Change in Identifying Data Elements",
	"28": "Initial Enrollment",
	"29": "Benefit Selection",
	"32": "Marriage",
	"33": "Personnel Data",
	"41": "Re-enrollment",
	"43": "Change of Location",
	"AI": "No Reason Given",
	"EC": "Member Benefit Selection",
	"XN": "Notification Only",
	"XT": "Transfer",
}

var benefitStatusCodes = map[string]string{
	"A": "Active",
	"C": "Consolidated Omnibus Budget Reconciliation Act (COBRA)",
	"S": "Surviving Insured",
	"T": "Tax Equity and Fiscal Responsibility Act (TEFRA)",
}

var employmentStatusCodes = map[string]string{
	"AC": "Active",
	"FT": "Full-time",
	"PT": "Part-time",
	"RT": "Retired",
	"TE": "Terminated",
}

var insuranceLineCodes = map[string]string{
	"AG":  "Preventative Care/Wellness",
	"AH":  "24 Hour Care",
	"AJ":  "Medicare Risk",
	"AK":  "Mental Health",
	"DCP": "Dental Capitation",
	"DEN": "Dental",
	"EPO": "Exclusive Provider Organization",
	"FAC": "Facility",
	"HE":  "Hearing",
	"HLT": "Health",
	"HMO": "Health Maintenance Organization",
	"LTC": "Long-Term Care",
	"LTD": "Long-Term Disability",
	"MM":  "Major Medical",
	"PDG": "Prescription Drug",
	"POS": "Point of Service",
	"PPO": "Preferred Provider Organization",
	"PRA": "Practitioners",
	"STD": "Short-Term Disability",
	"UR":  "Utilization Review",
	"VIS": "Vision",
}

var purposeCodes = map[string]string{
	"00": "Original",
	"01": "Cancellation",
	"06": "Confirmation",
	"08": "Status",
	"11": "Response",
	"13": "Request",
	"15": "Re-Submission",
	"18": "Reissue",
	"22": "Information Copy",
}

var hierarchicalStructureCodes = map[string]string{
	"0010": "Information Source, Information Receiver, Provider of Service, Subscriber, Dependent",
	"0019": "Information Source, Subscriber, Dependent",
	"0022": "Information Source, Information Receiver, Subscriber, Dependent",
}

var claimTransactionTypeCodes = map[string]string{
	"31": "Subrogation Demand",
	"CH": "Chargeable",
	"RP": "Reporting",
}

var enrollmentActionCodes = map[string]string{
	"2":  "Change (Update)",
	"4":  "Verify",
	"RX": "Replace",
}

var payerResponsibilityCodes = map[string]string{
	"A": "Payer Responsibility Four",
	"B": "Payer Responsibility Five",
	"C": "Payer Responsibility Six",
	"P": "Primary",
	"S": "Secondary",
	"T": "Tertiary",
	"U": "Unknown",
}

var claimFilingCodes = map[string]string{
	"11": "Other Non-Federal Programs",
	"12": "Preferred Provider Organization (PPO)",
	"13": "Point of Service (POS)",
	"14": "Exclusive Provider Organization (EPO)",
	"15": "Indemnity Insurance",
	"16": "Health Maintenance Organization (HMO) Medicare Risk",
	"17": "Dental Maintenance Organization",
	"AM": "Automobile Medical",
	"BL": "Blue Cross/Blue Shield",
	"CH": "Champus",
	"CI": "Commercial Insurance Co.",
	"DS": "Disability",
	"FI": "Federal Employees Program",
	"HM": "Health Maintenance Organization",
	"LM": "Liability Medical",
	"MA": "Medicare Part A",
	"MB": "Medicare Part B",
	"MC": "Medicaid",
	"OF": "Other Federal Program",
	"TV": "Title V",
	"VA": "Veterans Affairs Plan",
	"WC": "Workers' Compensation Health Claim",
	"ZZ": "Mutually Defined",
}

var rejectReasonCodes = map[string]string{
	"04": "Authorized Quantity Exceeded",
	"15": "Required application data missing",
	"41": "Authorization/Access Restrictions",
	"42": "Unable to Respond at Current Time",
	"43": "Invalid/Missing Provider Identification",
	"44": "Invalid/Missing Provider Name",
	"45": "Invalid/Missing Provider Specialty",
	"47": "Invalid/Missing Provider State",
	"48": "Invalid/Missing Referring Provider Identification Number",
	"49": "Provider is Not Primary Care Physician",
	"51": "Provider Not on File",
	"52": "Service Dates Not Within Provider Plan Enrollment",
	"56": "Inappropriate Date",
	"57": "Invalid/Missing Date(s) of Service",
	"58": "Invalid/Missing Date-of-Birth",
	"60": "Date of Birth Follows Date(s) of Service",
	"61": "Date of Death Precedes Date(s) of Service",
	"62": "Date of Service Not Within Allowable Inquiry Period",
	"63": "Date of Service in Future",
	"64": "Invalid/Missing Patient ID",
	"65": "Invalid/Missing Patient Name",
	"66": "Invalid/Missing Patient Gender Code",
	"67": "Patient Not Found",
	"68": "Duplicate Patient ID Number",
	"71": "Patient Birth Date Does Not Match That for the Patient on the Database",
	"72": "Invalid/Missing Subscriber/Insured ID",
	"73": "Invalid/Missing Subscriber/Insured Name",
	"74": "Invalid/Missing Subscriber/Insured Gender Code",
	"75": "Subscriber/Insured Not Found",
	"76": "Duplicate Subscriber/Insured ID Number",
	"78": "Subscriber/Insured Not in Group/Plan Identified",
	"79": "Invalid Participant Identification",
}

var followUpActionCodes = map[string]string{
	"C": "Please Correct and Resubmit",
	"N": "Resubmission Not Allowed",
	"R": "Resubmission Allowed",
	"S": "Do Not Resubmit; Inquiry Initiated to a Third Party",
	"W": "Please Wait 30 Days and Resubmit",
	"X": "Please Wait 10 Days and Resubmit",
	"Y": "Do Not Resubmit; We Will Hand Deliver to You",
}

var contactFunctionCodes = map[string]string{
	"IC": "Information Contact",
}

var communicationQualifiers = map[string]string{
	"EM": "Electronic Mail",
	"EX": "Telephone Extension",
	"FX": "Facsimile",
	"TE": "Telephone",
}

var traceTypeCodes = map[string]string{
	"1": "Current Transaction Trace Numbers",
	"2": "Referenced Transaction Trace Numbers",
}

var amountQualifiers = map[string]string{
	"D8": "Discount Amount",
	"F5": "Patient Amount Paid",
	"R":  "Spend Down",
	"T3": "Total Submitted Charges",
}

var providerCodes = map[string]string{
	"BI": "Billing",
	"PE": "Performing",
	"RF": "Referring",
}

var functionalIdentifierCodes = map[string]string{
	"BE": "Benefit Enrollment and Maintenance (834)",
	"FA": "Functional or Implementation Acknowledgment Transaction Sets",
	"HB": "Eligibility, Coverage or Benefit Information (271)",
	"HC": "Health Care Claim (837)",
	"HI": "Health Care Services Review Information (278)",
	"HN": "Health Care Claim Status Notification (277)",
	"HP": "Health Care Claim Payment/Advice (835)",
	"HR": "Health Care Claim Status Request (276)",
	"HS": "Eligibility, Coverage or Benefit Inquiry (270)",
	"IN": "Invoice Information (810)",
	"PO": "Purchase Order (850)",
	"RA": "Payment Order/Remittance Advice (820)",
	"SH": "Ship Notice/Manifest (856)",
}

var authorizationQualifiers = map[string]string{
	"00": "No Authorization Information Present",
	"03": "Additional Data Identification",
}

var securityQualifiers = map[string]string{
	"00": "No Security Information Present",
	"01": "Password",
}

var acknowledgmentCodes = map[string]string{
	"0": "No Interchange Acknowledgment Requested",
	"1": "Interchange Acknowledgment Requested",
}

var usageIndicators = map[string]string{
	"I": "Information",
	"P": "Production Data",
	"T": "Test Data",
}

var agencyCodes = map[string]string{
	"T": "Transportation Data Coordinating Committee (TDCC)",
	"X": "Accredited Standards Committee X12",
}

var taxonomyQualifiers = map[string]string{
	"PXC": "Health Care Provider Taxonomy Code",
}
