package dictionary

import (
	"testing"

	"github.com/drfirst/go-x12/internal/x12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefine(t *testing.T) {
	t.Run("Should describe coded values", func(t *testing.T) {
		assert.Equal(t, "Insured or Subscriber", Define("NM1", 1, "IL", ':'))
		assert.Equal(t, "Active Coverage", Define("EB", 1, "1", ':'))
		assert.Equal(t, "Health Benefit Plan Coverage", Define("EQ", 1, "30", ':'))
		assert.Equal(t, "Eligibility, Coverage or Benefit Inquiry", Define("ST", 1, "270", ':'))
	})

	t.Run("Should distinguish empty values from unrecognized codes", func(t *testing.T) {
		assert.Equal(t, "", Define("NM1", 1, "", ':'))
		assert.Equal(t, CodeNotRecognized, Define("NM1", 1, "ZZZ", ':'))
		assert.Equal(t, CodeNotRecognized, Define("XYZ", 1, "A", ':'))
	})

	t.Run("Should pass text through verbatim", func(t *testing.T) {
		assert.Equal(t, "DOE", Define("NM1", 3, "DOE", ':'))
		assert.Equal(t, "MBI123", Define("NM1", 9, "MBI123", ':'))
	})

	t.Run("Should decompose a status composite and resolve both parts", func(t *testing.T) {
		def := Define("STC", 1, "A1:20", ':')
		assert.Contains(t, def, "Category: Acknowledgement/Receipt")
		assert.Contains(t, def, "Status: Accepted for processing")
	})

	t.Run("Should resolve each composite part independently", func(t *testing.T) {
		def := Define("STC", 1, "A1:9999", ':')
		assert.Contains(t, def, "Category: Acknowledgement/Receipt")
		assert.Contains(t, def, "Status: "+CodeNotRecognized)

		def = Define("STC", 1, "Z9>20", '>')
		assert.Equal(t, "Category: "+CodeNotRecognized+"; Status: Accepted for processing", def)
	})

	t.Run("Should keep diagnosis codes verbatim", func(t *testing.T) {
		def := Define("HI", 1, "ABK:J449", ':')
		assert.Contains(t, def, "Principal Diagnosis")
		assert.Contains(t, def, "Diagnosis Code: J449")
	})

	t.Run("Should render dates and ranges", func(t *testing.T) {
		assert.Equal(t, "1970-01-15", Define("DMG", 2, "19700115", ':'))
		assert.Equal(t, "2023-01-01 to 2023-12-31", Define("DTP", 3, "20230101-20231231", ':'))
		assert.Equal(t, CodeNotRecognized, Define("DTP", 3, "2023", ':'))
		assert.Equal(t, "12:00", Define("GS", 5, "1200", ':'))
	})

	t.Run("Should pass amounts and quantities through", func(t *testing.T) {
		assert.Equal(t, "500", Define("EB", 7, "500", ':'))
		assert.Equal(t, "12", Define("SE", 1, "12", ':'))
		assert.Equal(t, "150.25", Define("CLM", 2, "150.25", ':'))
	})

	t.Run("Should apply the date heuristic before the amount heuristic for unknown codes", func(t *testing.T) {
		def := ElementDef{Name: "Effective Date", Kind: KindCode}
		assert.Equal(t, "2023-02-01", fallback(def, "20230201"))
		assert.Equal(t, "5", fallback(ElementDef{Name: "Unit Count", Kind: KindCode}, "5"))
		assert.Equal(t, CodeNotRecognized, fallback(ElementDef{Name: "Reason", Kind: KindCode}, "20230201"))
	})
}

func TestLookup(t *testing.T) {
	desc, ok := Lookup("DMG", 3, "F")
	assert.True(t, ok)
	assert.Equal(t, "Female", desc)

	_, ok = Lookup("NM1", 3, "DOE")
	assert.False(t, ok)

	assert.Equal(t, "Individual or Organizational Name", SegmentName("NM1"))
	assert.Equal(t, "", SegmentName("ZZZ"))
}

func TestDescribe(t *testing.T) {
	parse := func(t *testing.T, raw string) *x12.Segment {
		t.Helper()
		doc := x12.Parse(raw)
		require.NotEmpty(t, doc.Segments)
		return doc.Segments[0]
	}

	t.Run("Should summarize a name segment by role", func(t *testing.T) {
		a := Describe(parse(t, "NM1*IL*1*DOE*JOHN****MI*MBI123~"))
		assert.Equal(t, "NM1", a.Tag)
		assert.Equal(t, "Individual or Organizational Name", a.Name)
		assert.Equal(t, "Insured or Subscriber: JOHN DOE (Member Identification Number MBI123)", a.Summary)
		require.Len(t, a.Fields, 9)
		assert.Equal(t, "NM101", a.Fields[0].Position)
		assert.Equal(t, "Entity Identifier Code", a.Fields[0].Name)
		assert.Equal(t, "Insured or Subscriber", a.Fields[0].Definition)
		assert.Equal(t, "", a.Fields[4].Definition)
	})

	t.Run("Should summarize a benefit by kind and service type", func(t *testing.T) {
		a := Describe(parse(t, "EB*1*IND*30*PO~"))
		assert.Equal(t, "Active Coverage for Health Benefit Plan Coverage (Individual)", a.Summary)
		assert.Equal(t, CodeNotRecognized, a.Fields[3].Definition)
	})

	t.Run("Should summarize claim status", func(t *testing.T) {
		a := Describe(parse(t, "STC*A2:20*20230105**150*0~"))
		assert.Equal(t, "Claim status: Acknowledgement/Acceptance into adjudication system, Accepted for processing as of 2023-01-05", a.Summary)
	})

	t.Run("Should summarize hierarchical levels", func(t *testing.T) {
		assert.Equal(t, "Level 3: Subscriber under level 2", Describe(parse(t, "HL*3*2*22*0~")).Summary)
		assert.Equal(t, "Level 1: Information Source", Describe(parse(t, "HL*1**20*1~")).Summary)
	})

	t.Run("Should fall back to the segment name", func(t *testing.T) {
		assert.Equal(t, "Party Location", Describe(parse(t, "N3*123 MAIN ST~")).Summary)
	})

	t.Run("Should flag unknown segments", func(t *testing.T) {
		a := Describe(parse(t, "ZZZ*1~"))
		assert.Equal(t, "Unknown segment ZZZ", a.Summary)
		assert.Equal(t, "Element 01", a.Fields[0].Name)
		assert.Equal(t, CodeNotRecognized, a.Fields[0].Definition)
	})

	t.Run("Should describe every segment of a document", func(t *testing.T) {
		doc := x12.Parse("ST*270*0001~EQ*30~SE*3*0001~")
		out := DescribeDocument(doc)
		require.Len(t, out, 3)
		assert.Equal(t, "Inquiry for Health Benefit Plan Coverage", out[1].Summary)
		assert.Equal(t, "End of transaction set 0001: 3 segments", out[2].Summary)
	})
}
