package x12

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(raw)
}

// =========== Tokenizer Tests ===========

func TestTokenize(t *testing.T) {
	t.Run("Should split segments, elements and components", func(t *testing.T) {
		segs := Tokenize("CLM*A37YH556*500***11:B:1*Y~~\r\n  HI*ABK:J449*ABF:I10~", DefaultDelimiters)
		require.Len(t, segs, 2)

		clm := segs[0]
		assert.Equal(t, "CLM", clm.Tag)
		assert.Equal(t, "CLM*A37YH556*500***11:B:1*Y", clm.Raw)
		assert.Equal(t, 1, clm.LineNumber)
		assert.Equal(t, 0, clm.Depth)
		require.Len(t, clm.Elements, 6)
		assert.Equal(t, 1, clm.Elements[0].Index)
		assert.Equal(t, "A37YH556", clm.Element(1))
		assert.Nil(t, clm.Elements[0].Components)
		assert.Equal(t, []string{"11", "B", "1"}, clm.Elements[4].Components)
		assert.Equal(t, "B", clm.Component(5, 2))
		assert.Equal(t, "", clm.Element(3))
		assert.Equal(t, "", clm.Element(40))

		hi := segs[1]
		assert.Equal(t, 2, hi.LineNumber)
		assert.Equal(t, "J449", hi.Component(1, 2))
		assert.Equal(t, "ABF", hi.Component(2, 1))
	})

	t.Run("Should give each segment a unique identifier", func(t *testing.T) {
		segs := Tokenize("NM1*IL~NM1*IL~NM1*IL~", DefaultDelimiters)
		seen := map[string]bool{}
		for _, s := range segs {
			require.NotEmpty(t, s.ID)
			assert.False(t, seen[s.ID])
			seen[s.ID] = true
		}
	})

	t.Run("Should not decompose the ISA component separator", func(t *testing.T) {
		segs := Tokenize(sampleISA, DefaultDelimiters)
		require.Len(t, segs, 1)
		assert.Equal(t, ":", segs[0].Element(16))
		assert.Nil(t, segs[0].Elements[15].Components)
	})

	t.Run("Should treat a non-composite element as its own first component", func(t *testing.T) {
		segs := Tokenize("EQ*30~", DefaultDelimiters)
		assert.Equal(t, "30", segs[0].Component(1, 1))
		assert.Equal(t, "", segs[0].Component(1, 2))
	})

	t.Run("Should upper-case tags", func(t *testing.T) {
		segs := Tokenize("nm1*IL~", DefaultDelimiters)
		assert.Equal(t, "NM1", segs[0].Tag)
	})
}

// =========== Classifier Tests ===========

func TestClassify(t *testing.T) {
	cases := map[string]TransactionType{
		"270": TransactionEligibilityInquiry,
		"271": TransactionEligibilityResponse,
		"276": TransactionClaimStatusInquiry,
		"277": TransactionClaimStatusResponse,
		"834": TransactionBenefitEnrollment,
		"837": TransactionHealthCareClaim,
		"850": TransactionPurchaseOrder,
		"999": TransactionUnknown,
		"":    TransactionUnknown,
	}
	for code, want := range cases {
		assert.Equal(t, want, ClassifyTransaction(code), code)
	}

	t.Run("Should honor only the first transaction set header", func(t *testing.T) {
		doc := Parse("ST*276*0001~SE*2*0001~ST*837*0002~SE*2*0002~")
		assert.Equal(t, TransactionClaimStatusInquiry, doc.TransactionType)
	})

	t.Run("Should classify documents without ST as unknown", func(t *testing.T) {
		assert.Equal(t, TransactionUnknown, Parse("NM1*IL~").TransactionType)
	})

	t.Run("Should report view model support", func(t *testing.T) {
		assert.True(t, TransactionHealthCareClaim.Supported())
		assert.False(t, TransactionShipNotice.Supported())
		assert.False(t, TransactionUnknown.Supported())
	})
}

// =========== Hierarchy Tests ===========

func TestAssembleHierarchy(t *testing.T) {
	t.Run("Should nest a source-receiver-subscriber-dependent chain", func(t *testing.T) {
		doc := Parse("HL*1**20*1~NM1*PR*2*PAYER~HL*2*1*21*1~HL*3*2*22*1~NM1*IL*1*DOE*JOHN~HL*4*3*23*0~NM1*03*1*DOE*JANE~")
		require.Len(t, doc.Roots, 1)

		var depths []int
		for _, s := range doc.Segments {
			if s.IsLoop() {
				depths = append(depths, s.Depth)
			}
		}
		assert.Equal(t, []int{0, 1, 2, 3}, depths)

		hl1 := doc.Segments[0]
		assert.Equal(t, []int{1, 2}, hl1.Children)
		assert.Equal(t, 1, doc.Segments[1].Depth)
		assert.Equal(t, "20", hl1.Loop.LevelCode)
		assert.Equal(t, "", hl1.Loop.ParentID)

		hl3 := doc.Segments[3]
		assert.Equal(t, []int{4, 5}, hl3.Children)
		assert.Equal(t, 3, doc.Segments[4].Depth)

		hl4 := doc.Segments[5]
		assert.Equal(t, "3", hl4.Loop.ParentID)
		assert.Equal(t, []int{6}, hl4.Children)
		assert.Equal(t, 4, doc.Segments[6].Depth)
	})

	t.Run("Should keep envelope headers before the first loop as roots", func(t *testing.T) {
		doc := Parse(loadFixture(t, "270.x12"))
		roots := make([]string, 0, len(doc.Roots))
		for _, r := range doc.Roots {
			roots = append(roots, doc.Segments[r].Tag)
		}
		assert.Equal(t, []string{"ISA", "GS", "ST", "BHT", "HL"}, roots)

		hl3 := doc.First("HL")
		for hl3 != nil && hl3.Element(1) != "3" {
			hl3 = doc.FirstFrom(doc.Index(hl3)+1, "HL")
		}
		require.NotNil(t, hl3)
		var tags []string
		for _, c := range doc.ChildrenOf(hl3) {
			tags = append(tags, c.Tag)
		}
		assert.Equal(t, []string{"TRN", "NM1", "DMG", "DTP", "EQ", "SE", "GE", "IEA"}, tags)
	})

	t.Run("Should degrade to a flat forest without loops", func(t *testing.T) {
		doc := Parse("ST*834*0001~BGN*00*REF*20230101~INS*Y*18*030~SE*4*0001~")
		assert.Equal(t, []int{0, 1, 2, 3}, doc.Roots)
		for _, s := range doc.Segments {
			assert.Equal(t, 0, s.Depth)
			assert.Empty(t, s.Children)
		}
	})

	t.Run("Should promote orphans and forward references to roots", func(t *testing.T) {
		doc := Parse("HL*2*1*21*0~NM1*1P~HL*1**20*1~HL*3*9*22*0~")
		assert.Equal(t, []int{0, 2, 3}, doc.Roots)
		assert.Equal(t, []int{1}, doc.Segments[0].Children)
		assert.Equal(t, 0, doc.Segments[3].Depth)
	})

	t.Run("Should keep the first declaration of a duplicate loop id", func(t *testing.T) {
		doc := Parse("HL*1**20*1~HL*1**20*1~HL*2*1*21*0~")
		assert.Equal(t, []int{0, 1}, doc.Roots)
		assert.Equal(t, []int{2}, doc.Segments[0].Children)
	})
}

func TestParseIsIdempotent(t *testing.T) {
	for _, name := range []string{"270.x12", "271.x12"} {
		raw := loadFixture(t, name)
		a, b := Parse(raw), Parse(raw)
		assert.Equal(t, a.Shape(), b.Shape(), name)
		assert.NotEqual(t, a.Segments[0].ID, b.Segments[0].ID)
		assert.Equal(t, a.Delimiters, b.Delimiters)
		assert.Equal(t, a.TransactionType, b.TransactionType)
	}
}

func TestDocumentNavigation(t *testing.T) {
	doc := Parse(loadFixture(t, "270.x12"))
	assert.Equal(t, TransactionEligibilityInquiry, doc.TransactionType)

	nm1 := doc.First("NM1", "IL")
	require.NotNil(t, nm1)
	assert.Equal(t, "MBI123", nm1.Element(9))
	assert.Len(t, doc.All("NM1"), 3)
	assert.Nil(t, doc.First("NM1", "QC"))
	assert.Nil(t, doc.At(-1))

	tree := doc.Tree()
	require.Len(t, tree, 5)
	assert.Equal(t, "HL", tree[4].Tag)
	assert.Len(t, tree[4].Nodes, 2)

	var visited int
	doc.Walk(func(s *Segment) bool {
		visited++
		return true
	})
	assert.Equal(t, doc.Len(), visited)

	assert.True(t, strings.HasPrefix(doc.Shape()[0], "ISA*00*"))
}
