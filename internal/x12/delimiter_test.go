package x12

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleISA = "ISA*00*          *00*          *ZZ*SUBMITTERID    *ZZ*RECEIVERID     *230101*1200*^*00501*000000001*0*P*:~"

func TestDetectDelimiters(t *testing.T) {
	t.Run("Should read delimiters from the fixed ISA offsets", func(t *testing.T) {
		require.Len(t, sampleISA, 106)
		d := DetectDelimiters(sampleISA + "GS*HS~")
		assert.Equal(t, Delimiters{Element: '*', Component: ':', Segment: '~'}, d)
	})

	t.Run("Should honor non-standard delimiters", func(t *testing.T) {
		isa := strings.NewReplacer("*", "|", ":", ">", "~", "\n").Replace(sampleISA)
		d := DetectDelimiters(isa + "GS|HS\n")
		assert.Equal(t, byte('|'), d.Element)
		assert.Equal(t, byte('>'), d.Component)
		assert.Equal(t, byte('\n'), d.Segment)
	})

	t.Run("Should ignore leading whitespace and byte order mark", func(t *testing.T) {
		isa := strings.NewReplacer("*", "^", ":", "!", "~", "'").Replace(sampleISA)
		d := DetectDelimiters("\ufeff\r\n  " + isa)
		assert.Equal(t, "^!'", d.String())
	})

	t.Run("Should fall back to defaults without an ISA header", func(t *testing.T) {
		assert.Equal(t, DefaultDelimiters, DetectDelimiters("ST*270*0001~BHT*0022~"))
		assert.Equal(t, DefaultDelimiters, DetectDelimiters(""))
	})

	t.Run("Should fall back to defaults for a truncated header", func(t *testing.T) {
		assert.Equal(t, DefaultDelimiters, DetectDelimiters("ISA|00|short"))
	})

	t.Run("Should detect delimiters of fixture files", func(t *testing.T) {
		raw, err := os.ReadFile("testdata/270.x12")
		require.NoError(t, err)
		assert.Equal(t, DefaultDelimiters, DetectDelimiters(string(raw)))
	})
}
