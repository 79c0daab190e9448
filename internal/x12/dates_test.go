package x12

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDates(t *testing.T) {
	t.Run("Should expand compact dates", func(t *testing.T) {
		assert.Equal(t, "1970-01-15", FormatDate("19700115"))
		assert.Equal(t, "", FormatDate("19701315"))
		assert.Equal(t, "", FormatDate("1970011"))
		assert.Equal(t, "", FormatDate(""))
	})

	t.Run("Should compact hyphenated dates", func(t *testing.T) {
		assert.Equal(t, "20230101", CompactDate("2023-01-01"))
		assert.Equal(t, "20230101", CompactDate("20230101"))
		assert.Equal(t, "", CompactDate("01/01/2023"))
		assert.Equal(t, "", CompactDate(""))
	})

	t.Run("Should split date ranges", func(t *testing.T) {
		start, end := FormatDateRange("20230101-20231231")
		assert.Equal(t, "2023-01-01", start)
		assert.Equal(t, "2023-12-31", end)

		start, end = FormatDateRange("20230101")
		assert.Equal(t, "2023-01-01", start)
		assert.Equal(t, "", end)
	})

	assert.True(t, IsDate("20240229"))
	assert.False(t, IsDate("20230229"))
	assert.False(t, IsDate("2023-01-01"))
}
