package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "TBA", FormatDate(time.Time{}))
	assert.Equal(t, "March 5, 2025", FormatDate(time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)))
}

func TestFormatTime(t *testing.T) {
	cases := map[string]string{
		"":      "TBA",
		"bogus": "TBA",
		"0:5":   "12:05 AM",
		"00:00": "12:00 AM",
		"9:30":  "9:30 AM",
		"12:00": "12:00 PM",
		"13:05": "1:05 PM",
		"23:59": "11:59 PM",
		"14":    "2:00 PM",
	}
	for input, want := range cases {
		assert.Equal(t, want, FormatTime(input), "input %q", input)
	}
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "4 hours", Duration("22:00", "02:00"))
	assert.Equal(t, "1 hour 30 mins", Duration("09:00", "10:30"))
	assert.Equal(t, "45 mins", Duration("10:00", "10:45"))
	assert.Equal(t, "2 hours", Duration("08:00", "10:00"))
	assert.Equal(t, "", Duration("", "10:00"))
	assert.Equal(t, "", Duration("10:00", "oops"))
	assert.Equal(t, "", Duration("10", "12:00"))
}

func TestSplitBullets(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, SplitBullets("A - B - C"))
	assert.Equal(t, []string{}, SplitBullets(""))
	assert.Equal(t, []string{"Plant trees", "Clean river"}, SplitBullets("Plant trees\r\nClean river"))
	// Hyphenated prose splits as well; long-standing output quirk.
	assert.Equal(t, []string{"well", "being"}, SplitBullets("well-being"))
}
