package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hcm = time.FixedZone("ICT", 7*60*60)

func TestWindowsAt(t *testing.T) {
	// Sunday 2026-08-30 14:35 local
	now := time.Date(2026, 8, 30, 14, 35, 12, 0, hcm)

	w := WindowsAt(now, hcm)

	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, hcm), w[Day])
	// ISO Monday of that week is 2026-08-24
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, hcm), w[Week])
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, hcm), w[Month])
	assert.Equal(t, w[Day], w[All])
}

func TestWindowsAtMonday(t *testing.T) {
	// A Monday: week start is the same day's midnight
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, hcm)

	w := WindowsAt(now, hcm)

	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, hcm), w[Week])
	assert.Equal(t, w[Day], w[Week])
}

func TestWindowsAtFirstOfMonth(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 1, 0, hcm)

	w := WindowsAt(now, hcm)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, hcm), w[Month])
	assert.Equal(t, w[Day], w[Month])
}

func TestWindowsAtConvertsZone(t *testing.T) {
	// 18:30 UTC on the 29th is already the 30th in UTC+7
	now := time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)

	w := WindowsAt(now, hcm)

	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, hcm), w[Day])
}

func TestWindowsAtIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 59, 59, 0, hcm)

	first := WindowsAt(now, hcm)
	second := WindowsAt(now, hcm)

	for _, k := range Keys {
		assert.True(t, first[k].Equal(second[k]), "window for %s changed between calls", k)
	}
}

func TestParse(t *testing.T) {
	for _, k := range Keys {
		got, err := Parse(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := Parse("year")
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Day", Day.Label())
	assert.Equal(t, "All", All.Label())
}
