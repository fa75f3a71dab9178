// Package period defines the tracked reporting periods and the
// calendar math that anchors them in a configured timezone.
package period

import (
	"fmt"
	"time"
)

// Key identifies a tracked reporting period.
type Key string

const (
	Day   Key = "day"
	Week  Key = "week"
	Month Key = "month"
	All   Key = "all"
)

// Keys lists every tracked period in report order. The set is fixed;
// reports always emit results in this order.
var Keys = []Key{Day, Week, Month, All}

// Valid reports whether k is one of the tracked periods.
func Valid(k Key) bool {
	switch k {
	case Day, Week, Month, All:
		return true
	}
	return false
}

// Parse converts a string into a Key.
func Parse(s string) (Key, error) {
	k := Key(s)
	if !Valid(k) {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return k, nil
}

// Label returns the capitalized display name used in reports.
func (k Key) Label() string {
	switch k {
	case Day:
		return "Day"
	case Week:
		return "Week"
	case Month:
		return "Month"
	case All:
		return "All"
	}
	return string(k)
}

// Windows maps each period to its start instant.
type Windows map[Key]time.Time

// WindowsAt derives the period-start instant for every Key from a single
// instant in the given timezone. Pure and idempotent: the same instant
// always yields the same windows.
//
//   - Day: local midnight of the current date
//   - Week: midnight of the ISO Monday on or before the current date
//   - Month: midnight of the first day of the current month
//   - All: local midnight; only ever consumed on the first run, since the
//     all-time baseline is anchored once and never rolled
func WindowsAt(now time.Time, loc *time.Location) Windows {
	local := now.In(loc)
	y, m, d := local.Date()
	sod := time.Date(y, m, d, 0, 0, 0, 0, loc)

	// ISO week: Monday is day 0
	offset := (int(local.Weekday()) + 6) % 7
	sow := sod.AddDate(0, 0, -offset)

	som := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	return Windows{
		Day:   sod,
		Week:  sow,
		Month: som,
		All:   sod,
	}
}
