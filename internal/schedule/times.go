package schedule

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// decimalEpoch is the fixed reference instant for decimal minutes. All
// ordering and range comparisons use minutes since this epoch, never
// wall-clock time.
var decimalEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// serialEpoch is the spreadsheet day-serial origin (1899-12-30).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	validityPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	timePattern     = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*\(([+-]\d+)\))?$`)
)

// ParseValidityDate extracts the operating calendar date from a validity
// cell. Strings already in YYYY-MM-DD form keep their leading ten
// characters; day serials count from the 1899-12-30 epoch. Anything else
// yields the empty string.
func ParseValidityDate(v Value) string {
	if v.Empty() {
		return ""
	}
	if n, ok := v.Number(); ok {
		return serialEpoch.Add(time.Duration(n * 24 * float64(time.Hour))).Format("2006-01-02")
	}
	if m := validityPattern.FindString(v.Text()); m != "" {
		return m
	}
	return ""
}

// ParseTimeWithOffset parses a clock cell against a base date. Text cells
// match "H:MM" or "H:MM (±N)"; the parenthesized signed integer is a day
// offset applied after setting hour and minute with zeroed seconds. Numeric
// cells are spreadsheet time serials: a bare day fraction anchors its clock
// to the base date, a serial with a whole-day part is an absolute instant
// counted from the serial epoch. An invalid format or a missing base date
// yields nil.
func ParseTimeWithOffset(v Value, base time.Time) *time.Time {
	if v.Empty() {
		return nil
	}
	if n, ok := v.Number(); ok {
		return serialClock(n, base)
	}
	if base.IsZero() {
		return nil
	}
	m := timePattern.FindStringSubmatch(v.Text())
	if m == nil {
		return nil
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	dayOffset := 0
	if m[3] != "" {
		dayOffset, _ = strconv.Atoi(m[3])
	}
	t := time.Date(base.Year(), base.Month(), base.Day(), hours, minutes, 0, 0, base.Location())
	if dayOffset != 0 {
		t = t.AddDate(0, 0, dayOffset)
	}
	return &t
}

// serialClock resolves a numeric time cell. The fractional day is rounded to
// whole seconds to absorb the float representation of minute-precision
// clocks.
func serialClock(n float64, base time.Time) *time.Time {
	if n < 0 {
		return nil
	}
	days := math.Floor(n)
	clock := time.Duration((n - days) * 24 * float64(time.Hour)).Round(time.Second)
	if days >= 1 {
		t := serialEpoch.AddDate(0, 0, int(days)).Add(clock)
		return &t
	}
	if base.IsZero() {
		return nil
	}
	t := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location()).Add(clock)
	return &t
}

// TimeToDecimal converts an absolute instant to comparable minutes since the
// fixed reference epoch. Nil in, nil out.
func TimeToDecimal(t *time.Time) *int {
	if t == nil {
		return nil
	}
	minutes := int(t.Sub(decimalEpoch) / time.Minute)
	return &minutes
}

// baseDate resolves an ISO validity date into the midnight instant used as
// time-parsing context, falling back to now only when the validity is
// entirely absent.
func baseDate(validity string, now time.Time) time.Time {
	if validity == "" {
		return now
	}
	t, err := time.Parse("2006-01-02", validity)
	if err != nil {
		return now
	}
	return t
}
