package schedule

import (
	"testing"
	"time"
)

func TestParseValidityDateFromString(t *testing.T) {
	if got := ParseValidityDate(TextValue("2025-12-16T00:00:00Z")); got != "2025-12-16" {
		t.Fatalf("expected leading date to be kept, got %q", got)
	}
	if got := ParseValidityDate(TextValue("2025-12-16")); got != "2025-12-16" {
		t.Fatalf("expected plain date to pass through, got %q", got)
	}
	if got := ParseValidityDate(TextValue("next tuesday")); got != "" {
		t.Fatalf("expected unparseable text to yield empty, got %q", got)
	}
	if got := ParseValidityDate(Value{}); got != "" {
		t.Fatalf("expected empty cell to yield empty, got %q", got)
	}
}

func TestParseValidityDateFromSerial(t *testing.T) {
	if got := ParseValidityDate(NumberValue(46003)); got != "2025-12-12" {
		t.Fatalf("expected serial 46003 to resolve to 2025-12-12, got %q", got)
	}
}

func TestParseTimeWithOffset(t *testing.T) {
	base := time.Date(2025, time.December, 16, 0, 0, 0, 0, time.UTC)

	got := ParseTimeWithOffset(TextValue("8:48"), base)
	if got == nil {
		t.Fatalf("expected plain time to parse")
	}
	want := time.Date(2025, time.December, 16, 8, 48, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got = ParseTimeWithOffset(TextValue("23:59 (+1)"), base)
	if got == nil || !got.Equal(time.Date(2025, time.December, 17, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("expected +1 day offset to land on the 17th, got %v", got)
	}

	got = ParseTimeWithOffset(TextValue("00:24 (-1)"), base)
	if got == nil || !got.Equal(time.Date(2025, time.December, 15, 0, 24, 0, 0, time.UTC)) {
		t.Fatalf("expected -1 day offset to land on the 15th, got %v", got)
	}

	if got := ParseTimeWithOffset(TextValue("not a time"), base); got != nil {
		t.Fatalf("expected invalid format to yield nil, got %v", got)
	}
	if got := ParseTimeWithOffset(TextValue("8:48"), time.Time{}); got != nil {
		t.Fatalf("expected zero base to yield nil, got %v", got)
	}
	if got := ParseTimeWithOffset(Value{}, base); got != nil {
		t.Fatalf("expected empty cell to yield nil, got %v", got)
	}
}

func TestParseTimeWithOffsetFromSerial(t *testing.T) {
	base := time.Date(2025, time.December, 16, 0, 0, 0, 0, time.UTC)

	// 08:48 as a day fraction, as time-typed cells arrive in raw form.
	got := ParseTimeWithOffset(NumberValue(0.36666666666666664), base)
	if got == nil {
		t.Fatalf("expected day-fraction cell to parse")
	}
	want := time.Date(2025, time.December, 16, 8, 48, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// A serial with a whole-day part is an absolute instant; the base date
	// does not apply.
	got = ParseTimeWithOffset(NumberValue(46003.5), base)
	if got == nil || !got.Equal(time.Date(2025, time.December, 12, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected absolute instant from a full serial, got %v", got)
	}

	if got := ParseTimeWithOffset(NumberValue(0.5), time.Time{}); got != nil {
		t.Fatalf("expected a bare fraction without a base date to yield nil, got %v", got)
	}
	if got := ParseTimeWithOffset(NumberValue(-1), base); got != nil {
		t.Fatalf("expected a negative serial to yield nil, got %v", got)
	}
}

func TestTimeToDecimal(t *testing.T) {
	if got := TimeToDecimal(nil); got != nil {
		t.Fatalf("expected nil in, nil out")
	}

	epoch := decimalEpoch
	if got := TimeToDecimal(&epoch); got == nil || *got != 0 {
		t.Fatalf("expected the epoch itself to map to zero, got %v", got)
	}

	at := time.Date(2025, time.December, 16, 8, 48, 0, 0, time.UTC)
	if got := TimeToDecimal(&at); got == nil || *got != 503088 {
		t.Fatalf("expected 503088 minutes, got %v", got)
	}

	later := at.Add(time.Minute)
	a, b := TimeToDecimal(&at), TimeToDecimal(&later)
	if *b-*a != 1 {
		t.Fatalf("expected one minute difference, got %d", *b-*a)
	}
}

func TestBaseDate(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	if got := baseDate("2025-12-16", now); !got.Equal(time.Date(2025, time.December, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight of the validity date, got %v", got)
	}
	if got := baseDate("", now); !got.Equal(now) {
		t.Fatalf("expected now when validity is absent, got %v", got)
	}
	if got := baseDate("garbage", now); !got.Equal(now) {
		t.Fatalf("expected now when validity is malformed, got %v", got)
	}
}
