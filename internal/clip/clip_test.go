package clip

import (
	"strings"
	"testing"
)

var tabHeaders = []string{
	"Vehicle working designation",
	"Date",
	"Departure date",
	"Arrival date",
	"Departure planned",
	"Arrival planned",
	"Departure trip number",
	"Arrival trip number",
	"Departure train number",
	"Arrival train number",
	"Starting location",
	"End location",
	"Vehicle name",
}

func tabBlock(rows ...[]string) string {
	lines := []string{strings.Join(tabHeaders, "\t")}
	for _, row := range rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	return strings.Join(lines, "\n")
}

func sampleRow() []string {
	return []string{
		"W-1",
		"2025-12-16",
		"2025-12-16",
		"2025-12-16",
		"08:48",
		"08:30",
		"T-101",
		"T-100",
		"101",
		"100",
		"LTE",
		"RIG",
		"620-010",
	}
}

func TestParseTabData(t *testing.T) {
	result := ParseTabData(tabBlock(sampleRow()), nil, nil)
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}

	record := result.Records[0]
	if record.ID != "W120251216T101" {
		t.Fatalf("expected deterministic dash-stripped id, got %q", record.ID)
	}
	if record.DepartureDateTime == nil || record.ArrivalDateTime == nil {
		t.Fatalf("expected both instants to parse: %+v", record)
	}
	if record.DepartureDecimal == nil || *record.DepartureDecimal != 503088 {
		t.Fatalf("expected departure decimal 503088, got %v", record.DepartureDecimal)
	}
	if record.ArrivalDecimal == nil || *record.ArrivalDecimal != 503070 {
		t.Fatalf("expected arrival decimal 503070, got %v", record.ArrivalDecimal)
	}
	if record.StartingLocation != "LTE" || record.EndLocation != "RIG" {
		t.Fatalf("unexpected locations: %+v", record)
	}

	if len(result.DepotList) != 2 {
		t.Fatalf("expected both locations indexed as depots, got %v", result.DepotList)
	}
	if len(result.DateList) != 1 || result.DateList[0] != "2025-12-16" {
		t.Fatalf("expected date index [2025-12-16], got %v", result.DateList)
	}
}

func TestParseTabDataSeedsAreKept(t *testing.T) {
	result := ParseTabData(tabBlock(sampleRow()), []string{"VIL"}, []string{"2025-01-01"})
	if len(result.DepotList) != 3 || result.DepotList[0] != "VIL" {
		t.Fatalf("expected seeded depot to survive, got %v", result.DepotList)
	}
	if len(result.DateList) != 2 || result.DateList[0] != "2025-01-01" {
		t.Fatalf("expected seeded date to survive sorted, got %v", result.DateList)
	}
}

func TestParseTabDataMissingHeaders(t *testing.T) {
	text := "Date\tVehicle name\n2025-12-16\t620-010"
	result := ParseTabData(text, nil, nil)
	if len(result.Records) != 0 {
		t.Fatalf("expected incomplete header row to reject the block, got %d records", len(result.Records))
	}
}

func TestParseTabDataSkipsBadRows(t *testing.T) {
	short := sampleRow()[:5]
	noTimes := sampleRow()
	noTimes[4] = ""
	noTimes[5] = ""

	result := ParseTabData(tabBlock(short, noTimes, sampleRow()), nil, nil)
	if len(result.Records) != 1 {
		t.Fatalf("expected only the well-formed row to survive, got %d", len(result.Records))
	}
}

func TestRecordIDFallbacks(t *testing.T) {
	r := Record{VehicleWorkingDesignation: "W-2", Date: "2025-12-16", DepartureTrainNumber: "202"}
	if got := RecordID(r); got != "W220251216202" {
		t.Fatalf("expected fallback to date and train number, got %q", got)
	}

	r.DepartureDate = "2025-12-17"
	r.DepartureTripNumber = "T-5"
	if got := RecordID(r); got != "W220251217T5" {
		t.Fatalf("expected departure date and trip number to win, got %q", got)
	}
}

func TestCombineInstant(t *testing.T) {
	if got := combineInstant("2025-12-16", "08:48"); got == nil || got.Hour() != 8 || got.Minute() != 48 {
		t.Fatalf("expected minute-precision clock to parse, got %v", got)
	}
	if got := combineInstant("2025-12-16", "08:48:30"); got == nil || got.Second() != 30 {
		t.Fatalf("expected second-precision clock to parse, got %v", got)
	}
	if got := combineInstant("", "08:48"); got != nil {
		t.Fatalf("expected missing date to yield nil")
	}
	if got := combineInstant("2025-12-16", "quarter past"); got != nil {
		t.Fatalf("expected malformed clock to yield nil")
	}
}
