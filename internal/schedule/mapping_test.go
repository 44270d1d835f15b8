package schedule

import (
	"errors"
	"testing"
)

func TestNormalizeCell(t *testing.T) {
	v := NormalizeCell("  620M  ")
	if v.Text() != "620M" || v.Empty() {
		t.Fatalf("expected trimmed text value, got %+v", v)
	}
	if _, ok := v.Number(); ok {
		t.Fatalf("expected non-numeric cell to carry no number")
	}

	v = NormalizeCell("46003")
	n, ok := v.Number()
	if !ok || n != 46003 {
		t.Fatalf("expected numeric reading 46003, got %v %v", n, ok)
	}
	if v.Text() != "46003" {
		t.Fatalf("expected original text to be kept, got %q", v.Text())
	}

	if !NormalizeCell("   ").Empty() {
		t.Fatalf("expected blank cell to be empty")
	}
}

func TestValidateMapping(t *testing.T) {
	if err := ValidateMapping(nil); !errors.Is(err, ErrMappingsNotLoaded) {
		t.Fatalf("expected ErrMappingsNotLoaded for nil mapping, got %v", err)
	}
	if err := ValidateMapping(map[string]string{}); !errors.Is(err, ErrMappingsNotLoaded) {
		t.Fatalf("expected ErrMappingsNotLoaded for empty mapping, got %v", err)
	}
	if err := ValidateMapping(map[string]string{"Arrival": "arrival"}); err != nil {
		t.Fatalf("expected non-empty mapping to validate, got %v", err)
	}
}

func TestMissingMandatoryHeaders(t *testing.T) {
	missing := MissingMandatoryHeaders([]string{"Network point name", "Arrival", "Departure"})
	if len(missing) != 0 {
		t.Fatalf("expected complete header row, got missing %v", missing)
	}
	missing = MissingMandatoryHeaders([]string{"Network point name", "Departure"})
	if len(missing) != 1 || missing[0] != "Arrival" {
		t.Fatalf("expected Arrival to be reported missing, got %v", missing)
	}
}

func TestMapRow(t *testing.T) {
	mapping := map[string]string{
		"Network point name": "networkPointName",
		"Arrival":            "arrival",
	}
	headers := []string{"Network point name", "Unmapped column", "Arrival"}
	cells := []string{"Riga", "ignored", "8:48"}

	row := MapRow(mapping, headers, cells)
	if row.Text("networkPointName") != "Riga" {
		t.Fatalf("expected mapped station name, got %q", row.Text("networkPointName"))
	}
	if row.Text("arrival") != "8:48" {
		t.Fatalf("expected mapped arrival, got %q", row.Text("arrival"))
	}
	if len(row) != 2 {
		t.Fatalf("expected unmapped column to be dropped, got %d fields", len(row))
	}

	// Short rows stop at the available cells.
	row = MapRow(mapping, headers, []string{"Riga"})
	if len(row) != 1 {
		t.Fatalf("expected short row to yield one field, got %d", len(row))
	}
}
