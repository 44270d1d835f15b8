package schedule

import "testing"

func TestParseVehicleNameSingleUnits(t *testing.T) {
	if got := ParseVehicleName("620M", "620-010"); got != "620-010" {
		t.Fatalf("expected verbatim number for 620M, got %q", got)
	}
	if got := ParseVehicleName("Siemens", "ER2-301"); got != "ER2-301" {
		t.Fatalf("expected verbatim number for Siemens, got %q", got)
	}
	if got := ParseVehicleName("*620M", "620-011"); got != "620-011" {
		t.Fatalf("expected leading star to be stripped from the type, got %q", got)
	}
}

func TestParseVehicleNamePassengerCars(t *testing.T) {
	if got := ParseVehicleName("Seat, Seat, Coupe", "1234-1, 1234-2, 1234-3"); got != "3 vag. 1234" {
		t.Fatalf("expected car-count naming, got %q", got)
	}
	if got := ParseVehicleName("Coupe", "5678-4"); got != "1 vag. 5678" {
		t.Fatalf("expected single coupe naming, got %q", got)
	}
}

func TestParseVehicleNameSeries(t *testing.T) {
	if got := ParseVehicleName("630, 630", "630MiL-001, 631-015"); got != "630MiL-015" {
		t.Fatalf("expected the 631- car to name the 630 unit, got %q", got)
	}
	if got := ParseVehicleName("730, 730", "730ML-003, 731-008"); got != "730ML-008" {
		t.Fatalf("expected the 731- car to name the 730 unit, got %q", got)
	}
	if got := ParseVehicleName("EJ575, EJ575", "212-004, 211-004"); got != "EJ575-004" {
		t.Fatalf("expected the 211- car to name the EJ575 unit, got %q", got)
	}
	// Without the naming car the first number stands in.
	if got := ParseVehicleName("630", "630MiL-001"); got != "630MiL-001" {
		t.Fatalf("expected fallback to the first number, got %q", got)
	}
}

func TestParseVehicleNameDR1A(t *testing.T) {
	if got := ParseVehicleName("DR1Am, DR1A", "3115-1, 3115-2"); got != "DR1A 3115-1" {
		t.Fatalf("expected marker car at position 0 to name the unit, got %q", got)
	}
	if got := ParseVehicleName("DR1A, DR1Am", "3115-1, 3115-2"); got != "DR1A 3115-2" {
		t.Fatalf("expected marker car at position 1 to name the unit, got %q", got)
	}
	if got := ParseVehicleName("DR1A m, DR1A", "3120-1, 3120-2"); got != "DR1A 3120-1" {
		t.Fatalf("expected space-separated marker to be handled, got %q", got)
	}
	if got := ParseVehicleName("DR1A, DR1A", "3125-1, 3125-2"); got != "DR1A 3125-1" {
		t.Fatalf("expected markerless set to fall back to the first car, got %q", got)
	}
}

func TestParseVehicleNameRA2(t *testing.T) {
	if got := ParseVehicleName("RA-2 mod", "003-02, 003-01"); got != "RA-2-003" {
		t.Fatalf("expected the -01 car to name the railbus, got %q", got)
	}
	if got := ParseVehicleName("RA-2", "003-02, 003-03"); got != "003-02" {
		t.Fatalf("expected fallback to the first number without a -01 car, got %q", got)
	}
}

func TestParseVehicleNameFallbacks(t *testing.T) {
	if got := ParseVehicleName("UnknownType", "999-001, 999-002"); got != "999-001" {
		t.Fatalf("expected unknown type to use the first number, got %q", got)
	}
	if got := ParseVehicleName("", "620-010"); got != "" {
		t.Fatalf("expected empty type to yield empty, got %q", got)
	}
	if got := ParseVehicleName("620M", "  "); got != "" {
		t.Fatalf("expected blank numbers to yield empty, got %q", got)
	}
}

func TestParseVehicleNameDeterministic(t *testing.T) {
	first := ParseVehicleName("630, 630", "630MiL-001, 631-015")
	for i := 0; i < 5; i++ {
		if got := ParseVehicleName("630, 630", "630MiL-001, 631-015"); got != first {
			t.Fatalf("expected identical input to resolve identically, got %q then %q", first, got)
		}
	}
}
