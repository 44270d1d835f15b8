// Package fieldmaps supplies the raw-header to canonical-field dictionary
// the importer maps sheet columns with. The dictionary normally lives in the
// database so operators can follow the exporter's header drift without a
// redeploy; a hardcoded default keeps the engine working offline.
package fieldmaps

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Default returns the built-in fallback mapping table.
func Default() map[string]string {
	return map[string]string{
		"Network point name":           "networkPointName",
		"Technical vehicle type.in":    "technicalVehicleTypeIn",
		"Technical vehicle type.out":   "technicalVehicleTypeOut",
		"Vehicle no.in":                "vehicleNoIn",
		"Vehicle no.out":               "vehicleNoOut",
		"Train No.in":                  "trainNoIn",
		"Train No.out":                 "trainNoOut",
		"Arrival":                      "arrival",
		"Departure":                    "departure",
		"Duty.in":                      "dutyIn",
		"Duty.out":                     "dutyOut",
		"Driver.in":                    "driverIn",
		"Phone.in":                     "phoneIn",
		"Driver.out":                   "driverOut",
		"Phone.out":                    "phoneOut",
		"Driver.PersonnelNumber.in":    "driverPersonnelNumberIn",
		"Driver.PersonnelNumber.out":   "driverPersonnelNumberOut",
		"Duty.StartingTime.in":         "dutyStartingTimeIn",
		"Duty.StartingTime.out":        "dutyStartingTimeOut",
		"Duty.EndTime.in":              "dutyEndTimeIn",
		"Duty.EndTime.out":             "dutyEndTimeOut",
		"Validity.in":                  "validityIn",
		"Validity.out":                 "validityOut",
		"Starting location.in":         "startingLocationIn",
		"Starting location.out":        "startingLocationOut",
		"Starting time.in":             "startingTimeIn",
		"Starting time.out":            "startingTimeOut",
		"End location.in":              "endLocationIn",
		"End location.out":             "endLocationOut",
		"Ending time.in":               "endingTimeIn",
		"Ending time.out":              "endingTimeOut",
		"Vehicle working.in":           "vehicleWorkingIn",
		"Vehicle working.out":          "vehicleWorkingOut",
		"Vehicle reg. no.in":           "vehicleRegNoIn",
		"Vehicle reg. no.out":          "vehicleRegNoOut",
		"Train length.in":              "trainLengthIn",
		"Train length.out":             "trainLengthOut",
	}
}

// Source resolves the active mapping dictionary: the database table when one
// is reachable, the built-in default otherwise. A fetch failure never aborts
// an import attempt by itself.
type Source struct {
	Pool *pgxpool.Pool
}

// EnsureSchema creates the mapping table when it does not exist yet.
func (s *Source) EnsureSchema(ctx context.Context) error {
	if s.Pool == nil {
		return nil
	}
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS field_mappings (
			source_field   TEXT PRIMARY KEY,
			internal_field TEXT NOT NULL
		)
	`)
	return err
}

// Current returns the mapping dictionary to use for one import, and whether
// it came from the database or the built-in fallback.
func (s *Source) Current(ctx context.Context) (map[string]string, bool) {
	if s == nil || s.Pool == nil {
		return Default(), false
	}
	mapping, err := s.load(ctx)
	if err != nil || len(mapping) == 0 {
		return Default(), false
	}
	return mapping, true
}

func (s *Source) load(ctx context.Context) (map[string]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT source_field, internal_field FROM field_mappings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mapping := make(map[string]string)
	for rows.Next() {
		var source, internal string
		if err := rows.Scan(&source, &internal); err != nil {
			return nil, err
		}
		mapping[source] = internal
	}
	return mapping, rows.Err()
}

// Replace overwrites the stored mapping table with the supplied dictionary.
func (s *Source) Replace(ctx context.Context, mapping map[string]string) error {
	if s == nil || s.Pool == nil {
		return fmt.Errorf("no mapping database configured")
	}
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM field_mappings`); err != nil {
		return err
	}
	for source, internal := range mapping {
		if _, err := tx.Exec(ctx,
			`INSERT INTO field_mappings (source_field, internal_field) VALUES ($1, $2)`,
			source, internal,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
