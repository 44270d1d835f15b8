// Package clip is the tab-delimited clipboard import pipeline. It is the
// simpler sibling of the workbook importer: one fixed-column block in, a
// flat record list plus depot/date indexes out, with user-assigned tracks
// preserved across destructive re-imports.
package clip

import (
	"sort"
	"strings"
	"time"

	"rolldepot/internal/schedule"
)

// heads maps the required tab-text column headers to record fields. Every
// header must be present or the whole block is rejected.
var heads = map[string]string{
	"Vehicle working designation": "vehicleWorkingDesignation",
	"Date":                        "date",
	"Departure date":              "departureDate",
	"Arrival date":                "arrivalDate",
	"Departure planned":           "departurePlanned",
	"Arrival planned":             "arrivalPlanned",
	"Departure trip number":       "departureTripNumber",
	"Arrival trip number":         "arrivalTripNumber",
	"Departure train number":      "departureTrainNumber",
	"Arrival train number":        "arrivalTrainNumber",
	"Starting location":           "startingLocation",
	"End location":                "endLocation",
	"Vehicle name":                "vehicleName",
}

// Record is one parsed clipboard row. The ID is derived deterministically
// from the working designation, date and trip number so a re-import of the
// same block reproduces the same IDs.
type Record struct {
	ID                        string     `json:"id"`
	VehicleWorkingDesignation string     `json:"vehicleWorkingDesignation,omitempty"`
	Date                      string     `json:"date,omitempty"`
	DepartureDate             string     `json:"departureDate,omitempty"`
	ArrivalDate               string     `json:"arrivalDate,omitempty"`
	DeparturePlanned          string     `json:"departurePlanned,omitempty"`
	ArrivalPlanned            string     `json:"arrivalPlanned,omitempty"`
	DepartureTripNumber       string     `json:"departureTripNumber,omitempty"`
	ArrivalTripNumber         string     `json:"arrivalTripNumber,omitempty"`
	DepartureTrainNumber      string     `json:"departureTrainNumber,omitempty"`
	ArrivalTrainNumber        string     `json:"arrivalTrainNumber,omitempty"`
	StartingLocation          string     `json:"startingLocation,omitempty"`
	EndLocation               string     `json:"endLocation,omitempty"`
	VehicleName               string     `json:"vehicleName,omitempty"`
	DepartureDateTime         *time.Time `json:"departureDateTime"`
	ArrivalDateTime           *time.Time `json:"arrivalDateTime"`
	DepartureDecimal          *int       `json:"departureDecimal"`
	ArrivalDecimal            *int       `json:"arrivalDecimal"`
	TargetTrack               string     `json:"targetTrack,omitempty"`
	StartingTrack             string     `json:"startingTrack,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
}

// ParseResult is one parsed block plus the depot/date indexes, which union
// externally supplied seed lists with what the block references.
type ParseResult struct {
	Records   []Record
	DepotList []string
	DateList  []string
}

// ParseTabData parses a tab-delimited block: the first line carries headers
// validated against the required set, each further line one record. Lines
// with a differing column count are skipped; a row is kept only when at
// least one of its arrival/departure instants parses.
func ParseTabData(text string, depotSeed, dateSeed []string) ParseResult {
	var result ParseResult
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return result
	}

	headers := strings.Split(strings.TrimRight(lines[0], "\r"), "\t")
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	for required := range heads {
		if !present[required] {
			return result
		}
	}

	depots := newStringSet(depotSeed)
	dates := newStringSet(dateSeed)

	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, "\t")
		if len(values) != len(headers) {
			continue
		}

		record := Record{}
		for i, header := range headers {
			setField(&record, heads[strings.TrimSpace(header)], strings.TrimSpace(values[i]))
		}

		departureDate := record.DepartureDate
		if departureDate == "" {
			departureDate = record.Date
		}
		record.DepartureDateTime = combineInstant(departureDate, record.DeparturePlanned)

		arrivalDate := record.ArrivalDate
		if arrivalDate == "" {
			arrivalDate = record.Date
		}
		record.ArrivalDateTime = combineInstant(arrivalDate, record.ArrivalPlanned)

		if record.DepartureDateTime == nil && record.ArrivalDateTime == nil {
			continue
		}
		if record.ArrivalDateTime != nil {
			dates.add(arrivalDate)
			record.ArrivalDecimal = schedule.TimeToDecimal(record.ArrivalDateTime)
		}
		if record.DepartureDateTime != nil {
			dates.add(departureDate)
			record.DepartureDecimal = schedule.TimeToDecimal(record.DepartureDateTime)
		}
		depots.add(record.StartingLocation)
		depots.add(record.EndLocation)

		record.ID = RecordID(record)
		result.Records = append(result.Records, record)
	}

	result.DepotList = depots.values()
	result.DateList = dates.sorted()
	return result
}

// RecordID derives the deterministic record identifier from the working
// designator, date and trip/train number, with dashes stripped.
func RecordID(r Record) string {
	date := r.DepartureDate
	if date == "" {
		date = r.Date
	}
	number := r.DepartureTripNumber
	if number == "" {
		number = r.DepartureTrainNumber
	}
	id := r.VehicleWorkingDesignation + date + number
	return strings.ReplaceAll(id, "-", "")
}

// combineInstant joins a calendar date and a planned wall-clock time into an
// absolute UTC instant, nil when either part is absent or malformed.
func combineInstant(date, clock string) *time.Time {
	if date == "" || clock == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04Z", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, date+"T"+clock+"Z"); err == nil {
			return &t
		}
	}
	return nil
}

func setField(r *Record, field, value string) {
	switch field {
	case "vehicleWorkingDesignation":
		r.VehicleWorkingDesignation = value
	case "date":
		r.Date = value
	case "departureDate":
		r.DepartureDate = value
	case "arrivalDate":
		r.ArrivalDate = value
	case "departurePlanned":
		r.DeparturePlanned = value
	case "arrivalPlanned":
		r.ArrivalPlanned = value
	case "departureTripNumber":
		r.DepartureTripNumber = value
	case "arrivalTripNumber":
		r.ArrivalTripNumber = value
	case "departureTrainNumber":
		r.DepartureTrainNumber = value
	case "arrivalTrainNumber":
		r.ArrivalTrainNumber = value
	case "startingLocation":
		r.StartingLocation = value
	case "endLocation":
		r.EndLocation = value
	case "vehicleName":
		r.VehicleName = value
	}
}

type stringSet struct {
	seen  map[string]struct{}
	order []string
}

func newStringSet(seed []string) *stringSet {
	s := &stringSet{seen: make(map[string]struct{})}
	for _, v := range seed {
		s.add(v)
	}
	return s
}

func (s *stringSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *stringSet) values() []string {
	return append([]string(nil), s.order...)
}

func (s *stringSet) sorted() []string {
	out := s.values()
	sort.Strings(out)
	return out
}
