package clip

import (
	"sort"
	"time"

	"rolldepot/internal/schedule"
)

// TimeRange selects the shift window used when filtering by decimal time.
type TimeRange string

const (
	RangeDay   TimeRange = "day"   // 06:00-20:00
	RangeNight TimeRange = "night" // 18:00-08:00 next day
	RangeAll   TimeRange = "all"   // 00:00-24:00
)

// IsTimeInRange reports whether a decimal minute value falls inside the
// selected range relative to the selected date's midnight. Comparisons use
// the decimal scalar exclusively, never wall-clock time.
func IsTimeInRange(decimal *int, timeRange TimeRange, selectedDate string) bool {
	if decimal == nil || timeRange == "" || selectedDate == "" {
		return false
	}
	midnight, err := time.Parse("2006-01-02", selectedDate)
	if err != nil {
		return false
	}
	base := schedule.TimeToDecimal(&midnight)

	switch timeRange {
	case RangeDay:
		return *decimal >= *base+6*60 && *decimal < *base+20*60
	case RangeNight:
		return *decimal >= *base+18*60 && *decimal < *base+32*60
	case RangeAll:
		return *decimal >= *base && *decimal < *base+24*60
	default:
		return false
	}
}

// FilteredRecords partitions the record set for one depot and date into
// arrivals and departures, each with the in-range subset, sorted by decimal
// time.
type FilteredRecords struct {
	IntimeArrivals   []Record `json:"intimeArrivals"`
	IntimeDepartures []Record `json:"intimeDepartures"`
	Arrivals         []Record `json:"arrivals"`
	Departures       []Record `json:"departures"`
}

// Filter returns the depot's arrivals and departures for the selected date
// and range. Nil when no depot or date is selected.
func (s *Store) Filter(depot, date string, timeRange TimeRange) *FilteredRecords {
	if depot == "" || date == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &FilteredRecords{}
	for _, record := range s.records {
		if record.EndLocation == depot {
			out.Arrivals = append(out.Arrivals, record)
			if IsTimeInRange(record.ArrivalDecimal, timeRange, date) {
				out.IntimeArrivals = append(out.IntimeArrivals, record)
			}
		}
		if record.StartingLocation == depot {
			out.Departures = append(out.Departures, record)
			if IsTimeInRange(record.DepartureDecimal, timeRange, date) {
				out.IntimeDepartures = append(out.IntimeDepartures, record)
			}
		}
	}
	sortByDecimal(out.Arrivals, arrivalDecimal)
	sortByDecimal(out.IntimeArrivals, arrivalDecimal)
	sortByDecimal(out.Departures, departureDecimal)
	sortByDecimal(out.IntimeDepartures, departureDecimal)
	return out
}

// Turnaround pairs one vehicle's arrival with its next departure at a depot.
type Turnaround struct {
	Vehicle   string  `json:"vehicle"`
	Arrival   *Record `json:"arrival"`
	Departure *Record `json:"departure"`
}

// Turnarounds groups the depot's records by vehicle and pairs each arrival
// with the earliest later departure; departures without a matching arrival
// trail as departure-only pairs.
func (s *Store) Turnarounds(depot string) []Turnaround {
	if depot == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type group struct {
		arrivals   []Record
		departures []Record
	}
	groups := make(map[string]*group)
	var vehicleOrder []string

	for _, record := range s.records {
		vehicle := record.VehicleName
		if vehicle == "" {
			continue
		}
		if record.StartingLocation != depot && record.EndLocation != depot {
			continue
		}
		g, ok := groups[vehicle]
		if !ok {
			g = &group{}
			groups[vehicle] = g
			vehicleOrder = append(vehicleOrder, vehicle)
		}
		if record.EndLocation == depot {
			g.arrivals = append(g.arrivals, record)
		}
		if record.StartingLocation == depot {
			g.departures = append(g.departures, record)
		}
	}

	var result []Turnaround
	for _, vehicle := range vehicleOrder {
		g := groups[vehicle]
		sortByDecimal(g.arrivals, arrivalDecimal)
		sortByDecimal(g.departures, departureDecimal)

		departures := append([]Record(nil), g.departures...)
		for i := range g.arrivals {
			arrival := g.arrivals[i]
			var departure *Record
			for j := range departures {
				if later(departures[j].DepartureDecimal, arrival.ArrivalDecimal) {
					d := departures[j]
					departure = &d
					departures = append(departures[:j], departures[j+1:]...)
					break
				}
			}
			a := arrival
			result = append(result, Turnaround{Vehicle: vehicle, Arrival: &a, Departure: departure})
		}
		for i := range departures {
			d := departures[i]
			result = append(result, Turnaround{Vehicle: vehicle, Departure: &d})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return turnaroundDecimal(result[i]) < turnaroundDecimal(result[j])
	})
	return result
}

func turnaroundDecimal(t Turnaround) int {
	if t.Arrival != nil && t.Arrival.ArrivalDecimal != nil {
		return *t.Arrival.ArrivalDecimal
	}
	if t.Departure != nil && t.Departure.DepartureDecimal != nil {
		return *t.Departure.DepartureDecimal
	}
	return 0
}

func later(candidate, reference *int) bool {
	if candidate == nil || reference == nil {
		return false
	}
	return *candidate > *reference
}

func arrivalDecimal(r Record) *int   { return r.ArrivalDecimal }
func departureDecimal(r Record) *int { return r.DepartureDecimal }

func sortByDecimal(records []Record, key func(Record) *int) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := key(records[i]), key(records[j])
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
}
