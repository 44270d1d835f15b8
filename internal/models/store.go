package models

import (
	"sync"
	"time"
)

// ModelStore holds the aggregate produced by the most recent import. Imports
// replace the whole model wholesale; the store only serializes access for
// readers and for post-import track assignment.
type ModelStore struct {
	mu    sync.RWMutex
	model *Model
}

// NewModelStore returns a store holding an empty model.
func NewModelStore() *ModelStore {
	return &ModelStore{model: NewModel()}
}

// Replace installs the aggregate from a finished import.
func (s *ModelStore) Replace(model *Model) {
	if model == nil {
		model = NewModel()
	}
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
}

// Clear drops the current aggregate. Used after a catastrophic import
// failure: partial results are discarded, not preserved.
func (s *ModelStore) Clear() {
	s.Replace(nil)
}

// Current returns the live aggregate. Callers must treat it as read-only;
// mutations go through Replace or UpdateRecordTrack.
func (s *ModelStore) Current() *Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// UpdateRecordTrack assigns a track to the arrival or departure record with
// the given id. Arrivals take a target track, departures a starting track.
func (s *ModelStore) UpdateRecordTrack(recordID, track string) bool {
	if recordID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, station := range s.model.Stations {
		for i := range station.Arrivals {
			if station.Arrivals[i].ID == recordID {
				station.Arrivals[i].TargetTrack = track
				return true
			}
		}
		for i := range station.Departures {
			if station.Departures[i].ID == recordID {
				station.Departures[i].StartingTrack = track
				return true
			}
		}
	}
	return false
}

// StationView is a station filtered down to one sheet/date selection.
type StationView struct {
	Code             string            `json:"code"`
	NetworkPointName string            `json:"networkPointName"`
	Arrivals         []ArrivalRecord   `json:"arrivals"`
	Departures       []DepartureRecord `json:"departures"`
}

// FilterRecords returns per-station arrival/departure lists narrowed by
// station code and validity date. Empty selectors match everything.
func (s *ModelStore) FilterRecords(sheet, date string) []StationView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []StationView
	for _, station := range s.model.Stations {
		if sheet != "" && station.Code != sheet {
			continue
		}
		view := StationView{Code: station.Code, NetworkPointName: station.NetworkPointName}
		for _, arr := range station.Arrivals {
			if date == "" || arr.ArrivalDate == date {
				view.Arrivals = append(view.Arrivals, arr)
			}
		}
		for _, dep := range station.Departures {
			if date == "" || dep.DepartureDate == date {
				view.Departures = append(view.Departures, dep)
			}
		}
		result = append(result, view)
	}
	return result
}

// Statistics summarizes the current aggregate.
type Statistics struct {
	Stations        int `json:"stations"`
	Vehicles        int `json:"vehicles"`
	VehicleWorkings int `json:"vehicleWorkings"`
	Staff           int `json:"staff"`
	Duties          int `json:"duties"`
	Arrivals        int `json:"arrivals"`
	Departures      int `json:"departures"`
	Records         int `json:"records"`
	Trains          int `json:"trains"`
	Dates           int `json:"dates"`
}

// Statistics computes summary counts over the current aggregate.
func (s *ModelStore) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		Stations:        len(s.model.Stations),
		Vehicles:        len(s.model.Vehicles),
		VehicleWorkings: len(s.model.VehicleWorkings),
		Staff:           len(s.model.Staff),
		Duties:          len(s.model.Duties),
		Records:         len(s.model.Records),
		Dates:           len(s.model.AvailableDates()),
	}
	for _, station := range s.model.Stations {
		stats.Arrivals += len(station.Arrivals)
		stats.Departures += len(station.Departures)
	}
	for _, day := range s.model.Trains {
		stats.Trains += len(day)
	}
	return stats
}

// Snapshot builds the exportable document for the current aggregate.
func (s *ModelStore) Snapshot(now time.Time) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ExportedAt:      now,
		FileName:        s.model.FileName,
		Stations:        s.model.Stations,
		Vehicles:        s.model.Vehicles,
		VehicleWorkings: s.model.VehicleWorkings,
		Staff:           s.model.Staff,
		Duties:          s.model.Duties,
		Trains:          s.model.Trains,
	}
}
