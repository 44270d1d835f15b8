package models

import (
	"sort"
	"strconv"
	"time"
)

// Station groups arrival and departure records under a normalized depot code.
// Stations are created lazily on the first row that references them and only
// grow during a single import pass.
type Station struct {
	Code             string            `json:"code"`
	NetworkPointName string            `json:"networkPointName"`
	Arrivals         []ArrivalRecord   `json:"arrivals"`
	Departures       []DepartureRecord `json:"departures"`
}

// ArrivalRecord describes one inbound movement at a station.
type ArrivalRecord struct {
	ID                    string            `json:"id"`
	RowID                 int               `json:"rowID"`
	TrainNo               string            `json:"trainNo,omitempty"`
	ArrivalDate           string            `json:"arrivalDate,omitempty"`
	Arrival               *time.Time        `json:"arrival"`
	ArrivalDecimal        *int              `json:"arrivalDecimal"`
	ArrivalPlanned        string            `json:"arrivalPlanned,omitempty"`
	Vehicle               string            `json:"vehicle,omitempty"`
	VehicleWorking        string            `json:"vehicleWorking,omitempty"`
	Staff                 []StaffAssignment `json:"staff"`
	DriverPersonnelNumber string            `json:"driverPersonnelNumber,omitempty"`
	DepartureTrainNo      string            `json:"departureTrainNo,omitempty"`
	TargetTrack           string            `json:"targetTrack,omitempty"`
	StartingLocation      string            `json:"startingLocation,omitempty"`
	EndLocation           string            `json:"endLocation,omitempty"`

	// Compatibility fields kept for older consumers of the record shape.
	ArrivalTrainNumber string `json:"arrivalTrainNumber,omitempty"`
	ArrivalEmployee1   string `json:"arrivalEmployee1,omitempty"`
}

// DepartureRecord describes one outbound movement at a station.
type DepartureRecord struct {
	ID                    string            `json:"id"`
	RowID                 int               `json:"rowID"`
	TrainNo               string            `json:"trainNo,omitempty"`
	DepartureDate         string            `json:"departureDate,omitempty"`
	Departure             *time.Time        `json:"departure"`
	DepartureDecimal      *int              `json:"departureDecimal"`
	DeparturePlanned      string            `json:"departurePlanned,omitempty"`
	Vehicle               string            `json:"vehicle,omitempty"`
	VehicleWorking        string            `json:"vehicleWorking,omitempty"`
	Staff                 []StaffAssignment `json:"staff"`
	DriverPersonnelNumber string            `json:"driverPersonnelNumber,omitempty"`
	ArrivalTrainNo        string            `json:"arrivalTrainNo,omitempty"`
	StartingTrack         string            `json:"startingTrack,omitempty"`
	StartingLocation      string            `json:"startingLocation,omitempty"`
	EndLocation           string            `json:"endLocation,omitempty"`

	DepartureTrainNumber string `json:"departureTrainNumber,omitempty"`
	DepartureEmployee1   string `json:"departureEmployee1,omitempty"`
}

// StaffAssignment is the row-local staff entry attached to a single movement.
type StaffAssignment struct {
	ID               string     `json:"id,omitempty"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone,omitempty"`
	Occupation       string     `json:"occ,omitempty"`
	Duty             string     `json:"duty,omitempty"`
	DutyStartingTime *time.Time `json:"dutyStartingTime"`
	DutyEndTime      *time.Time `json:"dutyEndTime"`
}

// StaffMember is the aggregate form of a person across all rows, keyed by
// personnel number. People without a personnel number stay row-local.
type StaffMember struct {
	ID         string   `json:"id"`
	Occupation string   `json:"occ,omitempty"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone,omitempty"`
	Duties     []string `json:"duties"`
	Dates      []string `json:"dates"`
}

// Vehicle accumulates every number, registration and working seen for one
// derived vehicle name.
type Vehicle struct {
	Name            string   `json:"vehicle"`
	VehicleNo       []string `json:"vehicleNo"`
	VehicleRegNo    []string `json:"vehicleRegNo"`
	VehicleWorkings []string `json:"vehicleWorkings"`
}

// VehicleWorking is a named duty cycle of a rolling-stock unit. The first
// occurrence of a working id wins; later rows never overwrite it.
type VehicleWorking struct {
	WorkingID        string     `json:"vehicleWorking"`
	StartingTime     *time.Time `json:"startingTime"`
	StartingLocation string     `json:"startingLocation,omitempty"`
	EndingTime       *time.Time `json:"endingTime"`
	EndLocation      string     `json:"endLocation,omitempty"`
}

// Duty is a staff shift, keyed by date:code so the same code on different
// days stays distinct.
type Duty struct {
	Code         string     `json:"id"`
	Date         string     `json:"date"`
	StartingTime *time.Time `json:"startingTime"`
	EndTime      *time.Time `json:"endTime"`
	Trains       []string   `json:"trains"`
}

// Stop is one visited station on a train's route. Arrival and departure are
// filled independently and never overwritten once set.
type Stop struct {
	Station   string     `json:"station"`
	Code      string     `json:"code"`
	Arrival   *time.Time `json:"arrival"`
	Departure *time.Time `json:"departure"`
}

// Train is a per-date train with its route and assigned staff. Staff holds at
// most one entry per personnel number.
type Train struct {
	No               string            `json:"no"`
	StartingLocation string            `json:"startingLocation,omitempty"`
	EndLocation      string            `json:"endLocation,omitempty"`
	Staff            []StaffAssignment `json:"staff"`
	Stops            []Stop            `json:"stops"`
}

// Record is the retained raw row plus derived scalars, kept for diagnostic
// display regardless of whether it produced arrival/departure entries.
type Record struct {
	ID               string            `json:"id"`
	Sheet            string            `json:"sheetName"`
	OriginalSheet    string            `json:"originalSheet"`
	RowNumber        int               `json:"rowNumber"`
	Fields           map[string]string `json:"fields"`
	VehicleIn        string            `json:"vehicleIn,omitempty"`
	VehicleOut       string            `json:"vehicleOut,omitempty"`
	ArrivalTime      *time.Time        `json:"arrivalTime"`
	ArrivalDecimal   *int              `json:"arrivalDecimal"`
	ArrivalDate      string            `json:"arrivalDate,omitempty"`
	DepartureTime    *time.Time        `json:"departureTime"`
	DepartureDecimal *int              `json:"departureDecimal"`
	DepartureDate    string            `json:"departureDate,omitempty"`
}

// Model is the full aggregate produced by one import. It is rebuilt from
// scratch on every import call; a caller owns its lifetime.
type Model struct {
	Stations        []*Station          `json:"stations"`
	Vehicles        []*Vehicle          `json:"vehicles"`
	VehicleWorkings []*VehicleWorking   `json:"vehicleWorkings"`
	Staff           []*StaffMember      `json:"staff"`
	Duties          []*Duty             `json:"duties"`
	Trains          map[string][]*Train `json:"trains"`
	Records         []Record            `json:"records"`
	Sheets          []string            `json:"sheets"`
	FileName        string              `json:"fileName,omitempty"`
	LastImported    time.Time           `json:"lastImported"`
}

// NewModel returns an empty aggregate ready to be filled by one import pass.
func NewModel() *Model {
	return &Model{Trains: make(map[string][]*Train)}
}

// StationByCode returns the station with the given normalized code.
func (m *Model) StationByCode(code string) *Station {
	for _, s := range m.Stations {
		if s.Code == code {
			return s
		}
	}
	return nil
}

// TrainsByDate returns the trains operating on the given validity date.
func (m *Model) TrainsByDate(date string) []*Train {
	return m.Trains[date]
}

// TrainByNoAndDate looks up one train on one operating date.
func (m *Model) TrainByNoAndDate(no, date string) *Train {
	for _, t := range m.Trains[date] {
		if t.No == no {
			return t
		}
	}
	return nil
}

// AvailableDates lists every date referenced by arrival or departure records.
func (m *Model) AvailableDates() []string {
	seen := make(map[string]struct{})
	var dates []string
	add := func(d string) {
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	for _, s := range m.Stations {
		for _, a := range s.Arrivals {
			add(a.ArrivalDate)
		}
		for _, d := range s.Departures {
			add(d.DepartureDate)
		}
	}
	sort.Strings(dates)
	return dates
}

// CompareTrainNo orders train numbers numerically when both parse as
// integers, lexicographically otherwise.
func CompareTrainNo(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
