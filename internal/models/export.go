package models

import "time"

// Snapshot is the self-describing export document for one imported aggregate.
// It mirrors the shape consumers download for handoff.
type Snapshot struct {
	ExportedAt      time.Time           `json:"exportedAt"`
	FileName        string              `json:"fileName,omitempty"`
	Stations        []*Station          `json:"stations"`
	Vehicles        []*Vehicle          `json:"vehicles"`
	VehicleWorkings []*VehicleWorking   `json:"vehicleWorkings"`
	Staff           []*StaffMember      `json:"staff"`
	Duties          []*Duty             `json:"duties"`
	Trains          map[string][]*Train `json:"trains"`
}
