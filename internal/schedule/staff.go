package schedule

import (
	"strings"
	"time"

	"rolldepot/internal/models"
)

// Occupation codes derived from the duty code's first letter.
const (
	OccupationMachinist = "M"
	OccupationConductor = "K"
)

// occupationFromDuty infers the occupation from a duty code. A leading R
// (reserve) defers to the second character; anything unrecognized maps to
// the empty occupation, which is not an error.
func occupationFromDuty(duty string) string {
	letters := []rune(strings.ToUpper(duty))
	if len(letters) == 0 {
		return ""
	}
	occ := letters[0]
	if occ == 'R' {
		if len(letters) < 2 {
			return ""
		}
		occ = letters[1]
	}
	switch occ {
	case 'M':
		return OccupationMachinist
	case 'K':
		return OccupationConductor
	default:
		return ""
	}
}

// ParseStaff splits the comma-aligned staff columns of one mapped row into
// individual assignments. suffix selects the direction ("In" or "Out");
// base anchors the duty time window. Entries with an empty name are skipped
// without disturbing the positional alignment of the other columns.
func ParseStaff(row RawRow, suffix string, base time.Time) []models.StaffAssignment {
	drivers := splitList(row.Text("driver" + suffix))
	phones := splitList(row.Text("phone" + suffix))
	personnelNumbers := splitList(row.Text("driverPersonnelNumber" + suffix))
	duties := splitList(row.Text("duty" + suffix))
	startingTimes := splitList(row.Text("dutyStartingTime" + suffix))
	endTimes := splitList(row.Text("dutyEndTime" + suffix))

	at := func(list []string, i int) string {
		if i < len(list) {
			return list[i]
		}
		return ""
	}

	var staff []models.StaffAssignment
	for i, name := range drivers {
		if name == "" {
			continue
		}
		duty := at(duties, i)
		staff = append(staff, models.StaffAssignment{
			ID:               at(personnelNumbers, i),
			Name:             name,
			Phone:            at(phones, i),
			Occupation:       occupationFromDuty(duty),
			Duty:             duty,
			DutyStartingTime: ParseTimeWithOffset(TextValue(at(startingTimes, i)), base),
			DutyEndTime:      ParseTimeWithOffset(TextValue(at(endTimes, i)), base),
		})
	}
	return staff
}
