package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

// vehicleRule is one entry of the ordered vehicle-naming cascade. The first
// rule whose match accepts the leading type token resolves the name; there
// is no fallthrough between rules.
type vehicleRule struct {
	match   func(firstType string) bool
	resolve func(types, vehicles []string) string
}

// dr1aMarker recognizes the trailing lowercase-m variant marker on DR1A
// family type tokens (DR1AM, "DR1A m", DR1AMv).
var dr1aMarker = regexp.MustCompile(`(?i)m[^c]?$`)

var vehicleRules = []vehicleRule{
	{
		// Single-unit types keep their number verbatim.
		match: func(t string) bool { return t == "620M" || t == "Siemens" },
		resolve: func(types, vehicles []string) string {
			return vehicles[0]
		},
	},
	{
		// Passenger car sets: car count plus the numeric base of the first
		// car number.
		match: func(t string) bool { return t == "Seat" || t == "Coupe" },
		resolve: func(types, vehicles []string) string {
			base := strings.SplitN(vehicles[0], "-", 2)[0]
			return fmt.Sprintf("%d vag. %s", len(types), base)
		},
	},
	{
		match:   func(t string) bool { return strings.HasPrefix(t, "630") },
		resolve: seriesResolver("631-", "630MiL-"),
	},
	{
		match:   func(t string) bool { return strings.HasPrefix(t, "730") },
		resolve: seriesResolver("731-", "730ML-"),
	},
	{
		match:   func(t string) bool { return strings.HasPrefix(t, "EJ575") },
		resolve: seriesResolver("211-", "EJ575-"),
	},
	{
		match: func(t string) bool { return strings.HasPrefix(t, "DR1A") },
		resolve: func(types, vehicles []string) string {
			for i, t := range types {
				if !dr1aMarker.MatchString(t) && !strings.Contains(t, " m") {
					continue
				}
				base := t
				if strings.Contains(t, " ") {
					base = strings.SplitN(t, " ", 2)[0]
				} else {
					base = strings.TrimSuffix(t, "m")
				}
				number := vehicles[0]
				if i < len(vehicles) {
					number = vehicles[i]
				}
				return base + " " + number
			}
			return types[0] + " " + vehicles[0]
		},
	},
	{
		// RA-2 railbuses: the unit is named after the car ending in -01.
		match: func(t string) bool { return strings.HasPrefix(t, "RA-2") },
		resolve: func(types, vehicles []string) string {
			for _, v := range vehicles {
				if strings.HasSuffix(v, "-01") {
					base := strings.SplitN(types[0], " ", 2)[0]
					return base + "-" + strings.SplitN(v, "-", 2)[0]
				}
			}
			return vehicles[0]
		},
	},
}

// seriesResolver builds the shared rule body for multi-unit series where one
// specific car number prefix names the whole unit.
func seriesResolver(numberPrefix, label string) func(types, vehicles []string) string {
	return func(types, vehicles []string) string {
		for _, v := range vehicles {
			if strings.HasPrefix(v, numberPrefix) {
				return label + strings.TrimPrefix(v, numberPrefix)
			}
		}
		return vehicles[0]
	}
}

// ParseVehicleName derives the canonical vehicle designation from the
// comma-separated technical type and vehicle number columns. Either side
// empty means no vehicle is known for this row direction.
func ParseVehicleName(typeStr, vehicleStr string) string {
	if strings.TrimSpace(typeStr) == "" || strings.TrimSpace(vehicleStr) == "" {
		return ""
	}

	types := splitList(typeStr)
	for i, t := range types {
		types[i] = strings.TrimPrefix(t, "*")
	}
	vehicles := splitList(vehicleStr)
	if len(types) == 0 || len(vehicles) == 0 {
		return ""
	}

	for _, rule := range vehicleRules {
		if rule.match(types[0]) {
			return rule.resolve(types, vehicles)
		}
	}
	return vehicles[0]
}

// splitList splits a comma-separated cell into trimmed entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
