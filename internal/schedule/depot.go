package schedule

import (
	"regexp"
	"strings"
)

// depotSuffix marks the two mirrored views of one maintenance depot sheet.
var depotSuffix = regexp.MustCompile(`[+-]D$`)

// NormalizeDepotCode merges the mirrored +D/-D sheet names into the single
// canonical .D code. Other sheet names pass through unchanged.
func NormalizeDepotCode(sheetName string) string {
	return depotSuffix.ReplaceAllString(sheetName, ".D")
}

// IsDepotSheet reports whether a sheet name carries the +D/-D depot suffix.
func IsDepotSheet(sheetName string) bool {
	return depotSuffix.MatchString(sheetName)
}

// dedupeKeyFields are the mapped fields whose combination identifies a row
// duplicated across the two mirrored depot sheets.
var dedupeKeyFields = []string{
	"validityIn", "validityOut",
	"trainNoIn", "trainNoOut",
	"arrival", "departure",
	"vehicleNoIn", "vehicleNoOut",
}

// DedupeKey builds the composite key used to drop rows that legitimately
// appear on both views of a depot sheet.
func DedupeKey(row RawRow) string {
	parts := make([]string, len(dedupeKeyFields))
	for i, field := range dedupeKeyFields {
		parts[i] = row.Text(field)
	}
	return strings.Join(parts, "|")
}
