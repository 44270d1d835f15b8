package schedule

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMappingsNotLoaded signals the import precondition failure: the
// header-to-field dictionary was absent or empty.
var ErrMappingsNotLoaded = errors.New("field mappings not loaded")

// mandatoryHeaders must all be present in a sheet's header row before any of
// its rows are processed; sheets missing one are skipped, not fatal.
var mandatoryHeaders = []string{"Network point name", "Arrival", "Departure"}

// Value is the canonical scalar form of one cell. Raw workbook cells are
// normalized into exactly this shape before any parsing rule runs, so the
// rules never see formula or rich-text wrapper types: excelize already
// resolves formulas to their cached results and flattens rich text, and
// NormalizeCell classifies what remains.
type Value struct {
	raw      string
	num      float64
	isNumber bool
}

// NormalizeCell converts one raw cell string into a Value. Blank cells
// become the empty value; purely numeric cells (date serials among them)
// carry their numeric reading alongside the original text.
func NormalizeCell(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{raw: trimmed, num: n, isNumber: true}
	}
	return Value{raw: trimmed}
}

// TextValue wraps an already-normalized string.
func TextValue(s string) Value { return NormalizeCell(s) }

// NumberValue wraps a numeric cell, e.g. a spreadsheet date serial.
func NumberValue(n float64) Value {
	return Value{raw: strconv.FormatFloat(n, 'f', -1, 64), num: n, isNumber: true}
}

// Empty reports whether the cell held nothing.
func (v Value) Empty() bool { return v.raw == "" }

// Text returns the cell's canonical string form.
func (v Value) Text() string { return v.raw }

// Number returns the numeric reading, if the cell was numeric.
func (v Value) Number() (float64, bool) { return v.num, v.isNumber }

// RawRow maps canonical field identifiers to normalized cell values for one
// data row.
type RawRow map[string]Value

// Get returns the value for a canonical field, empty when absent.
func (r RawRow) Get(field string) Value { return r[field] }

// Text is shorthand for Get(field).Text().
func (r RawRow) Text(field string) string { return r[field].Text() }

// ValidateMapping checks the import precondition that a mapping dictionary
// was supplied at all.
func ValidateMapping(mapping map[string]string) error {
	if len(mapping) == 0 {
		return ErrMappingsNotLoaded
	}
	return nil
}

// MissingMandatoryHeaders returns the mandatory headers absent from a
// sheet's header row. A non-empty result means the sheet is skipped.
func MissingMandatoryHeaders(headers []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if h != "" {
			present[h] = struct{}{}
		}
	}
	var missing []string
	for _, required := range mandatoryHeaders {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}

// MapRow translates one data row into canonical field identifiers using the
// supplied mapping, dropping cells whose header has no mapping entry.
func MapRow(mapping map[string]string, headers, cells []string) RawRow {
	row := make(RawRow)
	for i, header := range headers {
		if header == "" || i >= len(cells) {
			continue
		}
		field, ok := mapping[header]
		if !ok {
			continue
		}
		value := NormalizeCell(cells[i])
		if value.Empty() {
			continue
		}
		row[field] = value
	}
	return row
}

// rowHasValues reports whether any cell in the raw row is non-blank.
func rowHasValues(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}
