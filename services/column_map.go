package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Semantic spreadsheet fields.
const (
	FieldSystemType   = "systemType"
	FieldElementName  = "elementName"
	FieldID           = "id"
	FieldStatus       = "status"
	FieldManufacturer = "manufacturer"
	FieldModel        = "model"
	FieldQuantity     = "quantity"
	FieldPrice        = "price"
	FieldInstallHours = "installHours"
	FieldLocation     = "location"
	FieldNotes        = "notes"
	FieldSerialNumber = "serialNumber"
	FieldIPAddress    = "ipAddress"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldSiteLabel    = "siteLabel"
	FieldSiteValue    = "siteValue"
)

// ColumnMap lists, per semantic field, the header names that may carry it.
// Earlier aliases win when several are present.
type ColumnMap map[string][]string

// DefaultColumnMap accepts descriptive headers and the System Surveyor export
// template, whose header row holds numeric attribute ids.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		FieldSystemType:   {"System Type", "1176427"},
		FieldElementName:  {"Element Name", "Element", "__EMPTY_2"},
		FieldID:           {"Element ID", "ID", "141"},
		FieldStatus:       {"Status", "138"},
		FieldManufacturer: {"Manufacturer", "271"},
		FieldModel:        {"Model", "305"},
		FieldQuantity:     {"Quantity", "Qty", "531"},
		FieldPrice:        {"Price", "Unit Price", "532"},
		FieldInstallHours: {"Install Hours", "Labor Hours", "533"},
		FieldLocation:     {"Location", "255"},
		FieldNotes:        {"Notes", "165"},
		FieldSerialNumber: {"Serial Number", "460"},
		FieldIPAddress:    {"IP Address", "266"},
		FieldUsername:     {"Username", "276"},
		FieldPassword:     {"Password", "462"},
		FieldSiteLabel:    {"Label", "1176427"},
		FieldSiteValue:    {"Value", "1758642037"},
	}
}

// SheetRows is a parsed sheet whose columns have been resolved to fields.
type SheetRows struct {
	Headers []string
	Rows    [][]string
	Columns map[string]int
}

// Value returns the trimmed cell for field on data row i, or "" when the
// field has no column or the row is short.
func (s SheetRows) Value(i int, field string) string {
	col, ok := s.Columns[field]
	if !ok || i < 0 || i >= len(s.Rows) {
		return ""
	}
	row := s.Rows[i]
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ResolveColumns names the header cells and maps each field to its column.
// It also returns the fields no header matched.
func (cm ColumnMap) ResolveColumns(headers []string) (map[string]int, []string) {
	named := HeaderKeys(headers)
	index := make(map[string]int, len(named))
	for i, h := range named {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	columns := make(map[string]int, len(cm))
	var missing []string
	for field, aliases := range cm {
		found := false
		for _, alias := range aliases {
			if col, ok := index[strings.ToLower(alias)]; ok {
				columns[field] = col
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, field)
		}
	}
	return columns, missing
}

// Resolve builds SheetRows from a raw header row and data rows.
func (cm ColumnMap) Resolve(headers []string, rows [][]string) SheetRows {
	columns, _ := cm.ResolveColumns(headers)
	return SheetRows{Headers: HeaderKeys(headers), Rows: rows, Columns: columns}
}

// HeaderKeys names header cells the way spreadsheet-to-JSON exports do:
// blank cells become __EMPTY, __EMPTY_1, ... and repeated names get a _N
// suffix.
func HeaderKeys(headers []string) []string {
	keys := make([]string, len(headers))
	seen := make(map[string]int)
	blank := 0
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			if blank == 0 {
				name = "__EMPTY"
			} else {
				name = fmt.Sprintf("__EMPTY_%d", blank)
			}
			blank++
		} else if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}
		keys[i] = name
	}
	return keys
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// parseIntOr parses the leading integer of s. Empty, unparseable and zero
// values yield fallback; only non-empty values produce a warning.
func parseIntOr(s string, fallback int, row int, field string, warnings *warningSet) int {
	if s == "" {
		return fallback
	}
	m := leadingInt.FindString(s)
	n, err := strconv.Atoi(m)
	if err != nil {
		warnings.add(row, field, fmt.Sprintf("%q is not a number, using %d", s, fallback))
		return fallback
	}
	if n == 0 {
		if fallback != 0 {
			warnings.add(row, field, fmt.Sprintf("0 treated as %d", fallback))
		}
		return fallback
	}
	return n
}

// parseFloatOr parses the leading decimal of s with the same fallback rules as
// parseIntOr.
func parseFloatOr(s string, fallback float64, row int, field string, warnings *warningSet) float64 {
	if s == "" {
		return fallback
	}
	m := leadingFloat.FindString(s)
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		warnings.add(row, field, fmt.Sprintf("%q is not a number, using %v", s, fallback))
		return fallback
	}
	if f == 0 {
		return fallback
	}
	return f
}
