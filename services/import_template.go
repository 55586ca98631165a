package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// templateColumn is one column of the blank equipment template.
type templateColumn struct {
	Field       string
	Required    bool
	Description string
	Example     string
}

var templateColumns = []templateColumn{
	{FieldSystemType, true, "System the element belongs to", "Video Surveillance"},
	{FieldElementName, true, "Element name; drives categorization", "Indoor Camera"},
	{FieldID, false, "Element id from the survey", "E-1001"},
	{FieldStatus, false, "Survey status", "Proposed"},
	{FieldManufacturer, false, "", "Axis"},
	{FieldModel, false, "", "M3086-V"},
	{FieldQuantity, false, "Whole number; blank means 1", "2"},
	{FieldPrice, false, "Unit price in USD", "329.00"},
	{FieldInstallHours, false, "Install hours per unit", "1.5"},
	{FieldLocation, false, "", "Sales floor"},
	{FieldNotes, false, "", ""},
	{FieldSerialNumber, false, "", ""},
	{FieldIPAddress, false, "", "10.0.0.21"},
}

// GenerateImportTemplate builds a blank equipment spreadsheet whose headers
// resolve through DefaultColumnMap. System types named by rules are offered
// as a dropdown, and a hidden Instructions sheet describes each column.
func GenerateImportTemplate(rules CategoryRules) ([]byte, error) {
	cm := DefaultColumnMap()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Equipment"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(templateColumns))
	for i, tc := range templateColumns {
		cell := columns[i] + "1"
		f.SetCellValue(sheetName, cell, cm[tc.Field][0])
		style := optionalHeaderStyle
		if tc.Required {
			style = requiredHeaderStyle
		}
		f.SetCellStyle(sheetName, cell, cell, style)
		f.SetColWidth(sheetName, columns[i], columns[i], 18)
	}

	if types := ruleSystemTypes(rules); len(types) > 0 {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1048576", columns[0], columns[0])
		if err := dv.SetDropList(types); err != nil {
			return nil, fmt.Errorf("system type dropdown: %w", err)
		}
		f.AddDataValidation(sheetName, dv)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addTemplateInstructions(f, cm, columns)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write import template: %w", err)
	}
	return buf.Bytes(), nil
}

func addTemplateInstructions(f *excelize.File, cm ColumnMap, columns []string) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Equipment Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(5)
	for i, h := range []string{"Column", "Required?", "Also Accepted", "Description", "Example"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, tc := range templateColumns {
		row := fmt.Sprintf("%d", i+4)
		req := "Optional"
		if tc.Required {
			req = "Required"
		}
		aliases := cm[tc.Field]
		f.SetCellValue(instSheet, cols[0]+row, aliases[0])
		f.SetCellValue(instSheet, cols[1]+row, req)
		f.SetCellValue(instSheet, cols[2]+row, strings.Join(aliases[1:], ", "))
		f.SetCellValue(instSheet, cols[3]+row, tc.Description)
		f.SetCellValue(instSheet, cols[4]+row, tc.Example)
	}

	for i, w := range []float64{18, 12, 24, 40, 22} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}
	f.SetSheetVisible(instSheet, false)
}

// ruleSystemTypes lists the distinct system types the rules match on.
func ruleSystemTypes(rules CategoryRules) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rules.Rules {
		for _, st := range r.SystemTypes {
			if !seen[st] {
				seen[st] = true
				out = append(out, st)
			}
		}
	}
	return out
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
