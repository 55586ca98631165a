package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleExportData() ExportData {
	return ExportData{
		Title:            "Lobby Survey",
		SiteName:         "HQ",
		Location:         "Austin, TX",
		CreatedDate:      "2025-01-15",
		EquipmentSummary: "1x CAM",
		Rows: []ExportRow{
			{Index: "1", Category: "CAM", Description: "=HYPERLINK(\"x\")", Manufacturer: "Axis", Model: "M3086-V", Qty: 2, UnitPrice: ptr(329), LineTotal: 658, LaborHours: 3},
		},
		TotalValue:      658,
		TotalLaborHours: 3,
		LaborRate:       85,
		LaborCost:       255,
	}
}

func TestGenerateExcel(t *testing.T) {
	data, err := GenerateExcel(sampleExportData())
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	defer f.Close()

	sheet := "Lobby Survey"
	if got := f.GetSheetName(0); got != sheet {
		t.Fatalf("sheet = %q, want %q", got, sheet)
	}

	cells := map[string]string{
		"A1":  "Lobby Survey",
		"A2":  "Site: HQ (Austin, TX)",
		"A3":  "Date: 2025-01-15",
		"A5":  "#",
		"C5":  "Description",
		"I5":  "Labor Hrs",
		"C6":  "'=HYPERLINK(\"x\")",
		"G6":  "$329.00",
		"H6":  "$658.00",
		"G8":  "Equipment Total:",
		"H8":  "$658.00",
		"G10": "Labor ($85.00/hr):",
		"H11": "$913.00",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestGenerateExcel_UnknownPriceAndNoSite(t *testing.T) {
	d := sampleExportData()
	d.SiteName, d.Location = "", ""
	d.Rows[0].UnitPrice = nil
	d.Title = ""

	data, err := GenerateExcel(d)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "BOM" {
		t.Errorf("sheet = %q, want BOM", got)
	}
	if v, _ := f.GetCellValue("BOM", "A2"); v != "" {
		t.Errorf("A2 = %q, want empty without site", v)
	}
	if v, _ := f.GetCellValue("BOM", "G6"); v != "TBD" {
		t.Errorf("G6 = %q, want TBD", v)
	}
}

func TestGenerateWarningReport(t *testing.T) {
	data, err := GenerateWarningReport([]ValidationError{
		{Row: 2, Field: "price", Message: "not a number"},
		{Row: 5, Field: "quantity", Message: "=cmd"},
	})
	if err != nil {
		t.Fatalf("GenerateWarningReport() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Warnings")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][2] != "Warning" || rows[1][0] != "2" || rows[2][2] != "'=cmd" {
		t.Errorf("rows = %q", rows)
	}
}

func TestExcelSheetName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Lobby Survey", "Lobby Survey"},
		{"Site: A/B [v2]?", "Site AB v2"},
		{"", "BOM"},
		{"[]*", "BOM"},
		{"'quoted'", "quoted"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{strings.Repeat("é", 35), strings.Repeat("é", 31)},
	}
	for _, tt := range tests {
		if got := excelSheetName(tt.input); got != tt.want {
			t.Errorf("excelSheetName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Camera", "Camera"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@x", "'@x"},
		{"|pipe", "'|pipe"},
		{"\tTab", "'\tTab"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
