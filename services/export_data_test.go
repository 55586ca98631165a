package services

import "testing"

func TestExportDataFromAssessment(t *testing.T) {
	a := AssessmentData{
		ProjectName:     "Lobby Survey",
		SiteName:        "HQ",
		Location:        "Austin, TX 78701",
		EquipmentCounts: map[string]int{"CAM": 2},
		Accessories: []Accessory{
			{Description: "Mount", Quantity: 2, Price: ptr(50), LaborHours: 1.5},
			{Description: "Reader", Quantity: 1, Price: nil, LaborHours: 1},
		},
		TotalValue:      100,
		TotalLaborHours: 2.5,
		SurveyDate:      "2025-01-15T10:00:00.000Z",
		Warnings:        []ValidationError{{Row: 1, Field: "price"}},
	}

	got := ExportDataFromAssessment(a, 100)
	if got.Title != "Lobby Survey" || got.CreatedDate != "2025-01-15" {
		t.Errorf("title/date = %q / %q", got.Title, got.CreatedDate)
	}
	if got.EquipmentSummary != "2x CAM" {
		t.Errorf("EquipmentSummary = %q", got.EquipmentSummary)
	}
	if len(got.Rows) != 2 || got.Rows[0].Index != "1" || got.Rows[0].LineTotal != 100 {
		t.Fatalf("rows = %+v", got.Rows)
	}
	if got.Rows[1].UnitPrice != nil {
		t.Error("unknown price should stay nil")
	}
	if got.LaborCost != 250 || got.GrandTotal() != 350 {
		t.Errorf("labor = %v, grand = %v", got.LaborCost, got.GrandTotal())
	}
	if got.WarningCount != 1 {
		t.Errorf("WarningCount = %d", got.WarningCount)
	}
}

func TestExportDataFromEquipment(t *testing.T) {
	cats := NewEquipmentCategories()
	cats.Cameras = append(cats.Cameras, EquipmentRow{Name: "Camera", Quantity: 2, Price: 300, InstallHours: 1.5})
	cats.Network = append(cats.Network, EquipmentRow{Name: "Switch", Quantity: 0, Price: 500, InstallHours: 2})

	imp := EquipmentImport{
		FileName:   "export.xlsx",
		Equipment:  cats,
		Totals:     CalculateTotals(cats, 85),
		ImportedAt: "2025-03-01T12:00:00Z",
	}

	got := ExportDataFromEquipment(imp)
	if got.Title != "export.xlsx" {
		t.Errorf("Title = %q, want file name fallback", got.Title)
	}
	if got.CreatedDate != "2025-03-01" {
		t.Errorf("CreatedDate = %q", got.CreatedDate)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if got.Rows[0].Category != CategoryCameras || got.Rows[0].LaborHours != 3 {
		t.Errorf("row 0 = %+v", got.Rows[0])
	}
	if got.Rows[1].Qty != 1 || got.Rows[1].LineTotal != 500 {
		t.Errorf("zero quantity should count as 1: %+v", got.Rows[1])
	}
	if got.TotalValue != 1100 || got.TotalLaborHours != 5 {
		t.Errorf("totals = %v / %v", got.TotalValue, got.TotalLaborHours)
	}

	imp.SiteInfo.SurveyName = "Warehouse"
	if got := ExportDataFromEquipment(imp); got.Title != "Warehouse" {
		t.Errorf("Title = %q, want survey name", got.Title)
	}
	imp.SiteInfo.SurveyName, imp.FileName = "", ""
	if got := ExportDataFromEquipment(imp); got.Title != defaultProjectName {
		t.Errorf("Title = %q, want %q", got.Title, defaultProjectName)
	}
}

func TestExportDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-01-15T10:00:00.000Z", "2025-01-15"},
		{"2025-03-01T12:00:00Z", "2025-03-01"},
		{"January 2025", "January 2025"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := exportDate(tt.input); got != tt.want {
			t.Errorf("exportDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
