package services

import (
	"errors"
	"fmt"
	"testing"

	"surveyimport/testhelpers"
)

func TestSaveAssessment_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	surveyID, siteID := "s1", "site1"
	a := AssessmentData{
		ProjectName:     "Lobby Survey",
		SiteName:        "HQ",
		Location:        "Austin, TX 78701",
		ElementCount:    2,
		EquipmentCounts: map[string]int{"CAM": 2},
		Accessories: []Accessory{
			{Description: "Mount", Manufacturer: "Axis", Model: "T91", Quantity: 2, Price: ptr(50), LaborHours: 1.5, RowIndex: 0},
			{Description: "Reader", Quantity: 1, Price: nil, LaborHours: 1, RowIndex: 1},
			{Description: "Sticker", Quantity: 4, Price: ptr(0), LaborHours: 0, RowIndex: 2},
		},
		TotalValue:      100,
		TotalLaborHours: 2.5,
		SurveyDate:      "2025-01-15T10:00:00.000Z",
		SurveyID:        &surveyID,
		SiteID:          &siteID,
		Warnings:        []ValidationError{{Row: 2, Field: "price", Message: "not a number"}},
	}

	id, err := SaveAssessment(app, a, 100)
	if err != nil {
		t.Fatalf("SaveAssessment() error = %v", err)
	}

	got, err := LoadImport(app, id)
	if err != nil {
		t.Fatalf("LoadImport() error = %v", err)
	}
	if got.Source != SourceSurveyAPI || got.ProjectName != "Lobby Survey" || got.SiteID != "site1" || got.SurveyID != "s1" {
		t.Errorf("summary = %+v", got)
	}
	if got.LaborCost != 250 || got.LaborRate != 100 {
		t.Errorf("labor = %v @ %v", got.LaborCost, got.LaborRate)
	}
	if got.EquipmentCounts["CAM"] != 2 {
		t.Errorf("EquipmentCounts = %v", got.EquipmentCounts)
	}
	if got.WarningCount != 1 || len(got.Warnings) != 1 || got.Warnings[0].Field != "price" {
		t.Errorf("warnings = %d %+v", got.WarningCount, got.Warnings)
	}

	if len(got.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(got.Items))
	}
	if got.Items[0].Price == nil || *got.Items[0].Price != 50 || got.Items[0].LineTotal() != 100 {
		t.Errorf("item 0 = %+v", got.Items[0])
	}
	if got.Items[1].Price != nil {
		t.Errorf("unknown price should load as nil, got %v", *got.Items[1].Price)
	}
	if got.Items[2].Price == nil || *got.Items[2].Price != 0 {
		t.Error("a zero price should load as a known 0")
	}
}

func TestLoadImport_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := LoadImport(app, "doesnotexist123"); !errors.Is(err, ErrImportNotFound) {
		t.Errorf("expected ErrImportNotFound, got %v", err)
	}
}

func TestListImports(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for _, name := range []string{"One", "Two", "Three"} {
		testhelpers.CreateTestImport(t, app, name)
	}

	all, err := ListImports(app, 0)
	if err != nil {
		t.Fatalf("ListImports() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
	for _, s := range all {
		if s.Items != nil || s.Warnings != nil {
			t.Errorf("listing should not carry items or warnings: %+v", s)
		}
	}

	limited, err := ListImports(app, 2)
	if err != nil {
		t.Fatalf("ListImports(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len = %d, want 2", len(limited))
	}
}

func TestSaveEquipmentImport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	cats := NewEquipmentCategories()
	cats.Cameras = append(cats.Cameras,
		EquipmentRow{Name: "Camera A", Quantity: 2, Price: 300, InstallHours: 1.5},
		EquipmentRow{Name: "Camera B", Quantity: 0, Price: 200, InstallHours: 1},
	)
	cats.Network = append(cats.Network, EquipmentRow{Name: "Switch", Quantity: 1, Price: 500, InstallHours: 2})

	imp := &EquipmentImport{
		Source:     SourceExcel,
		FileName:   "export.xlsx",
		Equipment:  cats,
		Totals:     CalculateTotals(cats, 85),
		ImportedAt: "2025-03-01T12:00:00Z",
		Warnings:   []ValidationError{},
	}

	id, err := SaveEquipmentImport(app, imp)
	if err != nil {
		t.Fatalf("SaveEquipmentImport() error = %v", err)
	}

	got, err := LoadImport(app, id)
	if err != nil {
		t.Fatalf("LoadImport() error = %v", err)
	}
	if got.Source != SourceExcel || got.FileName != "export.xlsx" || got.ProjectName != "export.xlsx" {
		t.Errorf("summary = %+v", got)
	}
	if got.EquipmentCounts[CategoryCameras] != 3 || got.EquipmentCounts[CategoryNetwork] != 1 {
		t.Errorf("EquipmentCounts = %v", got.EquipmentCounts)
	}
	if got.ElementCount != 3 {
		t.Errorf("ElementCount = %d, want 3", got.ElementCount)
	}
	if len(got.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(got.Items))
	}
	if got.Items[1].Quantity != 1 {
		t.Errorf("zero quantity should be stored as 1, got %d", got.Items[1].Quantity)
	}
	if got.Items[0].LaborHours != 3 || got.Items[0].Category != CategoryCameras {
		t.Errorf("item 0 = %+v", got.Items[0])
	}
	if got.TotalValue != 1300 {
		t.Errorf("TotalValue = %v, want 1300", got.TotalValue)
	}
}

func TestSaveEquipmentImport_Nil(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := SaveEquipmentImport(app, nil); err == nil {
		t.Error("expected error for nil import")
	}
}

func TestSaveAssessment_BatchesKeepOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	n := importBatchSize + 37
	a := AssessmentData{ProjectName: "Big", EquipmentCounts: map[string]int{}}
	for i := 0; i < n; i++ {
		a.Accessories = append(a.Accessories, Accessory{
			Description: fmt.Sprintf("item-%03d", i),
			Quantity:    1,
			Price:       ptr(1),
			RowIndex:    i,
		})
	}

	id, err := SaveAssessment(app, a, 85)
	if err != nil {
		t.Fatalf("SaveAssessment() error = %v", err)
	}
	got, err := LoadImport(app, id)
	if err != nil {
		t.Fatalf("LoadImport() error = %v", err)
	}
	if len(got.Items) != n {
		t.Fatalf("items = %d, want %d", len(got.Items), n)
	}
	for i, li := range got.Items {
		if li.SortOrder != i+1 || li.Description != fmt.Sprintf("item-%03d", i) {
			t.Fatalf("item %d = %+v, out of order", i, li)
		}
	}
}

func TestImportSummary_ExportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := testhelpers.CreateTestImport(t, app, "Lobby")
	testhelpers.CreateTestLineItem(t, app, rec.Id, 1, "Camera", 2, ptr(120))
	testhelpers.CreateTestLineItem(t, app, rec.Id, 2, "Reader", 1, nil)

	s, err := LoadImport(app, rec.Id)
	if err != nil {
		t.Fatalf("LoadImport() error = %v", err)
	}
	d := s.ExportData()
	if d.Title != "Lobby" || d.CreatedDate != "2025-01-15" || d.EquipmentSummary != "1x CAM" {
		t.Errorf("export header = %q %q %q", d.Title, d.CreatedDate, d.EquipmentSummary)
	}
	if len(d.Rows) != 2 || d.Rows[0].LineTotal != 240 || d.Rows[1].UnitPrice != nil {
		t.Errorf("rows = %+v", d.Rows)
	}
	if d.Rows[1].Index != "2" {
		t.Errorf("Index = %q", d.Rows[1].Index)
	}
}
