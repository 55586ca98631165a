package services

import (
	"fmt"
	"time"
)

// ExportRow is one bill-of-materials line in an export.
type ExportRow struct {
	Index        string // "1", "2", ...
	Category     string // element type code or equipment category
	Description  string
	Manufacturer string
	Model        string
	Qty          int
	UnitPrice    *float64 // nil = price unknown
	LineTotal    float64
	LaborHours   float64
}

// ExportData holds all data needed for export.
type ExportData struct {
	Title            string
	SiteName         string
	Location         string
	CreatedDate      string
	EquipmentSummary string
	Rows             []ExportRow
	TotalValue       float64
	TotalLaborHours  float64
	LaborRate        float64
	LaborCost        float64
	WarningCount     int
}

// GrandTotal is equipment value plus labor.
func (d ExportData) GrandTotal() float64 {
	return d.TotalValue + d.LaborCost
}

// ExportDataFromAssessment builds an export from a transformed survey.
func ExportDataFromAssessment(a AssessmentData, laborRate float64) ExportData {
	rows := make([]ExportRow, len(a.Accessories))
	for i, acc := range a.Accessories {
		rows[i] = ExportRow{
			Index:        fmt.Sprintf("%d", i+1),
			Description:  acc.Description,
			Manufacturer: acc.Manufacturer,
			Model:        acc.Model,
			Qty:          acc.Quantity,
			UnitPrice:    acc.Price,
			LineTotal:    acc.LineTotal(),
			LaborHours:   acc.LaborHours,
		}
	}

	return ExportData{
		Title:            a.ProjectName,
		SiteName:         a.SiteName,
		Location:         a.Location,
		CreatedDate:      exportDate(a.SurveyDate),
		EquipmentSummary: FormatEquipmentList(a.EquipmentCounts),
		Rows:             rows,
		TotalValue:       a.TotalValue,
		TotalLaborHours:  a.TotalLaborHours,
		LaborRate:        laborRate,
		LaborCost:        CalcLaborCost(a.TotalLaborHours, laborRate),
		WarningCount:     len(a.Warnings),
	}
}

// ExportDataFromEquipment builds an export from a spreadsheet import.
// Install hours are multiplied by quantity, as in the import totals.
func ExportDataFromEquipment(imp EquipmentImport) ExportData {
	var rows []ExportRow
	imp.Equipment.Each(func(category string, r EquipmentRow) {
		qty := r.Quantity
		if qty == 0 {
			qty = 1
		}
		price := r.Price
		rows = append(rows, ExportRow{
			Index:        fmt.Sprintf("%d", len(rows)+1),
			Category:     category,
			Description:  r.Name,
			Manufacturer: r.Manufacturer,
			Model:        r.Model,
			Qty:          qty,
			UnitPrice:    &price,
			LineTotal:    price * float64(qty),
			LaborHours:   r.InstallHours * float64(qty),
		})
	})

	title := firstNonEmpty(imp.SiteInfo.SurveyName, imp.FileName, defaultProjectName)

	return ExportData{
		Title:           title,
		SiteName:        imp.SiteInfo.SiteName,
		Location:        imp.SiteInfo.Address,
		CreatedDate:     exportDate(imp.ImportedAt),
		Rows:            rows,
		TotalValue:      imp.Totals.TotalCost,
		TotalLaborHours: imp.Totals.TotalInstallHours,
		LaborRate:       imp.Totals.LaborRate,
		LaborCost:       imp.Totals.EstimatedLaborCost,
		WarningCount:    len(imp.Warnings),
	}
}

// exportDate shortens an RFC 3339 timestamp to its date; other strings pass
// through unchanged.
func exportDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02")
}
