package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const importBatchSize = 100

// ErrImportNotFound is returned by LoadImport for an unknown id.
var ErrImportNotFound = errors.New("import not found")

// ImportLineItem is one persisted BOM line. A nil Price means unknown.
type ImportLineItem struct {
	SortOrder    int      `json:"sortOrder"`
	RowIndex     int      `json:"rowIndex"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Quantity     int      `json:"quantity"`
	Price        *float64 `json:"price"`
	LaborHours   float64  `json:"laborHours"`
}

// LineTotal counts an unknown price as 0.
func (li ImportLineItem) LineTotal() float64 {
	if li.Price == nil {
		return 0
	}
	return *li.Price * float64(li.Quantity)
}

// ImportSummary is a persisted import as read back from storage.
type ImportSummary struct {
	ID              string            `json:"id"`
	Source          string            `json:"source"`
	ProjectName     string            `json:"projectName"`
	SiteName        string            `json:"siteName"`
	Location        string            `json:"location"`
	SurveyID        string            `json:"surveyId,omitempty"`
	SiteID          string            `json:"siteId,omitempty"`
	FileName        string            `json:"fileName,omitempty"`
	SurveyDate      string            `json:"surveyDate"`
	ElementCount    int               `json:"elementCount"`
	EquipmentCounts map[string]int    `json:"equipmentCounts"`
	TotalValue      float64           `json:"totalValue"`
	TotalLaborHours float64           `json:"totalLaborHours"`
	LaborRate       float64           `json:"laborRate"`
	LaborCost       float64           `json:"laborCost"`
	WarningCount    int               `json:"warningCount"`
	Warnings        []ValidationError `json:"warnings,omitempty"`
	Created         string            `json:"created"`
	Items           []ImportLineItem  `json:"items,omitempty"`
}

// ExportData converts a stored import into the shape the Excel and PDF
// generators take.
func (s ImportSummary) ExportData() ExportData {
	rows := make([]ExportRow, len(s.Items))
	for i, li := range s.Items {
		rows[i] = ExportRow{
			Index:        fmt.Sprintf("%d", i+1),
			Category:     li.Category,
			Description:  li.Description,
			Manufacturer: li.Manufacturer,
			Model:        li.Model,
			Qty:          li.Quantity,
			UnitPrice:    li.Price,
			LineTotal:    li.LineTotal(),
			LaborHours:   li.LaborHours,
		}
	}

	return ExportData{
		Title:            s.ProjectName,
		SiteName:         s.SiteName,
		Location:         s.Location,
		CreatedDate:      exportDate(s.SurveyDate),
		EquipmentSummary: FormatEquipmentList(s.EquipmentCounts),
		Rows:             rows,
		TotalValue:       s.TotalValue,
		TotalLaborHours:  s.TotalLaborHours,
		LaborRate:        s.LaborRate,
		LaborCost:        s.LaborCost,
		WarningCount:     s.WarningCount,
	}
}

// SaveAssessment stores a transformed survey and its accessories in one
// transaction and returns the new import id.
func SaveAssessment(app *pocketbase.PocketBase, a AssessmentData, laborRate float64) (string, error) {
	items := make([]ImportLineItem, len(a.Accessories))
	for i, acc := range a.Accessories {
		items[i] = ImportLineItem{
			SortOrder:    i + 1,
			RowIndex:     acc.RowIndex,
			Description:  acc.Description,
			Manufacturer: acc.Manufacturer,
			Model:        acc.Model,
			Quantity:     acc.Quantity,
			Price:        acc.Price,
			LaborHours:   acc.LaborHours,
		}
	}

	fields := map[string]any{
		"source":            SourceSurveyAPI,
		"project_name":      a.ProjectName,
		"site_name":         a.SiteName,
		"location":          a.Location,
		"survey_id":         derefString(a.SurveyID),
		"site_id":           derefString(a.SiteID),
		"survey_date":       a.SurveyDate,
		"element_count":     a.ElementCount,
		"equipment_counts":  a.EquipmentCounts,
		"total_value":       a.TotalValue,
		"total_labor_hours": a.TotalLaborHours,
		"labor_rate":        laborRate,
		"labor_cost":        CalcLaborCost(a.TotalLaborHours, laborRate),
		"warning_count":     len(a.Warnings),
		"warnings":          a.Warnings,
		"payload":           a,
	}

	return saveImport(app, fields, items)
}

// SaveEquipmentImport stores a categorized spreadsheet import and returns the
// new import id. Install hours are stored per line (hours x quantity).
func SaveEquipmentImport(app *pocketbase.PocketBase, imp *EquipmentImport) (string, error) {
	if imp == nil {
		return "", fmt.Errorf("save equipment import: nil import")
	}

	var items []ImportLineItem
	counts := make(map[string]int)
	imp.Equipment.Each(func(category string, r EquipmentRow) {
		qty := r.Quantity
		if qty == 0 {
			qty = 1
		}
		price := r.Price
		counts[category] += qty
		items = append(items, ImportLineItem{
			SortOrder:    len(items) + 1,
			RowIndex:     len(items),
			Category:     category,
			Description:  r.Name,
			Manufacturer: r.Manufacturer,
			Model:        r.Model,
			Quantity:     qty,
			Price:        &price,
			LaborHours:   r.InstallHours * float64(qty),
		})
	})

	data := ExportDataFromEquipment(*imp)
	fields := map[string]any{
		"source":            SourceExcel,
		"project_name":      data.Title,
		"site_name":         data.SiteName,
		"location":          data.Location,
		"file_name":         imp.FileName,
		"survey_date":       imp.ImportedAt,
		"element_count":     imp.Equipment.Len(),
		"equipment_counts":  counts,
		"total_value":       imp.Totals.TotalCost,
		"total_labor_hours": imp.Totals.TotalInstallHours,
		"labor_rate":        imp.Totals.LaborRate,
		"labor_cost":        imp.Totals.EstimatedLaborCost,
		"warning_count":     len(imp.Warnings),
		"warnings":          imp.Warnings,
		"payload":           imp,
	}

	return saveImport(app, fields, items)
}

// saveImport writes the parent record and then its line items in chunks of
// importBatchSize, all inside one transaction. Any failure rolls back the
// whole import.
func saveImport(app *pocketbase.PocketBase, fields map[string]any, items []ImportLineItem) (string, error) {
	importsCol, err := app.FindCollectionByNameOrId("survey_imports")
	if err != nil {
		return "", fmt.Errorf("survey_imports collection not found: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("import_line_items")
	if err != nil {
		return "", fmt.Errorf("import_line_items collection not found: %w", err)
	}

	var importID string
	err = app.RunInTransaction(func(txApp core.App) error {
		record := core.NewRecord(importsCol)
		for k, v := range fields {
			record.Set(k, v)
		}
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save import: %w", err)
		}

		for chunkStart := 0; chunkStart < len(items); chunkStart += importBatchSize {
			chunkEnd := chunkStart + importBatchSize
			if chunkEnd > len(items) {
				chunkEnd = len(items)
			}
			if err := insertLineItems(txApp, itemsCol, record.Id, items[chunkStart:chunkEnd], chunkStart); err != nil {
				return err
			}
		}

		importID = record.Id
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Printf("import_store: saved import %s (%d line items)\n", importID, len(items))
	return importID, nil
}

func insertLineItems(txApp core.App, col *core.Collection, importID string, items []ImportLineItem, offset int) error {
	for i, li := range items {
		record := core.NewRecord(col)
		record.Set("import", importID)
		record.Set("sort_order", li.SortOrder)
		record.Set("row_index", li.RowIndex)
		record.Set("category", li.Category)
		record.Set("description", li.Description)
		record.Set("manufacturer", li.Manufacturer)
		record.Set("model", li.Model)
		record.Set("quantity", li.Quantity)
		if li.Price != nil {
			record.Set("price", *li.Price)
			record.Set("price_known", true)
		}
		record.Set("labor_hours", li.LaborHours)

		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save line item %d: %w", offset+i+1, err)
		}
	}
	return nil
}

// LoadImport reads an import and its line items in sort order.
func LoadImport(app *pocketbase.PocketBase, id string) (*ImportSummary, error) {
	record, err := app.FindRecordById("survey_imports", id)
	if err != nil {
		return nil, ErrImportNotFound
	}

	summary := summaryFromRecord(record)

	lineItems, err := app.FindRecordsByFilter(
		"import_line_items",
		"import = {:importId}",
		"sort_order",
		0,
		0,
		map[string]any{"importId": id},
	)
	if err != nil {
		return nil, fmt.Errorf("load line items for %s: %w", id, err)
	}

	summary.Items = make([]ImportLineItem, len(lineItems))
	for i, r := range lineItems {
		li := ImportLineItem{
			SortOrder:    r.GetInt("sort_order"),
			RowIndex:     r.GetInt("row_index"),
			Category:     r.GetString("category"),
			Description:  r.GetString("description"),
			Manufacturer: r.GetString("manufacturer"),
			Model:        r.GetString("model"),
			Quantity:     r.GetInt("quantity"),
			LaborHours:   r.GetFloat("labor_hours"),
		}
		if r.GetBool("price_known") {
			price := r.GetFloat("price")
			li.Price = &price
		}
		summary.Items[i] = li
	}

	return &summary, nil
}

// ListImports returns the most recent imports first, without line items.
// A limit of 0 returns every import.
func ListImports(app *pocketbase.PocketBase, limit int) ([]ImportSummary, error) {
	records, err := app.FindRecordsByFilter("survey_imports", "id != ''", "-created", limit, 0)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	summaries := make([]ImportSummary, len(records))
	for i, r := range records {
		summaries[i] = summaryFromRecord(r)
		summaries[i].Warnings = nil
	}
	return summaries, nil
}

func summaryFromRecord(record *core.Record) ImportSummary {
	s := ImportSummary{
		ID:              record.Id,
		Source:          record.GetString("source"),
		ProjectName:     record.GetString("project_name"),
		SiteName:        record.GetString("site_name"),
		Location:        record.GetString("location"),
		SurveyID:        record.GetString("survey_id"),
		SiteID:          record.GetString("site_id"),
		FileName:        record.GetString("file_name"),
		SurveyDate:      record.GetString("survey_date"),
		ElementCount:    record.GetInt("element_count"),
		TotalValue:      record.GetFloat("total_value"),
		TotalLaborHours: record.GetFloat("total_labor_hours"),
		LaborRate:       record.GetFloat("labor_rate"),
		LaborCost:       record.GetFloat("labor_cost"),
		WarningCount:    record.GetInt("warning_count"),
		Created:         record.GetDateTime("created").Time().Format(time.RFC3339),
	}

	unmarshalJSONField(record, "equipment_counts", &s.EquipmentCounts)
	if s.EquipmentCounts == nil {
		s.EquipmentCounts = map[string]int{}
	}
	unmarshalJSONField(record, "warnings", &s.Warnings)
	return s
}

// unmarshalJSONField leaves dst untouched for empty or null fields.
func unmarshalJSONField(record *core.Record, key string, dst any) {
	raw := record.GetString(key)
	if raw == "" || raw == "null" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("import_store: bad %s on %s: %v\n", key, record.Id, err)
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
