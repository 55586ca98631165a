// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"

	"surveyimport/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestImport creates a survey_imports record with the given project
// name and returns it.
func CreateTestImport(t *testing.T, app *pocketbase.PocketBase, projectName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("survey_imports")
	if err != nil {
		t.Fatalf("failed to find survey_imports collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("source", collections.SourceSurveyAPI)
	record.Set("project_name", projectName)
	record.Set("site_name", "Test Site")
	record.Set("location", "Austin, TX 78701")
	record.Set("survey_date", "2025-01-15T00:00:00.000Z")
	record.Set("equipment_counts", map[string]int{"CAM": 1})
	record.Set("labor_rate", 85.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test import: %v", err)
	}

	return record
}

// CreateTestLineItem creates an import_line_items record. A nil price leaves
// price_known unset.
func CreateTestLineItem(t *testing.T, app *pocketbase.PocketBase, importID string, sortOrder int, description string, qty int, price *float64) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("import_line_items")
	if err != nil {
		t.Fatalf("failed to find import_line_items collection: %v", err)
	}
	record := core.NewRecord(col)
	record.Set("import", importID)
	record.Set("sort_order", sortOrder)
	record.Set("row_index", sortOrder-1)
	record.Set("description", description)
	record.Set("manufacturer", "Axis")
	record.Set("model", "P1455-LE")
	record.Set("quantity", qty)
	if price != nil {
		record.Set("price", *price)
		record.Set("price_known", true)
	}
	record.Set("labor_hours", 1.5)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line item: %v", err)
	}
	return record
}

// MakeXLSX builds a single-sheet workbook from rows of cell values.
func MakeXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
