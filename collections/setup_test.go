package collections_test

import (
	"testing"

	"surveyimport/collections"
	"surveyimport/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"survey_imports",
	"import_line_items",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_SurveyImportsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("survey_imports")

	fields := []string{
		"source", "project_name", "site_name", "location", "survey_id", "site_id",
		"file_name", "survey_date", "element_count", "equipment_counts", "total_value",
		"total_labor_hours", "labor_rate", "labor_cost", "warning_count", "warnings",
		"payload", "created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("survey_imports: missing field %q", f)
		}
	}

	sourceField := col.Fields.GetByName("source")
	if sf, ok := sourceField.(*core.SelectField); ok {
		expected := map[string]bool{collections.SourceSurveyAPI: true, collections.SourceExcel: true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected source value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing source value: %q", v)
		}
	} else {
		t.Errorf("source field is not a SelectField")
	}
}

func TestSetup_ImportLineItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("import_line_items")

	fields := []string{"import", "sort_order", "row_index", "category", "description", "manufacturer", "model", "quantity", "price", "price_known", "labor_hours"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("import_line_items: missing field %q", f)
		}
	}

	importField := col.Fields.GetByName("import")
	if rf, ok := importField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("import_line_items.import: expected CascadeDelete=true")
		}
		if rf.MaxSelect != 1 {
			t.Errorf("import_line_items.import: expected MaxSelect=1, got %d", rf.MaxSelect)
		}
	} else {
		t.Errorf("import_line_items.import is not a RelationField")
	}

	if _, ok := col.Fields.GetByName("price_known").(*core.BoolField); !ok {
		t.Error("import_line_items.price_known is not a BoolField")
	}
}

func TestSetup_CascadeDeleteRemovesLineItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	imp := testhelpers.CreateTestImport(t, app, "Cascade Survey")
	item := testhelpers.CreateTestLineItem(t, app, imp.Id, 1, "Camera", 2, nil)

	if err := app.Delete(imp); err != nil {
		t.Fatalf("delete import: %v", err)
	}
	if _, err := app.FindRecordById("import_line_items", item.Id); err == nil {
		t.Error("expected line item to be deleted with its import")
	}
}
