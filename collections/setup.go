package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Import sources stored in survey_imports.source.
const (
	SourceSurveyAPI = "system-surveyor-api"
	SourceExcel     = "system-surveyor-excel"
)

const payloadMaxSize = 5 << 20

// Setup programmatically creates/ensures the survey_imports and
// import_line_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	imports := ensureCollection(app, "survey_imports", func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "source",
			Required:  true,
			Values:    []string{SourceSurveyAPI, SourceExcel},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "project_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "site_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "location", Required: false})
		c.Fields.Add(&core.TextField{Name: "survey_id", Required: false})
		c.Fields.Add(&core.TextField{Name: "site_id", Required: false})
		c.Fields.Add(&core.TextField{Name: "file_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "survey_date", Required: false})
		c.Fields.Add(&core.NumberField{Name: "element_count", Required: false})
		c.Fields.Add(&core.JSONField{Name: "equipment_counts", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_labor_hours", Required: false})
		c.Fields.Add(&core.NumberField{Name: "labor_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "labor_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "warning_count", Required: false})
		c.Fields.Add(&core.JSONField{Name: "warnings", Required: false, MaxSize: payloadMaxSize})
		c.Fields.Add(&core.JSONField{Name: "payload", Required: false, MaxSize: payloadMaxSize})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "import_line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "import",
			Required:      true,
			CollectionId:  imports.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.NumberField{Name: "row_index", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "manufacturer", Required: false})
		c.Fields.Add(&core.TextField{Name: "model", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		// price is only meaningful when price_known is set.
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "price_known"})
		c.Fields.Add(&core.NumberField{Name: "labor_hours", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("collections: %q already exists, skipping creation\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("collections: failed to create %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
