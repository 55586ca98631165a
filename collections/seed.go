package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type lineItemDef struct {
	description  string
	manufacturer string
	model        string
	quantity     int
	price        *float64
	laborHours   float64
}

type importDef struct {
	projectName     string
	siteName        string
	location        string
	surveyID        string
	surveyDate      string
	equipmentCounts map[string]int
	lineItems       []lineItemDef
}

func price(v float64) *float64 { return &v }

var demoImport = importDef{
	projectName: "Demo Retail Store Survey",
	siteName:    "Main Street Retail",
	location:    "Springfield, IL 62701",
	surveyID:    "demo-survey-1",
	surveyDate:  "2025-01-15T09:30:00.000Z",
	equipmentCounts: map[string]int{
		"CAM":  3,
		"DOOR": 1,
		"SW":   1,
	},
	lineItems: []lineItemDef{
		{"Outdoor bullet camera, parking lot", "Axis", "P1455-LE", 2, price(749), 2.5},
		{"Indoor turret camera, sales floor", "Axis", "M3086-V", 1, price(329), 1.5},
		{"Mounting bracket", "Axis", "T91G61", 3, price(45), 0.25},
		{"Card reader, rear door", "HID", "Signo 20", 1, nil, 2},
		{"24-port PoE+ switch", "Ubiquiti", "USW-Pro-24-PoE", 1, price(699), 1},
	},
}

// Seed inserts one demo survey import so the summary pages have something to
// show. It is safe to call on every startup because it returns early if any
// import records already exist.
func Seed(app *pocketbase.PocketBase) error {
	importsCol, err := app.FindCollectionByNameOrId("survey_imports")
	if err != nil {
		return fmt.Errorf("seed: could not find survey_imports collection: %w", err)
	}
	existing, err := app.FindAllRecords(importsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query survey_imports: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	itemsCol, err := app.FindCollectionByNameOrId("import_line_items")
	if err != nil {
		return fmt.Errorf("seed: could not find import_line_items collection: %w", err)
	}

	log.Println("seed: survey_imports collection is empty, inserting demo import")

	def := demoImport
	var totalValue, totalHours float64
	for _, li := range def.lineItems {
		if li.price != nil {
			totalValue += *li.price * float64(li.quantity)
		}
		totalHours += li.laborHours
	}
	const laborRate = 85.0

	return app.RunInTransaction(func(txApp core.App) error {
		rec := core.NewRecord(importsCol)
		rec.Set("source", SourceSurveyAPI)
		rec.Set("project_name", def.projectName)
		rec.Set("site_name", def.siteName)
		rec.Set("location", def.location)
		rec.Set("survey_id", def.surveyID)
		rec.Set("survey_date", def.surveyDate)
		rec.Set("element_count", 5)
		rec.Set("equipment_counts", def.equipmentCounts)
		rec.Set("total_value", totalValue)
		rec.Set("total_labor_hours", totalHours)
		rec.Set("labor_rate", laborRate)
		rec.Set("labor_cost", totalHours*laborRate)
		rec.Set("warning_count", 0)
		rec.Set("warnings", []any{})
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("seed: save import: %w", err)
		}

		for i, li := range def.lineItems {
			item := core.NewRecord(itemsCol)
			item.Set("import", rec.Id)
			item.Set("sort_order", i+1)
			item.Set("row_index", i)
			item.Set("description", li.description)
			item.Set("manufacturer", li.manufacturer)
			item.Set("model", li.model)
			item.Set("quantity", li.quantity)
			if li.price != nil {
				item.Set("price", *li.price)
				item.Set("price_known", true)
			}
			item.Set("labor_hours", li.laborHours)
			if err := txApp.Save(item); err != nil {
				return fmt.Errorf("seed: save line item %d: %w", i+1, err)
			}
		}

		log.Printf("seed: created demo import %q (%s)\n", def.projectName, rec.Id)
		return nil
	})
}
