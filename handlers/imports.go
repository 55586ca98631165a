package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"surveyimport/services"
	"surveyimport/templates"
)

const defaultListLimit = 50

// HandleImportList lists stored imports, newest first.
// Route: GET /imports?limit=
func HandleImportList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		limit := defaultListLimit
		if v := e.Request.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return ErrorJSON(e, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			}
			limit = n
		}

		imports, err := services.ListImports(app, limit)
		if err != nil {
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to list imports", err)
		}

		if wantsHTML(e.Request) {
			items := make([]templates.ImportListItem, len(imports))
			for i, s := range imports {
				items[i] = templates.ImportListItem{
					ID:          s.ID,
					ProjectName: s.ProjectName,
					SiteName:    s.SiteName,
					Source:      s.Source,
					TotalValue:  services.FormatUSD(s.TotalValue),
					Created:     s.Created,
				}
			}
			return templates.ImportListPage(items).Render(e.Request.Context(), e.Response)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"imports": imports,
			"count":   len(imports),
		})
	}
}

// HandleImportView shows one stored import with its line items. Browsers get
// the HTML summary, HTMX requests the fragment, everything else JSON.
// Route: GET /imports/{id}
func HandleImportView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		importID := e.Request.PathValue("id")
		if importID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing import ID", nil)
		}

		summary, err := services.LoadImport(app, importID)
		if errors.Is(err, services.ErrImportNotFound) {
			return ErrorJSON(e, http.StatusNotFound, "Import not found", nil)
		}
		if err != nil {
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to load import", err)
		}

		if !wantsHTML(e.Request) {
			return e.JSON(http.StatusOK, map[string]any{
				"success": true,
				"data":    summary,
			})
		}

		data := summaryView(*summary)
		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.ImportSummaryContent(data)
		} else {
			component = templates.ImportSummaryPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

func wantsHTML(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || strings.Contains(r.Header.Get("Accept"), "text/html")
}

func summaryView(s services.ImportSummary) templates.ImportSummaryData {
	export := s.ExportData()
	lines := make([]templates.ImportLineView, len(s.Items))
	for i, li := range s.Items {
		lines[i] = templates.ImportLineView{
			Index:        i + 1,
			Category:     li.Category,
			Description:  li.Description,
			Manufacturer: li.Manufacturer,
			Model:        li.Model,
			Quantity:     li.Quantity,
			UnitPrice:    services.FormatPrice(li.Price),
			LineTotal:    services.FormatUSD(li.LineTotal()),
			LaborHours:   humanize.Ftoa(li.LaborHours),
		}
	}

	return templates.ImportSummaryData{
		ID:               s.ID,
		ProjectName:      s.ProjectName,
		SiteName:         s.SiteName,
		Location:         s.Location,
		SurveyDate:       export.CreatedDate,
		Source:           s.Source,
		EquipmentSummary: export.EquipmentSummary,
		Lines:            lines,
		TotalValue:       services.FormatUSD(s.TotalValue),
		LaborHours:       humanize.Ftoa(s.TotalLaborHours),
		LaborCost:        services.FormatUSD(s.LaborCost),
		GrandTotal:       services.FormatUSD(export.GrandTotal()),
		WarningCount:     s.WarningCount,
	}
}
