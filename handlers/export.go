package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"surveyimport/services"
)

// loadExportData reads a stored import and converts it for the generators.
func loadExportData(app *pocketbase.PocketBase, importID string) (services.ExportData, error) {
	summary, err := services.LoadImport(app, importID)
	if err != nil {
		return services.ExportData{}, err
	}
	return summary.ExportData(), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func exportStatus(err error) (int, string) {
	if errors.Is(err, services.ErrImportNotFound) {
		return http.StatusNotFound, "Import not found"
	}
	return http.StatusInternalServerError, "Failed to load import"
}

// HandleImportExportExcel downloads a stored import as an Excel BOM.
// Route: GET /imports/{id}/export/excel
func HandleImportExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		importID := e.Request.PathValue("id")
		if importID == "" {
			return e.String(http.StatusBadRequest, "Missing import ID")
		}

		data, err := loadExportData(app, importID)
		if err != nil {
			log.Printf("export_excel: %s: %v", importID, err)
			status, msg := exportStatus(err)
			return e.String(status, msg)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("BOM_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleImportExportPDF downloads a stored import as a PDF BOM.
// Route: GET /imports/{id}/export/pdf
func HandleImportExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		importID := e.Request.PathValue("id")
		if importID == "" {
			return e.String(http.StatusBadRequest, "Missing import ID")
		}

		data, err := loadExportData(app, importID)
		if err != nil {
			log.Printf("export_pdf: %s: %v", importID, err)
			status, msg := exportStatus(err)
			return e.String(status, msg)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("BOM_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
