package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"surveyimport/config"
	"surveyimport/services"
)

// HandleUploadExcel receives a System Surveyor spreadsheet export and returns
// the categorized equipment, totals, product mappings and AI context.
// Route: POST /api/system-surveyor/upload-excel
func HandleUploadExcel(app *pocketbase.PocketBase, importer services.EquipmentImporter, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		maxBytes := cfg.MaxUploadBytes
		if maxBytes <= 0 {
			maxBytes = 10 << 20
		}
		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxBytes)

		if err := e.Request.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return ErrorJSON(e, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("File too large (max %d MB)", maxBytes>>20), nil)
			}
			return ErrorJSON(e, http.StatusBadRequest, "Invalid form data", err)
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "No file provided", nil)
		}
		defer file.Close()

		if !services.IsSupportedSpreadsheet(header.Filename) {
			return ErrorJSON(e, http.StatusBadRequest,
				"Invalid file type. Please upload an Excel file (.xlsx or .xls) or CSV", nil)
		}

		result, err := importer.ImportFile(file, header.Filename)
		if err != nil {
			log.Printf("upload_excel: %s: %v", header.Filename, err)
			return ErrorJSON(e, http.StatusUnprocessableEntity, "Failed to process Excel file", err)
		}

		if shouldPersist(cfg, formBool(e.Request, "persist")) {
			id, err := services.SaveEquipmentImport(app, result)
			if err != nil {
				return ErrorJSON(e, http.StatusInternalServerError, "Failed to save import", err)
			}
			result.ImportID = id
		}

		log.Printf("upload_excel: %s: %d rows, %d items, %d warning(s)",
			header.Filename, result.RawDataCount, result.Equipment.Len(), len(result.Warnings))

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"data":    result,
		})
	}
}

// HandleUploadWarningReport turns the warnings of an upload, posted back as
// JSON, into a downloadable .xlsx report.
// Route: POST /api/system-surveyor/upload-excel/warnings
func HandleUploadWarningReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var warnings []services.ValidationError
		if err := json.NewDecoder(e.Request.Body).Decode(&warnings); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid warning data", err)
		}

		xlsxBytes, err := services.GenerateWarningReport(warnings)
		if err != nil {
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate warning report", err)
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="import_warnings.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// formBool returns nil when the form field is absent or not a boolean.
func formBool(r *http.Request, key string) *bool {
	v := r.FormValue(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// HandleImportTemplateDownload serves a blank equipment spreadsheet whose
// headers the upload route recognizes.
// Route: GET /api/system-surveyor/upload-excel/template
func HandleImportTemplateDownload(rules services.CategoryRules) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateImportTemplate(rules)
		if err != nil {
			log.Printf("import_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="equipment_import_template.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}
