package services

import (
	"fmt"
	"io"
	"time"

	"surveyimport/collections"
)

// SourceExcel and SourceSurveyAPI identify where an import came from.
const (
	SourceExcel     = collections.SourceExcel
	SourceSurveyAPI = collections.SourceSurveyAPI
)

// EquipmentImport is the result of processing one uploaded export.
type EquipmentImport struct {
	Source       string              `json:"source"`
	SiteInfo     SiteInfo            `json:"siteInfo"`
	Equipment    EquipmentCategories `json:"equipment"`
	Totals       EquipmentTotals     `json:"totals"`
	Mappings     []ProductMapping    `json:"mappings"`
	AIContext    string              `json:"aiContext"`
	RawDataCount int                 `json:"rawDataCount"`
	FileName     string              `json:"fileName"`
	ImportedAt   string              `json:"importedAt"`
	Warnings     []ValidationError   `json:"warnings"`
	ImportID     string              `json:"importId,omitempty"`
}

// EquipmentImporter holds the business rules applied to spreadsheet imports.
type EquipmentImporter struct {
	Rules     CategoryRules
	Columns   ColumnMap
	LaborRate float64
	Now       func() time.Time
}

// NewEquipmentImporter returns an importer with the default rules and
// column map.
func NewEquipmentImporter(laborRate float64) EquipmentImporter {
	return EquipmentImporter{
		Rules:     DefaultCategoryRules(),
		Columns:   DefaultColumnMap(),
		LaborRate: laborRate,
	}
}

// ImportFile parses, categorizes and maps one spreadsheet.
func (im EquipmentImporter) ImportFile(file io.Reader, fileName string) (*EquipmentImport, error) {
	headers, rows, err := ParseSpreadsheet(file, fileName)
	if err != nil {
		return nil, err
	}
	return im.ImportRows(headers, rows, fileName)
}

// ImportRows runs the pipeline on an already parsed header and data rows.
func (im EquipmentImporter) ImportRows(headers []string, rows [][]string, fileName string) (*EquipmentImport, error) {
	columns := im.Columns
	if columns == nil {
		columns = DefaultColumnMap()
	}
	sheet := columns.Resolve(headers, rows)

	warnings := []ValidationError{}
	for _, field := range []string{FieldSystemType, FieldElementName} {
		if _, ok := sheet.Columns[field]; !ok {
			warnings = append(warnings, ValidationError{Row: 1, Field: field, Message: fmt.Sprintf("no column found for %s", field)})
		}
	}

	equipment, rowWarnings := ExtractEquipment(sheet, im.Rules)
	warnings = append(warnings, rowWarnings...)

	siteInfo := ExtractSiteInfo(sheet)
	mappings := MapAllEquipment(equipment)

	now := time.Now
	if im.Now != nil {
		now = im.Now
	}

	return &EquipmentImport{
		Source:       SourceExcel,
		SiteInfo:     siteInfo,
		Equipment:    equipment,
		Totals:       CalculateTotals(equipment, im.LaborRate),
		Mappings:     mappings,
		AIContext:    GenerateAIContext(mappings, siteInfo),
		RawDataCount: len(rows),
		FileName:     fileName,
		ImportedAt:   now().UTC().Format(time.RFC3339),
		Warnings:     warnings,
	}, nil
}
