package services

import "strings"

// SiteInfo is the metadata block at the top of a System Surveyor export.
type SiteInfo struct {
	SiteName   string `json:"siteName,omitempty"`
	Address    string `json:"address,omitempty"`
	SurveyName string `json:"surveyName,omitempty"`
	ExportedBy string `json:"exportedBy,omitempty"`
	ExportDate string `json:"exportDate,omitempty"`
}

// ExtractSiteInfo scans label/value pairs. The first "Name" is the site;
// a later "Name" mentioning "Low Voltage" is the survey.
func ExtractSiteInfo(sheet SheetRows) SiteInfo {
	var info SiteInfo
	for i := range sheet.Rows {
		label := sheet.Value(i, FieldSiteLabel)
		value := sheet.Value(i, FieldSiteValue)
		if value == "" {
			continue
		}

		switch {
		case label == "Name" && info.SiteName == "":
			info.SiteName = value
		case label == "Address":
			info.Address = value
		case label == "Name" && strings.Contains(value, "Low Voltage"):
			info.SurveyName = value
		case label == "Report Exported by":
			info.ExportedBy = value
		case label == "Report Export date":
			info.ExportDate = value
		}
	}
	return info
}
