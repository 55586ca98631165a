// Package templates renders the server-side HTML views.
package templates

// ImportLineView is one formatted BOM row.
type ImportLineView struct {
	Index        int
	Category     string
	Description  string
	Manufacturer string
	Model        string
	Quantity     int
	UnitPrice    string // "TBD" when unknown
	LineTotal    string
	LaborHours   string
}

// ImportSummaryData is everything the summary view shows for one import.
type ImportSummaryData struct {
	ID               string
	ProjectName      string
	SiteName         string
	Location         string
	SurveyDate       string
	Source           string
	EquipmentSummary string
	Lines            []ImportLineView
	TotalValue       string
	LaborHours       string
	LaborCost        string
	GrandTotal       string
	WarningCount     int
}

// ImportListItem is one row on the imports index.
type ImportListItem struct {
	ID          string
	ProjectName string
	SiteName    string
	Source      string
	TotalValue  string
	Created     string
}
