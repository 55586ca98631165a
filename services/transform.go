package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

const (
	defaultTypeName    = "Other"
	defaultSiteName    = "Unknown Site"
	defaultProjectName = "Imported Survey"
	noLocation         = "Location not specified"
)

// Survey is a System Surveyor survey as received from the API or a client
// payload. Only the fields the transform reads are declared.
type Survey struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Site       string          `json:"site"`
	ModifiedAt any             `json:"modified_at"`
	Elements   []SurveyElement `json:"elements"`
}

// UnmarshalJSON accepts scalar ids, titles and site names of any JSON type.
func (s *Survey) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         any             `json:"id"`
		Title      any             `json:"title"`
		Site       any             `json:"site"`
		ModifiedAt any             `json:"modified_at"`
		Elements   []SurveyElement `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Survey{
		ID:         looseString(raw.ID),
		Title:      looseString(raw.Title),
		Site:       looseString(raw.Site),
		ModifiedAt: raw.ModifiedAt,
		Elements:   raw.Elements,
	}
	return nil
}

// SurveyElement is one physical device or location on a survey. ElementName
// is read when Name is empty.
type SurveyElement struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	ElementName string         `json:"element_name,omitempty"`
	Accessories []RawAccessory `json:"accessories"`
}

// UnmarshalJSON accepts numeric element ids and names such as 101.
func (e *SurveyElement) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          any            `json:"id"`
		Name        any            `json:"name"`
		ElementName any            `json:"element_name"`
		Accessories []RawAccessory `json:"accessories"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = SurveyElement{
		ID:          looseString(raw.ID),
		Name:        looseString(raw.Name),
		ElementName: looseString(raw.ElementName),
		Accessories: raw.Accessories,
	}
	return nil
}

// RawAccessory keeps accessory values exactly as they arrived so that absent,
// null and malformed values can be told apart during normalization.
type RawAccessory struct {
	ID           any `json:"id,omitempty"`
	Manufacturer any `json:"manufacturer,omitempty"`
	Model        any `json:"model,omitempty"`
	Description  any `json:"description,omitempty"`
	Quantity     any `json:"quantity,omitempty"`
	Price        any `json:"price,omitempty"`
	LaborHours   any `json:"labor_hours,omitempty"`
	RowIndex     any `json:"row_index,omitempty"`
}

// Site describes where a survey was taken.
type Site struct {
	ID      string `json:"id"`
	SiteID  string `json:"siteId,omitempty"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
}

// UnmarshalJSON accepts numbers and booleans where strings are expected,
// e.g. a numeric zip code.
func (s *Site) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      any `json:"id"`
		SiteID  any `json:"siteId"`
		Name    any `json:"name"`
		City    any `json:"city"`
		State   any `json:"state"`
		ZipCode any `json:"zip_code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Site{
		ID:      looseString(raw.ID),
		SiteID:  looseString(raw.SiteID),
		Name:    looseString(raw.Name),
		City:    looseString(raw.City),
		State:   looseString(raw.State),
		ZipCode: looseString(raw.ZipCode),
	}
	return nil
}

// Accessory is a normalized billable line item. A nil Price means the price
// is unknown, which is not the same as a free (0) item.
type Accessory struct {
	ID           string   `json:"id"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Description  string   `json:"description"`
	Quantity     int      `json:"quantity"`
	Price        *float64 `json:"price"`
	LaborHours   float64  `json:"labor_hours"`
	RowIndex     int      `json:"row_index"`
}

// LineTotal is the accessory's contribution to the survey value.
func (a Accessory) LineTotal() float64 {
	if a.Price == nil {
		return 0
	}
	return *a.Price * float64(a.Quantity)
}

// AssessmentData is the flattened record produced from one survey.
type AssessmentData struct {
	ProjectName     string            `json:"projectName"`
	SiteName        string            `json:"siteName"`
	Location        string            `json:"location"`
	ElementCount    int               `json:"elementCount"`
	EquipmentCounts map[string]int    `json:"equipmentCounts"`
	Accessories     []Accessory       `json:"accessories"`
	TotalValue      float64           `json:"totalValue"`
	TotalLaborHours float64           `json:"totalLaborHours"`
	SurveyDate      string            `json:"surveyDate"`
	SurveyID        *string           `json:"surveyId"`
	SiteID          *string           `json:"siteId"`
	Warnings        []ValidationError `json:"warnings"`
}

// Transformer converts surveys into AssessmentData. Now and NewID are the
// only sources of non-determinism; zero values fall back to the wall clock
// and random accessory ids.
type Transformer struct {
	Now   func() time.Time
	NewID func() string
}

// TransformToAssessmentData transforms a survey using the wall clock and
// random accessory ids. site may be nil.
func TransformToAssessmentData(survey Survey, site *Site) AssessmentData {
	return Transformer{}.Transform(survey, site)
}

// Transform never fails: missing or malformed values degrade to defaults and
// every coercion of a present value is reported in Warnings.
func (t Transformer) Transform(survey Survey, site *Site) AssessmentData {
	warnings := &warningSet{}
	equipmentCounts := make(map[string]int)
	accessories := make([]Accessory, 0)
	var totalLaborHours float64

	for _, element := range survey.Elements {
		typeName := ElementTypeCode(element)
		equipmentCounts[typeName]++

		for _, raw := range element.Accessories {
			acc := t.normalizeAccessory(raw, len(accessories), warnings)
			accessories = append(accessories, acc)
			totalLaborHours += acc.LaborHours
		}
	}

	return AssessmentData{
		ProjectName:     firstNonEmpty(survey.Title, survey.ID, defaultProjectName),
		SiteName:        siteName(survey, site),
		Location:        FormatLocation(site),
		ElementCount:    len(survey.Elements),
		EquipmentCounts: equipmentCounts,
		Accessories:     accessories,
		TotalValue:      CalculateTotalCost(accessories),
		TotalLaborHours: totalLaborHours,
		SurveyDate:      t.surveyDate(survey.ModifiedAt, warnings),
		SurveyID:        optionalString(survey.ID),
		SiteID:          siteID(site),
		Warnings:        warnings.list(),
	}
}

// ElementTypeCode returns the part of the element's name before the first
// hyphen, e.g. "CAM-001" is "CAM". Names without a hyphen are used whole.
func ElementTypeCode(element SurveyElement) string {
	name := firstNonEmpty(element.Name, element.ElementName, defaultTypeName)
	code, _, _ := strings.Cut(name, "-")
	if code == "" {
		return defaultTypeName
	}
	return code
}

func (t Transformer) normalizeAccessory(raw RawAccessory, position int, warnings *warningSet) Accessory {
	row := position + 1

	acc := Accessory{
		ID:           cast.ToString(raw.ID),
		Manufacturer: cast.ToString(raw.Manufacturer),
		Model:        cast.ToString(raw.Model),
		Description:  cast.ToString(raw.Description),
		Quantity:     1,
		RowIndex:     position,
	}
	if acc.ID == "" {
		acc.ID = t.newID()
	}

	if raw.Quantity != nil {
		qty, err := looseInt(raw.Quantity)
		switch {
		case err != nil:
			warnings.add(row, "quantity", fmt.Sprintf("quantity %v is not a number, using 1", raw.Quantity))
		case qty == 0:
			warnings.add(row, "quantity", "quantity 0 treated as 1")
		default:
			acc.Quantity = qty
		}
	}

	if raw.Price != nil {
		price, err := cast.ToFloat64E(raw.Price)
		if err != nil {
			warnings.add(row, "price", fmt.Sprintf("price %v is not a number, treating as unknown", raw.Price))
		} else {
			acc.Price = &price
		}
	}

	if raw.LaborHours != nil {
		hours, err := cast.ToFloat64E(raw.LaborHours)
		if err != nil {
			warnings.add(row, "labor_hours", fmt.Sprintf("labor hours %v is not a number, using 0", raw.LaborHours))
		} else {
			if hours < 0 {
				warnings.add(row, "labor_hours", fmt.Sprintf("labor hours %v is negative", raw.LaborHours))
			}
			acc.LaborHours = hours
		}
	}

	if idx, ok := numericRowIndex(raw.RowIndex); ok {
		acc.RowIndex = idx
	}

	return acc
}

// looseInt reads strings in base 10 so zero-padded values like "08" parse;
// fractional values are truncated. Other types go through cast.
func looseInt(v any) (int, error) {
	if str, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	}
	return cast.ToIntE(v)
}

// looseString renders scalars as text; objects and arrays become "".
func looseString(v any) string {
	return cast.ToString(v)
}

// numericRowIndex accepts only values that are already numbers; a string
// row index is ignored in favor of the positional one.
func numericRowIndex(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func (t Transformer) newID() string {
	if t.NewID != nil {
		return t.NewID()
	}
	return "acc-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (t Transformer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t Transformer) surveyDate(modifiedAt any, warnings *warningSet) string {
	const isoMillis = "2006-01-02T15:04:05.000Z"

	if modifiedAt != nil {
		secs, err := cast.ToFloat64E(modifiedAt)
		if err != nil {
			warnings.add(0, "modified_at", fmt.Sprintf("modified_at %v is not a Unix timestamp, using current time", modifiedAt))
		} else if secs != 0 {
			return time.UnixMilli(int64(secs * 1000)).UTC().Format(isoMillis)
		}
	}
	return t.now().UTC().Format(isoMillis)
}

// FormatLocation joins city, state and zip as "City, ST 12345".
func FormatLocation(site *Site) string {
	if site == nil {
		return noLocation
	}
	location := site.City
	if site.State != "" {
		location += ", " + site.State
	}
	if site.ZipCode != "" {
		location += " " + site.ZipCode
	}
	if location == "" {
		return noLocation
	}
	return location
}

func siteName(survey Survey, site *Site) string {
	if site != nil && site.Name != "" {
		return site.Name
	}
	return firstNonEmpty(survey.Site, defaultSiteName)
}

func siteID(site *Site) *string {
	if site == nil {
		return nil
	}
	return optionalString(firstNonEmpty(site.ID, site.SiteID))
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
