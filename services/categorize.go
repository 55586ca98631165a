package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category names, in the order they appear in EquipmentCategories.
const (
	CategoryCameras        = "cameras"
	CategoryInfrastructure = "infrastructure"
	CategoryNetwork        = "network"
	CategoryAccessControl  = "accessControl"
	CategoryCommunications = "communications"
	CategoryAudioVisual    = "audioVisual"
	CategoryOther          = "other"
)

// headerSystemType marks a repeated header row inside the sheet body.
const headerSystemType = "System Type"

var allCategories = []string{
	CategoryCameras,
	CategoryInfrastructure,
	CategoryNetwork,
	CategoryAccessControl,
	CategoryCommunications,
	CategoryAudioVisual,
	CategoryOther,
}

// EquipmentRow is one spreadsheet equipment line.
type EquipmentRow struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SystemType   string  `json:"systemType"`
	Status       string  `json:"status"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	InstallHours float64 `json:"installHours"`
	Location     string  `json:"location"`
	Notes        string  `json:"notes"`
	SerialNumber string  `json:"serialNumber"`
	IPAddress    string  `json:"ipAddress"`
	Username     string  `json:"username"`
	Password     string  `json:"password"`
}

// EquipmentCategories buckets every equipment row into exactly one category.
type EquipmentCategories struct {
	Cameras        []EquipmentRow `json:"cameras"`
	Infrastructure []EquipmentRow `json:"infrastructure"`
	Network        []EquipmentRow `json:"network"`
	AccessControl  []EquipmentRow `json:"accessControl"`
	Communications []EquipmentRow `json:"communications"`
	AudioVisual    []EquipmentRow `json:"audioVisual"`
	Other          []EquipmentRow `json:"other"`
}

// NewEquipmentCategories returns categories with empty, non-nil slices.
func NewEquipmentCategories() EquipmentCategories {
	return EquipmentCategories{
		Cameras:        []EquipmentRow{},
		Infrastructure: []EquipmentRow{},
		Network:        []EquipmentRow{},
		AccessControl:  []EquipmentRow{},
		Communications: []EquipmentRow{},
		AudioVisual:    []EquipmentRow{},
		Other:          []EquipmentRow{},
	}
}

// bucket returns the slice for a category name; unknown names map to Other.
func (c *EquipmentCategories) bucket(category string) *[]EquipmentRow {
	switch category {
	case CategoryCameras:
		return &c.Cameras
	case CategoryInfrastructure:
		return &c.Infrastructure
	case CategoryNetwork:
		return &c.Network
	case CategoryAccessControl:
		return &c.AccessControl
	case CategoryCommunications:
		return &c.Communications
	case CategoryAudioVisual:
		return &c.AudioVisual
	}
	return &c.Other
}

// Each calls fn for every row with its category name, in category order.
func (c EquipmentCategories) Each(fn func(category string, row EquipmentRow)) {
	for _, name := range allCategories {
		for _, row := range *c.bucket(name) {
			fn(name, row)
		}
	}
}

// Len returns the number of rows across all categories.
func (c EquipmentCategories) Len() int {
	n := 0
	c.Each(func(string, EquipmentRow) { n++ })
	return n
}

// CategoryRule matches a row when its lower-cased name contains any of
// NameKeywords or its system type equals one of SystemTypes exactly.
type CategoryRule struct {
	Category     string   `yaml:"category" json:"category"`
	NameKeywords []string `yaml:"name_keywords" json:"nameKeywords"`
	SystemTypes  []string `yaml:"system_types" json:"systemTypes"`
}

func (r CategoryRule) matches(nameLower, systemType string) bool {
	for _, st := range r.SystemTypes {
		if systemType == st {
			return true
		}
	}
	for _, kw := range r.NameKeywords {
		if strings.Contains(nameLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// CategoryRules is an ordered, first-match-wins rule list. Rows matching no
// rule land in CategoryOther.
type CategoryRules struct {
	Rules []CategoryRule `yaml:"rules" json:"rules"`
}

// DefaultCategoryRules returns the System Surveyor keyword taxonomy.
func DefaultCategoryRules() CategoryRules {
	return CategoryRules{Rules: []CategoryRule{
		{Category: CategoryCameras, NameKeywords: []string{"camera"}, SystemTypes: []string{"Video Surveillance"}},
		{Category: CategoryInfrastructure, NameKeywords: []string{"cable path", "patch panel"}},
		{Category: CategoryNetwork, NameKeywords: []string{"switch", "router", "network", "wireless access point"}},
		{Category: CategoryAccessControl, NameKeywords: []string{"reader", "door", "lock", "access"}},
		{Category: CategoryCommunications, NameKeywords: []string{"telephone", "speaker"}, SystemTypes: []string{"Communications"}},
		{Category: CategoryAudioVisual, NameKeywords: []string{"monitor", "display"}, SystemTypes: []string{"Audio Visual"}},
	}}
}

// Validate rejects empty rule lists and unknown category names.
func (cr CategoryRules) Validate() error {
	if len(cr.Rules) == 0 {
		return fmt.Errorf("category rules: at least one rule is required")
	}
	for i, r := range cr.Rules {
		if !isCategory(r.Category) {
			return fmt.Errorf("category rules: rule %d has unknown category %q", i+1, r.Category)
		}
		if len(r.NameKeywords) == 0 && len(r.SystemTypes) == 0 {
			return fmt.Errorf("category rules: rule %d (%s) has no keywords or system types", i+1, r.Category)
		}
	}
	return nil
}

// Classify returns the category for a row.
func (cr CategoryRules) Classify(name, systemType string) string {
	nameLower := strings.ToLower(name)
	for _, r := range cr.Rules {
		if r.matches(nameLower, systemType) {
			return r.Category
		}
	}
	return CategoryOther
}

// LoadCategoryRules reads a YAML rules file. An empty path returns the defaults.
func LoadCategoryRules(path string) (CategoryRules, error) {
	if path == "" {
		return DefaultCategoryRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return CategoryRules{}, fmt.Errorf("read category rules: %w", err)
	}
	return ParseCategoryRules(data)
}

// ParseCategoryRules decodes and validates YAML rules.
func ParseCategoryRules(data []byte) (CategoryRules, error) {
	var rules CategoryRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return CategoryRules{}, fmt.Errorf("parse category rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return CategoryRules{}, err
	}
	return rules, nil
}

func isCategory(name string) bool {
	for _, c := range allCategories {
		if c == name {
			return true
		}
	}
	return false
}

// ExtractEquipment builds an EquipmentRow from every sheet row that has both
// a system type and an element name and buckets it using rules. Row numbers
// in warnings are 1-based sheet rows, counting the header.
func ExtractEquipment(sheet SheetRows, rules CategoryRules) (EquipmentCategories, []ValidationError) {
	categories := NewEquipmentCategories()
	warnings := &warningSet{}

	for i := range sheet.Rows {
		rowNum := i + 2
		systemType := sheet.Value(i, FieldSystemType)
		elementName := sheet.Value(i, FieldElementName)
		if systemType == "" || elementName == "" || systemType == headerSystemType {
			continue
		}

		row := EquipmentRow{
			ID:           valueOr(sheet.Value(i, FieldID), "N/A"),
			Name:         elementName,
			SystemType:   systemType,
			Status:       valueOr(sheet.Value(i, FieldStatus), "N/A"),
			Manufacturer: sheet.Value(i, FieldManufacturer),
			Model:        sheet.Value(i, FieldModel),
			Quantity:     parseIntOr(sheet.Value(i, FieldQuantity), 1, rowNum, "quantity", warnings),
			Price:        parseFloatOr(sheet.Value(i, FieldPrice), 0, rowNum, "price", warnings),
			InstallHours: parseFloatOr(sheet.Value(i, FieldInstallHours), 0, rowNum, "installHours", warnings),
			Location:     sheet.Value(i, FieldLocation),
			Notes:        sheet.Value(i, FieldNotes),
			SerialNumber: sheet.Value(i, FieldSerialNumber),
			IPAddress:    sheet.Value(i, FieldIPAddress),
			Username:     sheet.Value(i, FieldUsername),
			Password:     sheet.Value(i, FieldPassword),
		}

		bucket := categories.bucket(rules.Classify(elementName, systemType))
		*bucket = append(*bucket, row)
	}

	return categories, warnings.list()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
