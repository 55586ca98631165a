package services

import (
	"fmt"
	"sort"
	"strings"
)

// BOMLine is one bill-of-materials row for proposals and exports.
type BOMLine struct {
	RowIndex     int      `json:"rowIndex"`
	Description  string   `json:"description"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Quantity     int      `json:"quantity"`
	UnitPrice    *float64 `json:"unitPrice"`
	TotalPrice   float64  `json:"totalPrice"`
	LaborHours   float64  `json:"laborHours"`
}

// GenerateBOM converts accessories to BOM lines, keeping unknown unit prices nil.
func GenerateBOM(accessories []Accessory) []BOMLine {
	lines := make([]BOMLine, len(accessories))
	for i, acc := range accessories {
		lines[i] = BOMLine{
			RowIndex:     acc.RowIndex,
			Description:  acc.Description,
			Manufacturer: acc.Manufacturer,
			Model:        acc.Model,
			Quantity:     acc.Quantity,
			UnitPrice:    acc.Price,
			TotalPrice:   acc.LineTotal(),
			LaborHours:   acc.LaborHours,
		}
	}
	return lines
}

// CalculateTotalCost sums price x quantity, counting unknown prices as 0.
func CalculateTotalCost(accessories []Accessory) float64 {
	var sum float64
	for _, acc := range accessories {
		sum += acc.LineTotal()
	}
	return sum
}

func CalculateTotalLaborHours(accessories []Accessory) float64 {
	var sum float64
	for _, acc := range accessories {
		sum += acc.LaborHours
	}
	return sum
}

// FormatEquipmentList renders counts as "2x CAM, 1x SENS", ordered by type code.
func FormatEquipmentList(counts map[string]int) string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%dx %s", counts[t], t)
	}
	return strings.Join(parts, ", ")
}

// EquipmentTypes returns the distinct type codes of a survey in first-seen order.
func EquipmentTypes(survey Survey) []string {
	seen := make(map[string]bool)
	var types []string
	for _, element := range survey.Elements {
		code := ElementTypeCode(element)
		if !seen[code] {
			seen[code] = true
			types = append(types, code)
		}
	}
	return types
}
