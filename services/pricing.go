// Package services provides the survey transform, equipment categorization,
// totals and export functions behind the import routes.
package services

// DefaultLaborRate is the $/hour used when no rate is configured.
const DefaultLaborRate = 85.0

// EquipmentTotals summarizes categorized spreadsheet equipment.
type EquipmentTotals struct {
	TotalItems         int     `json:"totalItems"`
	TotalCost          float64 `json:"totalCost"`
	TotalInstallHours  float64 `json:"totalInstallHours"`
	TotalCameras       int     `json:"totalCameras"`
	EstimatedLaborCost float64 `json:"estimatedLaborCost"`
	LaborRate          float64 `json:"laborRate"`
}

// CalculateTotals walks every category once. A zero quantity counts as 1;
// install hours are per unit.
func CalculateTotals(categories EquipmentCategories, laborRate float64) EquipmentTotals {
	totals := EquipmentTotals{LaborRate: laborRate}

	categories.Each(func(category string, row EquipmentRow) {
		qty := row.Quantity
		if qty == 0 {
			qty = 1
		}
		totals.TotalItems += qty
		totals.TotalCost += row.Price * float64(qty)
		totals.TotalInstallHours += row.InstallHours * float64(qty)
		if category == CategoryCameras {
			totals.TotalCameras += qty
		}
	})

	totals.EstimatedLaborCost = CalcLaborCost(totals.TotalInstallHours, laborRate)
	return totals
}

func CalcLaborCost(hours, rate float64) float64 {
	return hours * rate
}
