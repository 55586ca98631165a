package services

import (
	"reflect"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestGenerateBOM(t *testing.T) {
	accs := []Accessory{
		{Description: "Mount", Manufacturer: "Axis", Model: "T91", Quantity: 3, Price: ptr(20), LaborHours: 0.5, RowIndex: 0},
		{Description: "Reader", Quantity: 2, Price: nil, LaborHours: 1, RowIndex: 1},
	}

	got := GenerateBOM(accs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].TotalPrice != 60 || got[0].UnitPrice == nil || *got[0].UnitPrice != 20 {
		t.Errorf("line 0 = %+v", got[0])
	}
	if got[1].UnitPrice != nil || got[1].TotalPrice != 0 {
		t.Errorf("unknown price should stay nil with 0 total: %+v", got[1])
	}
	if got[1].RowIndex != 1 || got[1].LaborHours != 1 {
		t.Errorf("line 1 = %+v", got[1])
	}
}

func TestCalculateTotalCostAndHours(t *testing.T) {
	accs := []Accessory{
		{Quantity: 2, Price: ptr(10), LaborHours: 1.5},
		{Quantity: 5, Price: nil, LaborHours: 2},
		{Quantity: 1, Price: ptr(0), LaborHours: 0},
	}
	if got := CalculateTotalCost(accs); got != 20 {
		t.Errorf("CalculateTotalCost() = %v, want 20", got)
	}
	if got := CalculateTotalLaborHours(accs); got != 3.5 {
		t.Errorf("CalculateTotalLaborHours() = %v, want 3.5", got)
	}
	if CalculateTotalCost(nil) != 0 || CalculateTotalLaborHours(nil) != 0 {
		t.Error("empty input should total 0")
	}
}

func TestFormatEquipmentList(t *testing.T) {
	tests := []struct {
		counts map[string]int
		want   string
	}{
		{map[string]int{"SENS": 1, "CAM": 2}, "2x CAM, 1x SENS"},
		{map[string]int{"DOOR": 4}, "4x DOOR"},
		{map[string]int{}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FormatEquipmentList(tt.counts); got != tt.want {
			t.Errorf("FormatEquipmentList(%v) = %q, want %q", tt.counts, got, tt.want)
		}
	}
}

func TestEquipmentTypes(t *testing.T) {
	survey := Survey{Elements: []SurveyElement{
		{Name: "SENS-1"}, {Name: "CAM-1"}, {Name: "SENS-2"}, {Name: "AP-1"},
	}}
	if got, want := EquipmentTypes(survey), []string{"SENS", "CAM", "AP"}; !reflect.DeepEqual(got, want) {
		t.Errorf("EquipmentTypes() = %v, want %v", got, want)
	}
}
