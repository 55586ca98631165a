package services

import (
	"strings"
	"testing"
)

func TestGenerateAIContext(t *testing.T) {
	c := NewEquipmentCategories()
	c.Cameras = []EquipmentRow{
		{ID: "C1", Name: "Camera", Location: "Parking Lot", InstallHours: 1.5},
		{ID: "C2", Name: "Camera", InstallHours: 1},
	}
	c.Network = []EquipmentRow{{ID: "N1", Name: "PoE Switch", InstallHours: 2}}
	c.AccessControl = []EquipmentRow{{ID: "A1", Name: "Card Reader", InstallHours: 0.5}}

	got := GenerateAIContext(MapAllEquipment(c), SiteInfo{SiteName: "Main Street", SurveyName: "Low Voltage Survey"})

	for _, want := range []string{
		"SYSTEM SURVEYOR FIELD SURVEY IMPORT",
		"Site: Main Street",
		"Address: Unknown",
		"Survey: Low Voltage Survey",
		"- 2 cameras surveyed (1 outdoor, 1 indoor)",
		"- 1 access control devices",
		"- Network infrastructure surveyed and documented",
		"- 5 hours installation labor estimated",
		"- [C1] Parking Lot",
		"- [C2] Location TBD",
		"USE THIS FIELD-VERIFIED DATA",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q\n%s", want, got)
		}
	}
}

func TestGenerateAIContext_Empty(t *testing.T) {
	got := GenerateAIContext(nil, SiteInfo{})

	if !strings.Contains(got, "Site: Unknown") {
		t.Error("expected Unknown site")
	}
	if !strings.Contains(got, "- 0 cameras surveyed (0 outdoor, 0 indoor)") {
		t.Error("expected zero camera line")
	}
	if strings.Contains(got, "access control devices") || strings.Contains(got, "Network infrastructure") {
		t.Error("optional lines should be omitted")
	}
}
