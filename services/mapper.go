package services

import (
	"fmt"
	"math"
	"strings"
)

// Confidence levels for product recommendations.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Recommended product categories.
const (
	ProductCamera        = "Camera"
	ProductNetwork       = "Network"
	ProductRecording     = "Recording"
	ProductInstallation  = "Installation"
	ProductAccessControl = "Access Control"
	ProductOther         = "Other"
)

const cableSummaryID = "CABLE-SUMMARY"

type ProductFilters struct {
	Indoor     *bool    `json:"indoor,omitempty"`
	Outdoor    *bool    `json:"outdoor,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	Features   []string `json:"features,omitempty"`
}

type RecommendedProduct struct {
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	SearchTerms []string        `json:"searchTerms"`
	Filters     *ProductFilters `json:"filters,omitempty"`
}

// ProductMapping pairs a surveyed item with a catalog recommendation.
type ProductMapping struct {
	SurveyorItem       EquipmentRow       `json:"surveyorItem"`
	RecommendedProduct RecommendedProduct `json:"recommendedProduct"`
	Confidence         string             `json:"confidence"`
	Notes              string             `json:"notes"`
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// MapCamera picks PTZ, bullet or turret from the location and name.
func MapCamera(item EquipmentRow) ProductMapping {
	location := strings.ToLower(item.Location)
	name := strings.ToLower(item.Name)

	outdoor := containsAny(location, "lot", "exterior", "outside", "corner") || strings.Contains(name, "outdoor")
	ptz := containsAny(name, "ptz", "pan", "tilt")

	resolution := "4MP"
	if containsAny(name, "4k", "8mp") {
		resolution = "4K"
	}
	if containsAny(name, "1080p", "2mp") {
		resolution = "1080p"
	}

	var searchTerms []string
	if ptz {
		searchTerms = []string{"PTZ", "Pan Tilt Zoom"}
	} else {
		searchTerms = []string{"Fixed", "Turret", "Bullet"}
		if outdoor {
			searchTerms = append(searchTerms, "Bullet")
		} else {
			searchTerms = append(searchTerms, "Turret", "Dome")
		}
	}

	features := []string{"IR Night Vision", "WDR", "H.265"}
	if outdoor {
		features = append(features, "Weatherproof", "IP67", "IK10 Vandal Proof")
	}

	subcategory := "Turret Camera"
	if ptz {
		subcategory = "PTZ Camera"
	} else if outdoor {
		subcategory = "Bullet Camera"
	}

	confidence := ConfidenceMedium
	if item.Manufacturer != "" {
		confidence = ConfidenceHigh
	}

	placement := "Indoor"
	if outdoor {
		placement = "Outdoor"
	}
	indoor := !outdoor

	return ProductMapping{
		SurveyorItem: item,
		RecommendedProduct: RecommendedProduct{
			Category:    ProductCamera,
			Subcategory: subcategory,
			SearchTerms: searchTerms,
			Filters: &ProductFilters{
				Indoor:     &indoor,
				Outdoor:    &outdoor,
				Resolution: resolution,
				Features:   features,
			},
		},
		Confidence: confidence,
		Notes:      fmt.Sprintf("Location: %s - %s camera recommended", item.Location, placement),
	}
}

func MapNetworkEquipment(item EquipmentRow) ProductMapping {
	name := strings.ToLower(item.Name)

	if strings.Contains(name, "switch") {
		ports := 24
		if !strings.Contains(name, "24") && strings.Contains(name, "48") {
			ports = 48
		}
		poe := "PoE"
		if !strings.Contains(name, "non-poe") {
			poe = "PoE+"
		}
		return ProductMapping{
			SurveyorItem: item,
			RecommendedProduct: RecommendedProduct{
				Category:    ProductNetwork,
				Subcategory: "PoE Switch",
				SearchTerms: []string{fmt.Sprintf("%d-port", ports), poe, "Managed Switch"},
				Filters:     &ProductFilters{Features: []string{"Layer 2", "VLAN Support", "IGMP Snooping"}},
			},
			Confidence: ConfidenceHigh,
			Notes:      fmt.Sprintf("Recommend %d-port PoE+ managed switch", ports),
		}
	}

	if containsAny(name, "wireless access point", "wap") {
		return ProductMapping{
			SurveyorItem: item,
			RecommendedProduct: RecommendedProduct{
				Category:    ProductNetwork,
				Subcategory: "Wireless Access Point",
				SearchTerms: []string{"WiFi 6", "Access Point", "PoE"},
				Filters:     &ProductFilters{Features: []string{"Dual Band", "MIMO", "PoE Powered"}},
			},
			Confidence: ConfidenceHigh,
			Notes:      "WiFi 6 access point for modern coverage",
		}
	}

	return ProductMapping{
		SurveyorItem: item,
		RecommendedProduct: RecommendedProduct{
			Category:    ProductNetwork,
			Subcategory: "Network Equipment",
			SearchTerms: []string{item.Name},
		},
		Confidence: ConfidenceLow,
		Notes:      "Generic network equipment - needs manual review",
	}
}

// MapServer sizes an NVR for 30 days of 4MP H.265 at ~2.5GB/day per camera.
func MapServer(item EquipmentRow, cameraCount int) ProductMapping {
	storageTB := int(math.Ceil(float64(cameraCount) * 2.5 * 30 / 1000))

	channels := 8
	switch {
	case cameraCount > 32:
		channels = 64
	case cameraCount > 16:
		channels = 32
	case cameraCount > 8:
		channels = 16
	}

	return ProductMapping{
		SurveyorItem: item,
		RecommendedProduct: RecommendedProduct{
			Category:    ProductRecording,
			Subcategory: "NVR",
			SearchTerms: []string{fmt.Sprintf("%d-Channel NVR", channels), "H.265", fmt.Sprintf("%dTB", storageTB)},
			Filters:     &ProductFilters{Features: []string{"RAID Support", "HDMI Output", "Remote Access"}},
		},
		Confidence: ConfidenceHigh,
		Notes:      fmt.Sprintf("%d-channel NVR for %d cameras with %dTB storage (30 days)", channels, cameraCount, storageTB),
	}
}

func MapInfrastructure(item EquipmentRow) ProductMapping {
	name := strings.ToLower(item.Name)

	if strings.Contains(name, "cable path") {
		return ProductMapping{
			SurveyorItem: item,
			RecommendedProduct: RecommendedProduct{
				Category:    ProductInstallation,
				Subcategory: "Labor & Materials",
				SearchTerms: []string{"Cat6", "Cable", "Labor"},
			},
			Confidence: ConfidenceHigh,
			Notes:      fmt.Sprintf("Cable run: %shrs labor included", formatQty(item.InstallHours)),
		}
	}

	if strings.Contains(name, "patch panel") {
		return ProductMapping{
			SurveyorItem: item,
			RecommendedProduct: RecommendedProduct{
				Category:    ProductNetwork,
				Subcategory: "Patch Panel",
				SearchTerms: []string{"24-Port Patch Panel", "Cat6"},
			},
			Confidence: ConfidenceHigh,
			Notes:      "Network patch panel for structured cabling",
		}
	}

	return ProductMapping{
		SurveyorItem: item,
		RecommendedProduct: RecommendedProduct{
			Category:    ProductInstallation,
			Subcategory: "Materials",
			SearchTerms: []string{item.Name},
		},
		Confidence: ConfidenceMedium,
		Notes:      "Infrastructure component",
	}
}

func MapAccessControl(item EquipmentRow) ProductMapping {
	name := strings.ToLower(item.Name)

	if strings.Contains(name, "reader") {
		biometric := containsAny(name, "finger", "bio")
		subcategory, terms, kind := "Card Reader", []string{"Proximity Card Reader", "RFID"}, "Proximity"
		if biometric {
			subcategory, terms, kind = "Biometric Reader", []string{"Fingerprint Reader"}, "Biometric"
		}
		return ProductMapping{
			SurveyorItem: item,
			RecommendedProduct: RecommendedProduct{
				Category:    ProductAccessControl,
				Subcategory: subcategory,
				SearchTerms: terms,
				Filters:     &ProductFilters{Features: []string{"PoE", "Wiegand", "Weather Resistant"}},
			},
			Confidence: ConfidenceHigh,
			Notes:      fmt.Sprintf("%s reader at %s", kind, item.Location),
		}
	}

	if containsAny(name, "lock", "strike") {
		return ProductMapping{
			SurveyorItem: item,
			RecommendedProduct: RecommendedProduct{
				Category:    ProductAccessControl,
				Subcategory: "Electric Lock",
				SearchTerms: []string{"Electric Strike", "Magnetic Lock", "Fail Safe"},
			},
			Confidence: ConfidenceMedium,
			Notes:      "Electric locking hardware",
		}
	}

	return ProductMapping{
		SurveyorItem: item,
		RecommendedProduct: RecommendedProduct{
			Category:    ProductAccessControl,
			Subcategory: "Access Control",
			SearchTerms: []string{item.Name},
		},
		Confidence: ConfidenceLow,
		Notes:      "Access control component - needs review",
	}
}

// MapEquipment routes a row to the matching mapper. totalCameras sizes
// recorders.
func MapEquipment(item EquipmentRow, totalCameras int) ProductMapping {
	name := strings.ToLower(item.Name)
	systemType := strings.ToLower(item.SystemType)

	switch {
	case strings.Contains(name, "camera") || strings.Contains(systemType, "surveillance"):
		return MapCamera(item)
	case containsAny(name, "switch", "wireless access point", "router"):
		return MapNetworkEquipment(item)
	case containsAny(name, "server", "nvr", "recorder"):
		return MapServer(item, totalCameras)
	case containsAny(name, "cable", "patch panel"):
		return MapInfrastructure(item)
	case containsAny(name, "reader", "lock", "door") || strings.Contains(systemType, "access"):
		return MapAccessControl(item)
	}

	var terms []string
	for _, t := range []string{item.Name, item.Manufacturer, item.Model} {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return ProductMapping{
		SurveyorItem: item,
		RecommendedProduct: RecommendedProduct{
			Category:    ProductOther,
			Subcategory: item.SystemType,
			SearchTerms: terms,
		},
		Confidence: ConfidenceLow,
		Notes:      fmt.Sprintf("Unrecognized equipment type: %s", item.SystemType),
	}
}

// MapAllEquipment maps every categorized row. All "cable path" rows collapse
// into a single cable summary line.
func MapAllEquipment(categories EquipmentCategories) []ProductMapping {
	totalCameras := len(categories.Cameras)
	mappings := make([]ProductMapping, 0, categories.Len())

	for _, item := range categories.Cameras {
		mappings = append(mappings, MapEquipment(item, totalCameras))
	}
	for _, item := range categories.Network {
		mappings = append(mappings, MapEquipment(item, totalCameras))
	}

	var cablePaths, otherInfra []EquipmentRow
	for _, item := range categories.Infrastructure {
		if strings.Contains(strings.ToLower(item.Name), "cable path") {
			cablePaths = append(cablePaths, item)
		} else {
			otherInfra = append(otherInfra, item)
		}
	}
	if len(cablePaths) > 0 {
		mappings = append(mappings, cableSummary(cablePaths))
	}
	for _, item := range otherInfra {
		mappings = append(mappings, MapEquipment(item, totalCameras))
	}

	for _, group := range [][]EquipmentRow{categories.AccessControl, categories.Communications, categories.AudioVisual, categories.Other} {
		for _, item := range group {
			mappings = append(mappings, MapEquipment(item, totalCameras))
		}
	}

	return mappings
}

func cableSummary(runs []EquipmentRow) ProductMapping {
	var hours float64
	for _, r := range runs {
		hours += r.InstallHours
	}
	return ProductMapping{
		SurveyorItem: EquipmentRow{
			ID:           cableSummaryID,
			Name:         fmt.Sprintf("Cable Runs (%d runs)", len(runs)),
			SystemType:   "Infrastructure",
			Quantity:     len(runs),
			Location:     "Various",
			InstallHours: hours,
		},
		RecommendedProduct: RecommendedProduct{
			Category:    ProductInstallation,
			Subcategory: "Structured Cabling",
			SearchTerms: []string{"Cat6 Cable", "Installation Labor", "Cable Management"},
		},
		Confidence: ConfidenceHigh,
		Notes:      fmt.Sprintf("%d cable runs totaling %s hours of installation labor", len(runs), formatQty(hours)),
	}
}
