package services

import (
	"fmt"
	"strings"
)

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// GenerateAIContext renders mapped equipment as the field-survey preamble
// for an AI assessment prompt.
func GenerateAIContext(mappings []ProductMapping, site SiteInfo) string {
	var cameras, outdoor, accessDevices int
	var hasNetwork bool
	var laborHours float64
	for _, m := range mappings {
		switch m.RecommendedProduct.Category {
		case ProductCamera:
			cameras++
			if f := m.RecommendedProduct.Filters; f != nil && f.Outdoor != nil && *f.Outdoor {
				outdoor++
			}
		case ProductAccessControl:
			accessDevices++
		case ProductNetwork:
			hasNetwork = true
		}
		laborHours += m.SurveyorItem.InstallHours
	}

	var b strings.Builder
	b.WriteString("SYSTEM SURVEYOR FIELD SURVEY IMPORT\n\n")
	fmt.Fprintf(&b, "Site: %s\n", orUnknown(site.SiteName))
	fmt.Fprintf(&b, "Address: %s\n", orUnknown(site.Address))
	fmt.Fprintf(&b, "Survey: %s\n\n", orUnknown(site.SurveyName))

	b.WriteString("FIELD-VERIFIED EQUIPMENT:\n")
	fmt.Fprintf(&b, "- %d cameras surveyed (%d outdoor, %d indoor)\n", cameras, outdoor, cameras-outdoor)
	if accessDevices > 0 {
		fmt.Fprintf(&b, "- %d access control devices\n", accessDevices)
	}
	if hasNetwork {
		b.WriteString("- Network infrastructure surveyed and documented\n")
	}
	fmt.Fprintf(&b, "- %s hours installation labor estimated\n\n", formatQty(laborHours))

	b.WriteString("CAMERA LOCATIONS:\n")
	for _, m := range mappings {
		if m.RecommendedProduct.Category != ProductCamera {
			continue
		}
		location := m.SurveyorItem.Location
		if location == "" {
			location = "Location TBD"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", m.SurveyorItem.ID, location)
	}

	b.WriteString("\n\nUSE THIS FIELD-VERIFIED DATA as the foundation for your security assessment. ")
	b.WriteString("All camera locations have been professionally surveyed on-site. ")
	b.WriteString("Focus your analysis on: 1) Validating equipment specifications, 2) Recommending specific products, ")
	b.WriteString("3) Identifying any coverage gaps, 4) Optimizing the design for cost and performance.")

	return b.String()
}
