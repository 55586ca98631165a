package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"surveyimport/config"
	"surveyimport/services"
)

// newTransformCmd converts a survey JSON file or a spreadsheet export offline
// and prints the result as JSON.
func newTransformCmd(cfg config.Config, rules services.CategoryRules) *cobra.Command {
	var (
		sitePath string
		compact  bool
	)

	cmd := &cobra.Command{
		Use:   "transform <survey.json | export.xlsx | export.csv>",
		Short: "Transform a System Surveyor survey or spreadsheet export without starting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var result any
			if strings.EqualFold(filepath.Ext(path), ".json") {
				data, err := transformSurveyFile(path, sitePath)
				if err != nil {
					return err
				}
				result = data
			} else {
				importer := services.NewEquipmentImporter(cfg.LaborRate)
				importer.Rules = rules
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				imp, err := importer.ImportFile(f, filepath.Base(path))
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				result = imp
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&sitePath, "site", "", "optional site JSON file supplying name and address")
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON on one line")
	return cmd
}

func transformSurveyFile(surveyPath, sitePath string) (services.AssessmentData, error) {
	raw, err := os.ReadFile(surveyPath)
	if err != nil {
		return services.AssessmentData{}, err
	}
	var survey services.Survey
	if err := json.Unmarshal(raw, &survey); err != nil {
		return services.AssessmentData{}, fmt.Errorf("decode survey %s: %w", surveyPath, err)
	}

	var site *services.Site
	if sitePath != "" {
		raw, err := os.ReadFile(sitePath)
		if err != nil {
			return services.AssessmentData{}, err
		}
		site = &services.Site{}
		if err := json.Unmarshal(raw, site); err != nil {
			return services.AssessmentData{}, fmt.Errorf("decode site %s: %w", sitePath, err)
		}
	}

	return services.TransformToAssessmentData(survey, site), nil
}
