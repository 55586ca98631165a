package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"

	"surveyimport/config"
	"surveyimport/services"
	"surveyimport/surveyor"
)

// SurveyorAPI is the part of surveyor.Client the handlers use.
type SurveyorAPI interface {
	ValidateToken(ctx context.Context, token string) (bool, error)
	GetSites(ctx context.Context, token string) ([]surveyor.SiteSummary, error)
	GetSurveys(ctx context.Context, token, siteID string) ([]surveyor.SurveySummary, error)
	GetSurveyDetails(ctx context.Context, token, surveyID string) (services.Survey, error)
}

type authRequest struct {
	Token string `json:"token"`
}

func (r authRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required.Error("API token is required")),
	)
}

type importRequest struct {
	SurveyID string         `json:"surveyId"`
	Site     *services.Site `json:"site"`
	Persist  *bool          `json:"persist"`
}

func (r importRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SurveyID, validation.Required),
		validation.Field(&r.Site, validation.NotNil),
	)
}

type transformRequest struct {
	Survey  *services.Survey `json:"survey"`
	Site    *services.Site   `json:"site"`
	Persist *bool            `json:"persist"`
}

func (r transformRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Survey, validation.NotNil),
	)
}

// assessmentResponse is returned by the import and transform routes.
type assessmentResponse struct {
	Success  bool                    `json:"success"`
	Data     services.AssessmentData `json:"data"`
	ImportID string                  `json:"importId,omitempty"`
}

// siteWithSurveys is a listed site, optionally with its open surveys.
type siteWithSurveys struct {
	surveyor.SiteSummary
	Surveys []surveyor.SurveySummary `json:"surveys,omitempty"`
}

// HandleSurveyorAuth validates a System Surveyor token taken from the body
// or, failing that, the Authorization header.
// Route: POST /api/system-surveyor/auth
func HandleSurveyorAuth(api SurveyorAPI) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req authRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body", err)
		}
		if req.Token == "" {
			req.Token = GetBearerToken(e.Request)
		}
		if err := req.Validate(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "API token is required", err)
		}

		ok, err := api.ValidateToken(e.Request.Context(), req.Token)
		if err != nil {
			return ErrorJSON(e, http.StatusBadGateway, "Failed to validate token", err)
		}
		if !ok {
			return e.JSON(http.StatusUnauthorized, errorResponse{
				Error:   "Invalid API token. Please check your token and try again.",
				Details: "Token validation failed with System Surveyor API",
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "API token validated successfully",
		})
	}
}

// HandleSurveyorSites lists sites. With ?include=surveys the open surveys of
// every site are fetched concurrently, at most concurrency at a time.
// Route: GET /api/system-surveyor/sites
func HandleSurveyorSites(api SurveyorAPI, concurrency int) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetBearerToken(e.Request)
		if token == "" {
			return ErrorJSON(e, http.StatusUnauthorized, "Authorization token required", nil)
		}

		sites, err := api.GetSites(e.Request.Context(), token)
		if err != nil {
			return ErrorJSON(e, surveyorStatus(err), "Failed to fetch sites", err)
		}

		out := make([]siteWithSurveys, len(sites))
		for i, s := range sites {
			out[i] = siteWithSurveys{SiteSummary: s}
		}

		if e.Request.URL.Query().Get("include") == "surveys" {
			if concurrency < 1 {
				concurrency = 1
			}
			g, ctx := errgroup.WithContext(e.Request.Context())
			g.SetLimit(concurrency)
			for i := range out {
				g.Go(func() error {
					surveys, err := api.GetSurveys(ctx, token, out[i].ID)
					if err != nil {
						return err
					}
					out[i].Surveys = surveys
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return ErrorJSON(e, surveyorStatus(err), "Failed to fetch surveys", err)
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"sites":   out,
			"count":   len(out),
		})
	}
}

// HandleSurveyorSurveys lists the open surveys of one site.
// Route: GET /api/system-surveyor/surveys?siteId=
func HandleSurveyorSurveys(api SurveyorAPI) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetBearerToken(e.Request)
		if token == "" {
			return ErrorJSON(e, http.StatusUnauthorized, "Authorization token required", nil)
		}
		siteID := e.Request.URL.Query().Get("siteId")
		if siteID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "siteId parameter required", nil)
		}

		surveys, err := api.GetSurveys(e.Request.Context(), token, siteID)
		if err != nil {
			return ErrorJSON(e, surveyorStatus(err), "Failed to fetch surveys", err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"surveys": surveys,
			"count":   len(surveys),
		})
	}
}

// HandleSurveyorImport fetches a survey and transforms it.
// Route: POST /api/system-surveyor/import
func HandleSurveyorImport(app *pocketbase.PocketBase, api SurveyorAPI, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := GetBearerToken(e.Request)
		if token == "" {
			return ErrorJSON(e, http.StatusUnauthorized, "Authorization token required", nil)
		}

		var req importRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body", err)
		}
		if err := req.Validate(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "surveyId and site data required", err)
		}

		survey, err := api.GetSurveyDetails(e.Request.Context(), token, req.SurveyID)
		if err != nil {
			return ErrorJSON(e, surveyorStatus(err), "Failed to import survey", err)
		}

		data := services.TransformToAssessmentData(survey, req.Site)
		return respondAssessment(e, app, cfg, data, req.Persist)
	}
}

// HandleSurveyorTransform transforms a survey posted by the client without
// calling System Surveyor.
// Route: POST /api/system-surveyor/transform
func HandleSurveyorTransform(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req transformRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body", err)
		}
		if err := req.Validate(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "survey data required", err)
		}

		data := services.TransformToAssessmentData(*req.Survey, req.Site)
		return respondAssessment(e, app, cfg, data, req.Persist)
	}
}

func respondAssessment(e *core.RequestEvent, app *pocketbase.PocketBase, cfg config.Config, data services.AssessmentData, persist *bool) error {
	resp := assessmentResponse{Success: true, Data: data}

	if shouldPersist(cfg, persist) {
		id, err := services.SaveAssessment(app, data, cfg.LaborRate)
		if err != nil {
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to save import", err)
		}
		resp.ImportID = id
	}

	if len(data.Warnings) > 0 {
		log.Printf("surveyor: %q transformed with %d warning(s)", data.ProjectName, len(data.Warnings))
	}
	return e.JSON(http.StatusOK, resp)
}

func shouldPersist(cfg config.Config, persist *bool) bool {
	if persist != nil {
		return *persist
	}
	return cfg.PersistImports
}
