// Package surveyor is a client for the System Surveyor REST API.
package surveyor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"surveyimport/config"
	"surveyimport/services"
)

const pageSize = "100"

var (
	// ErrMissingToken is returned before any request is made when the bearer
	// token is empty.
	ErrMissingToken = errors.New("system surveyor token is required")
	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("system surveyor rejected the token")
)

// APIError is a non-retryable, non-2xx response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("system surveyor %s: status=%d body=%s", e.Endpoint, e.StatusCode, e.Body)
}

// SiteSummary is a site as listed by the API.
type SiteSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
	SurveyCount int    `json:"survey_count"`
	ModifiedAt  int64  `json:"modified_at"`
	TeamID      int64  `json:"team_id"`
}

// Site converts the summary into the transform's site input.
func (s SiteSummary) Site() services.Site {
	return services.Site{ID: s.ID, Name: s.Name, City: s.City, State: s.State, ZipCode: s.ZipCode}
}

// SurveySummary is a survey as listed under a site.
type SurveySummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Label        string `json:"label,omitempty"`
	Site         string `json:"site"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"created_at"`
	ModifiedAt   int64  `json:"modified_at"`
	PreviewImage string `json:"preview_image,omitempty"`
}

type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	maxRetries := cfg.SurveyorMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.SurveyorAPIBaseURL, "/") + "/",
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: time.Duration(cfg.SurveyorTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.SurveyorRateRPS),
	}
}

// ValidateToken reports whether the API accepts token. A rejected token is
// (false, nil); transport failures are returned as errors.
func (c *Client) ValidateToken(ctx context.Context, token string) (bool, error) {
	_, err := c.fetchJSON(ctx, token, "user", nil)
	if errors.Is(err, ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetSites lists the sites visible to the token's user.
func (c *Client) GetSites(ctx context.Context, token string) ([]SiteSummary, error) {
	body, err := c.fetchJSON(ctx, token, "sites", map[string]string{"page[size]": pageSize})
	if err != nil {
		return nil, err
	}

	sites := make([]SiteSummary, 0)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &sites); err != nil {
			return nil, fmt.Errorf("decode sites: %w", err)
		}
		return sites, nil
	}

	var wrapped struct {
		Sites []SiteSummary `json:"sites"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode sites: %w", err)
	}
	if wrapped.Sites != nil {
		sites = wrapped.Sites
	}
	return sites, nil
}

// GetSurveys lists the open surveys of a site.
func (c *Client) GetSurveys(ctx context.Context, token, siteID string) ([]SurveySummary, error) {
	if strings.TrimSpace(siteID) == "" {
		return nil, errors.New("site id is required")
	}

	endpoint := "sites/" + url.PathEscape(siteID) + "/surveys"
	body, err := c.fetchJSON(ctx, token, endpoint, map[string]string{
		"page[size]":     pageSize,
		"filter[status]": "open",
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Surveys []SurveySummary `json:"surveys"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode surveys: %w", err)
	}
	if payload.Surveys == nil {
		return []SurveySummary{}, nil
	}
	return payload.Surveys, nil
}

// GetSurveyDetails fetches one survey with its elements and accessories.
func (c *Client) GetSurveyDetails(ctx context.Context, token, surveyID string) (services.Survey, error) {
	if strings.TrimSpace(surveyID) == "" {
		return services.Survey{}, errors.New("survey id is required")
	}

	body, err := c.fetchJSON(ctx, token, "surveys/"+url.PathEscape(surveyID), nil)
	if err != nil {
		return services.Survey{}, err
	}

	var survey services.Survey
	if err := json.Unmarshal(body, &survey); err != nil {
		return services.Survey{}, fmt.Errorf("decode survey %s: %w", surveyID, err)
	}
	return survey, nil
}

func (c *Client) fetchJSON(ctx context.Context, token, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, ErrUnauthorized
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < c.maxRetries {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				if err := sleepCtx(ctx, backoff); err != nil {
					return nil, err
				}
				lastErr = fmt.Errorf("system surveyor status %d", resp.StatusCode)
				continue
			}
			return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
		}

		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("system surveyor request failed")
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
