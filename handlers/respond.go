package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"surveyimport/surveyor"
)

// errorResponse is the JSON body of every failed API request.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorJSON writes {error, details}. err, when non-nil, becomes the details
// and is logged for 5xx statuses.
func ErrorJSON(e *core.RequestEvent, statusCode int, message string, err error) error {
	body := errorResponse{Error: message}
	if err != nil {
		body.Details = err.Error()
		if statusCode >= http.StatusInternalServerError {
			log.Printf("%s %s: %s: %v", e.Request.Method, e.Request.URL.Path, message, err)
		}
	}
	return e.JSON(statusCode, body)
}

// surveyorStatus maps System Surveyor client errors to the status returned
// to our caller.
func surveyorStatus(err error) int {
	var apiErr *surveyor.APIError
	switch {
	case errors.Is(err, surveyor.ErrMissingToken), errors.Is(err, surveyor.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
