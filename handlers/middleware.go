package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const BearerTokenKey contextKey = "surveyorToken"

// GetBearerToken extracts the System Surveyor token from the request context.
func GetBearerToken(r *http.Request) string {
	if val, ok := r.Context().Value(BearerTokenKey).(string); ok {
		return val
	}
	return ""
}

// BearerTokenMiddleware reads "Authorization: Bearer <token>" and stores the
// token in the request context. Requests without one pass through; the
// handlers that call System Surveyor reject them.
func BearerTokenMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := parseBearer(e.Request.Header.Get("Authorization"))
		if token != "" {
			ctx := context.WithValue(e.Request.Context(), BearerTokenKey, token)
			e.Request = e.Request.WithContext(ctx)
		}
		return e.Next()
	}
}

func parseBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
