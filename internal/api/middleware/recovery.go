package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/gridbattle/internal/api/apierr"
	"github.com/mcoot/gridbattle/internal/middleware"
)

// Recovery creates panic recovery middleware for the JSON API.
// A panicking handler yields a 500 with the standard error body.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
