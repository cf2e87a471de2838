package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/auctionhouse/internal/api/apierr"
	"github.com/mcoot/auctionhouse/internal/middleware"
)

// Recovery wraps the REST routes. A panicking handler answers with the
// standard JSON error body and code INTERNAL_ERROR.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
