package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler is a function that handles panics and writes an error response
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery creates panic recovery middleware with a custom panic handler.
// Requests that were upgraded to a websocket have no response left to write,
// so the panic is only logged for them.
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					upgraded := Upgraded(w)
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("remote_addr", r.RemoteAddr),
						slog.Bool("upgraded", upgraded),
					)

					if !upgraded {
						handler(w, r, err)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Upgraded reports whether w has been hijacked for a protocol switch
func Upgraded(w http.ResponseWriter) bool {
	rw, ok := w.(*ResponseWriter)
	return ok && rw.Status() == http.StatusSwitchingProtocols
}
