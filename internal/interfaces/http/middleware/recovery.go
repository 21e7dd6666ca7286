package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/dreschagin/fleet-status/pkg/logger"
)

// Recovery middleware перехватывает panic в handler'ах и возвращает 500
// вместо обрыва соединения
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Warn("Panic recovered in HTTP handler",
						"panic", rec,
						"path", r.URL.Path,
						"method", r.Method,
						"stack", string(debug.Stack()),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
