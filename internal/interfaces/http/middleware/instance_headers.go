package middleware

import (
	"net/http"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

const (
	HeaderInstanceID       = "X-Instance-ID"
	HeaderAvailabilityZone = "X-Availability-Zone"
	HeaderRegion           = "X-Region"
)

// InstanceHeaders проставляет identity узла в заголовки каждого ответа.
// Dashboard использует их для идентификации узла, когда доступен только
// plaintext /health endpoint без тела с деталями.
func InstanceHeaders(identity func() entity.InstanceIdentity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := identity()
			w.Header().Set(HeaderInstanceID, id.ID)
			w.Header().Set(HeaderAvailabilityZone, id.AvailabilityZone)
			w.Header().Set(HeaderRegion, id.Region)

			next.ServeHTTP(w, r)
		})
	}
}
