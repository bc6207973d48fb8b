package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/l4nzaerol/balagbag/internal/admin/rbac"
)

// RequireCapability aborts the request with 403 Forbidden when the
// authenticated user lacks the required capability.
func RequireCapability(capability rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				forbidden(w)
				return
			}
			if !rbac.HasCapability(user.Roles, capability) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": http.StatusText(http.StatusForbidden),
	})
}
