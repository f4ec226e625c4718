// internal/api/identity.go
package api

import (
	"context"
	"net/http"
)

// Identity is the caller as asserted by the upstream auth collaborator. The
// gateway terminates authentication and forwards the verified claims in
// headers; this service never sees credentials.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// IsAdmin reports whether the caller carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

type contextKey string

const identityKey contextKey = "identity"

func identityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// withIdentity extracts the gateway identity headers and rejects anonymous
// requests.
func (s *Server) withIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID: r.Header.Get("X-User-Id"),
			Name:   r.Header.Get("X-User-Name"),
			Email:  r.Header.Get("X-User-Email"),
			Role:   r.Header.Get("X-User-Role"),
		}
		if id.UserID == "" {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	}
}

// requireAdmin gates admin-only routes.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !identityFrom(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "Access denied")
			return
		}
		next(w, r)
	}
}
