package handler

import (
	"net/http"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/middleware"
	"go-task-manager/pkg/apierror"
)

// identity returns the caller attached by the auth middleware, writing a 401
// when the route was mounted without it.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Authentication required"))
	}
	return id, ok
}
