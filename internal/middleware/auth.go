package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

type accessVerifier interface {
	VerifyAccess(tokenString string) (auth.Identity, error)
}

type authorizer interface {
	Authorize(id auth.Identity, action auth.Action) (auth.Scope, error)
}

// userLookup is the credential store as the auth gate sees it.
type userLookup interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const (
	identityContextKey contextKey = "auth_identity"
	scopeContextKey    contextKey = "auth_scope"
)

type AuthMiddleware struct {
	verifier accessVerifier
	users    userLookup
	policy   authorizer
}

func NewAuthMiddleware(verifier accessVerifier, users userLookup, policy authorizer) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users, policy: policy}
}

// RequireAuth accepts only requests carrying a valid access token in the
// Authorization header whose user still exists. The identity handed on
// carries the stored role, so role changes and deletions apply at once.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// RequireAuthOrQuery also accepts the token as a "token" query parameter,
// for clients such as browsers opening a websocket that cannot set headers.
func (m *AuthMiddleware) RequireAuthOrQuery(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok && allowQuery {
			token = strings.TrimSpace(r.URL.Query().Get("token"))
			ok = token != ""
		}
		if !ok {
			writeAPIError(w, apierror.Unauthenticated("Authentication required"))
			return
		}

		id, err := m.verifier.VerifyAccess(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token expired"
			}
			writeAPIError(w, apierror.Unauthenticated(msg))
			return
		}

		user, err := m.users.FindByID(r.Context(), id.UserID)
		if apierror.Is(err, apierror.KindNotFound) {
			writeAPIError(w, apierror.Unauthenticated("User no longer exists"))
			return
		}
		if err != nil {
			slog.Error("loading authenticated user", "user_id", id.UserID, "error", err)
			writeAPIError(w, apierror.Internal(err))
			return
		}
		id.Role = user.Role

		ctx := context.WithValue(r.Context(), identityContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require evaluates the policy for action against the authenticated caller
// and stores the granted scope for the handler.
func (m *AuthMiddleware) Require(action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAPIError(w, apierror.Unauthenticated("Authentication required"))
				return
			}

			scope, err := m.policy.Authorize(id, action)
			if err != nil {
				var apiErr *apierror.APIError
				if !errors.As(err, &apiErr) {
					apiErr = apierror.Forbidden("Access denied")
				}
				writeAPIError(w, apiErr)
				return
			}

			ctx := context.WithValue(r.Context(), scopeContextKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(auth.Identity)
	return id, ok
}

func ScopeFromContext(ctx context.Context) (auth.Scope, bool) {
	scope, ok := ctx.Value(scopeContextKey).(auth.Scope)
	return scope, ok
}

// WithIdentity returns ctx carrying id, as RequireAuth would.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// WithScope returns ctx carrying scope, as Require would.
func WithScope(ctx context.Context, scope auth.Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey, scope)
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
