package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/middleware"
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

const actorID = "5a7f0c1e-3b2d-4e6f-9a8b-7c6d5e4f3a2b"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func asUser(req *http.Request, role model.Role, scope auth.Scope) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), auth.Identity{UserID: actorID, Role: role})
	ctx = middleware.WithScope(ctx, scope)
	return req.WithContext(ctx)
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apierror.Validation("Please provide all required fields", "title"), http.StatusBadRequest, "BAD_REQUEST"},
		{"conflict stays 400", apierror.Conflict("User already exists with this email", ""), http.StatusBadRequest, "ALREADY_EXISTS"},
		{"not found", apierror.NotFound("Task not found", ""), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", apierror.Forbidden("Access denied"), http.StatusForbidden, "FORBIDDEN"},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestAuthHandler(t *testing.T) {
	t.Run("register returns 201 with tokens", func(t *testing.T) {
		svc := new(mockAuthService)
		req := model.RegisterRequest{Username: "ann", Email: "ann@example.com", Password: "secret123"}
		svc.On("Register", req).Return(model.TokenPair{AccessToken: "a", RefreshToken: "r", User: model.PublicUser{Email: "ann@example.com"}}, nil)
		h := NewAuthHandler(svc)

		rec, body := serve(t, http.HandlerFunc(h.Register), httptest.NewRequest(http.MethodPost, "/api/register",
			strings.NewReader(`{"username":"ann","email":"ann@example.com","password":"secret123"}`)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, body.Success)
		assert.JSONEq(t, `{"token":"a","refreshToken":"r","tokenType":"","expiresIn":0,"user":{"id":"","username":"","email":"ann@example.com","role":""}}`, string(body.Data))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		h := NewAuthHandler(new(mockAuthService))

		rec, body := serve(t, http.HandlerFunc(h.Login), httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON body", body.Error.Message)
	})

	t.Run("empty logout body reaches the service", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Logout", "").Return(apierror.Validation("Refresh token is required", "refreshToken"))
		h := NewAuthHandler(svc)

		rec, body := serve(t, http.HandlerFunc(h.Logout), httptest.NewRequest(http.MethodPost, "/api/logout", http.NoBody))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Refresh token is required", body.Error.Message)
	})

	t.Run("logout success", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Logout", "tok").Return(nil)
		h := NewAuthHandler(svc)

		rec, body := serve(t, http.HandlerFunc(h.Logout), httptest.NewRequest(http.MethodPost, "/api/logout", strings.NewReader(`{"refreshToken":"tok"}`)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Logged out successfully", body.Message)
	})

	t.Run("refresh maps unauthenticated", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Refresh", "stale").Return(model.AccessToken{}, apierror.Unauthenticated("Invalid refresh token"))
		h := NewAuthHandler(svc)

		rec, _ := serve(t, http.HandlerFunc(h.Refresh), httptest.NewRequest(http.MethodPost, "/api/refresh-token", strings.NewReader(`{"refreshToken":"stale"}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandler(t *testing.T) {
	t.Run("profile update uses the caller", func(t *testing.T) {
		svc := new(mockUserService)
		req := model.UpdateProfileRequest{Username: "ann", Email: "ann@example.com"}
		svc.On("UpdateProfile", actorID, req).Return(model.PublicUser{ID: actorID, Username: "ann"}, nil)
		h := NewUserHandler(svc)

		httpReq := asUser(httptest.NewRequest(http.MethodPut, "/api/update-profile", strings.NewReader(`{"username":"ann","email":"ann@example.com"}`)), model.RoleUser, auth.ScopeSelf)
		rec, body := serve(t, http.HandlerFunc(h.UpdateProfile), httpReq)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(body.Data), `"user":`)
		svc.AssertExpectations(t)
	})

	t.Run("profile update without identity", func(t *testing.T) {
		h := NewUserHandler(new(mockUserService))
		rec, _ := serve(t, http.HandlerFunc(h.UpdateProfile), httptest.NewRequest(http.MethodPut, "/api/update-profile", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("username by path id", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("GetUsername", actorID).Return("ann", nil)
		r := chi.NewRouter()
		r.Get("/api/user-name/{id}", NewUserHandler(svc).Username)

		rec, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/user-name/"+actorID, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"username":"ann"}`, string(body.Data))
	})

	t.Run("delete passes actor and target", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Delete", actorID, "target-id").Return(nil)
		r := chi.NewRouter()
		r.Delete("/api/users/{id}", NewUserHandler(svc).Delete)

		rec, _ := serve(t, r, asUser(httptest.NewRequest(http.MethodDelete, "/api/users/target-id", nil), model.RoleAdmin, auth.ScopeAll))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestTaskHandler(t *testing.T) {
	t.Run("list parses filters and passes scope", func(t *testing.T) {
		svc := new(mockTaskService)
		svc.On("List", auth.Identity{UserID: actorID, Role: model.RoleUser}, auth.ScopeOwn, mock.MatchedBy(func(f model.TaskFilter) bool {
			return f.Status != nil && *f.Status == model.StatusReview &&
				f.Deleted != nil && !*f.Deleted &&
				f.SortBy == "dueDate" && f.Desc
		})).Return(nil, nil)
		h := NewTaskHandler(svc)

		req := asUser(httptest.NewRequest(http.MethodGet, "/api/tasks?status=review&deleted=false&sortBy=dueDate&order=desc", nil), model.RoleUser, auth.ScopeOwn)
		rec, body := serve(t, http.HandlerFunc(h.List), req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"tasks":[]}`, string(body.Data))
		svc.AssertExpectations(t)
	})

	t.Run("list rejects bad order", func(t *testing.T) {
		h := NewTaskHandler(new(mockTaskService))
		req := asUser(httptest.NewRequest(http.MethodGet, "/api/tasks?order=sideways", nil), model.RoleAdmin, auth.ScopeAll)
		rec, _ := serve(t, http.HandlerFunc(h.List), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list rejects bad deleted flag", func(t *testing.T) {
		h := NewTaskHandler(new(mockTaskService))
		req := asUser(httptest.NewRequest(http.MethodGet, "/api/tasks?deleted=maybe", nil), model.RoleAdmin, auth.ScopeAll)
		rec, _ := serve(t, http.HandlerFunc(h.List), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create returns 201", func(t *testing.T) {
		svc := new(mockTaskService)
		svc.On("Create", actorID, mock.MatchedBy(func(r model.CreateTaskRequest) bool { return r.Title == "Ship" })).
			Return(model.Task{ID: "t1", Title: "Ship", CreatedBy: actorID}, nil)
		h := NewTaskHandler(svc)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"Ship"}`)), model.RoleUser, auth.ScopeAll)
		rec, body := serve(t, http.HandlerFunc(h.Create), req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, string(body.Data), `"title":"Ship"`)
	})

	t.Run("update keeps explicit nulls", func(t *testing.T) {
		svc := new(mockTaskService)
		svc.On("Update", actorID, "t1", mock.MatchedBy(func(r model.UpdateTaskRequest) bool {
			return r.AssignedTo.Present && r.AssignedTo.Value == nil && !r.DueDate.Present
		})).Return(model.Task{ID: "t1"}, nil)
		r := chi.NewRouter()
		r.Put("/api/tasks/{id}", NewTaskHandler(svc).Update)

		req := asUser(httptest.NewRequest(http.MethodPut, "/api/tasks/t1", strings.NewReader(`{"assignedTo":null}`)), model.RoleUser, auth.ScopeAll)
		rec, _ := serve(t, r, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("delete missing task", func(t *testing.T) {
		svc := new(mockTaskService)
		svc.On("Delete", actorID, "t1").Return(model.Task{}, apierror.NotFound("Task not found", "t1"))
		r := chi.NewRouter()
		r.Delete("/api/tasks/{id}", NewTaskHandler(svc).Delete)

		rec, body := serve(t, r, asUser(httptest.NewRequest(http.MethodDelete, "/api/tasks/t1", nil), model.RoleManager, auth.ScopeAll))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", body.Error.Message)
	})
}

func TestDocsHandler_FallsBackToEmbedded(t *testing.T) {
	h := NewDocsHandler("/nonexistent/openapi.yaml", []byte("openapi: 3.0.3\n"))

	rec := httptest.NewRecorder()
	h.OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "openapi: 3.0.3\n", rec.Body.String())
}
