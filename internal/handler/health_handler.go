package handler

import (
	"context"
	"log/slog"
	"net/http"

	"go-task-manager/internal/model"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live always answers; the process being able to serve is enough.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports 503 while the database cannot be reached.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		slog.Warn("readiness check failed", "error", err)
		writeEnvelope(w, http.StatusServiceUnavailable, model.APIResponse{
			Success: false,
			Error:   &model.APIError{Code: "UNAVAILABLE", Message: "Database unavailable"},
		})
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
