package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, model.APIResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, model.APIResponse{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, auth.ErrExpiredToken):
		apiErr = apierror.Unauthenticated("Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		apiErr = apierror.Unauthenticated("Invalid token")
	default:
		apiErr = apierror.Internal(err)
	}

	if apiErr.Kind == apierror.KindInternal {
		slog.Error("request failed", "error", err)
		// internal causes never reach the client
		apiErr = apierror.Internal(nil)
	}

	writeEnvelope(w, apiErr.HTTPStatus(), model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst zeroed so
// field validation can report what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierror.Validation("Request body too large", "")
	}
	return apierror.Validation("Invalid JSON body", "").Wrap(err)
}
