package middleware

import (
	"encoding/json"
	"net/http"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// writeAPIError renders err in the response envelope. Middleware only ever
// produces classified errors, so unknown errors collapse to 500.
func writeAPIError(w http.ResponseWriter, err *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    err.Code,
			Message: err.Message,
			Details: err.Details,
		},
	})
}
