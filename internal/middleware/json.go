package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"taste-tribe/internal/model"
	"taste-tribe/pkg/apierror"
)

func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}

func writeAPIError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*apierror.APIError)
	if !ok {
		slog.Error("middleware failed", "error", err)
		apiErr = apierror.New(apierror.CodeInternal, "Unexpected server error", "", http.StatusInternalServerError)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatus)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}
