package handler

import (
	"context"
	"net/http"
	"time"

	"taste-tribe/pkg/apierror"
)

const healthCheckTimeout = 2 * time.Second

type healthChecker interface {
	Health(ctx context.Context) error
}

type SystemHandler struct {
	db healthChecker
}

func NewSystemHandler(db healthChecker) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Welcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Welcome to the Taste Tribe API"))
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		writeError(w, r, apierror.New(apierror.CodeInternal, "database unavailable", err.Error(), http.StatusServiceUnavailable))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"}, nil)
}
