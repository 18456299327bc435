// Package syncapi exposes the manual sync trigger endpoint.
package syncapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gridwatch/gridwatch/internal/arcgis"
	"github.com/gridwatch/gridwatch/internal/syncer"
)

// Runner runs one sync pass. Satisfied by *syncer.Syncer.
type Runner interface {
	Run(ctx context.Context) (*syncer.Result, error)
}

// Response helpers (local to avoid import cycle with api package)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	errCodeSyncInProgress    = "SYNC_IN_PROGRESS"
	errCodeInternalError     = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message, Details: details}}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dataResponse{Data: data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// Handler handles the sync trigger endpoint.
type Handler struct {
	runner Runner
}

// NewHandler creates a new sync handler.
func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// Trigger runs one synchronization pass and returns its counters. Partial
// per-feature failures surface only as lower counts; total source failure is
// a 502.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, syncer.ErrSyncInProgress):
			jsonError(w, http.StatusConflict, errCodeSyncInProgress, "a sync pass is already running", "")
		case errors.Is(err, arcgis.ErrSourceUnavailable):
			log.Printf("sync trigger error: %v", err)
			jsonError(w, http.StatusBadGateway, errCodeSourceUnavailable, "failed to sync data", err.Error())
		default:
			log.Printf("sync trigger error: %v", err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "failed to sync data", err.Error())
		}
		return
	}

	jsonOK(w, result)
}
