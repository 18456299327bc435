// Package alerts provides HTTP handlers for alert resources.
package alerts

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridwatch/gridwatch/internal/models"
	"github.com/gridwatch/gridwatch/internal/storage"
)

// Response helpers (local to avoid import cycle with api package)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeBadRequest    = "BAD_REQUEST"
	errCodeNotFound      = "NOT_FOUND"
	errCodeInternalError = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}}); err != nil {
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

// TransformerSummary is the slim transformer view embedded in alert
// listings; the dashboard shows it next to each alert.
type TransformerSummary struct {
	ID            int64   `json:"id"`
	TransformerID *string `json:"transformer_id,omitempty"`
	Location      *string `json:"location,omitempty"`
}

// AlertResponse is an alert enriched with its transformer summary.
type AlertResponse struct {
	*models.Alert
	Transformer *TransformerSummary `json:"transformer,omitempty"`
}

// Handler handles alert endpoints.
type Handler struct {
	storage storage.Storage
}

// NewHandler creates a new alert handler.
func NewHandler(store storage.Storage) *Handler {
	return &Handler{storage: store}
}

// List returns all alerts, newest first, enriched with transformer summaries.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alerts, err := h.storage.Alerts().List(ctx)
	if err != nil {
		log.Printf("list alerts error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	transformers, err := h.storage.Transformers().List(ctx)
	if err != nil {
		log.Printf("list alerts error: list transformers: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	summaries := make(map[int64]*TransformerSummary, len(transformers))
	for _, t := range transformers {
		summaries[t.ID] = &TransformerSummary{
			ID:            t.ID,
			TransformerID: t.TransformerID,
			Location:      t.Location,
		}
	}

	resp := make([]*AlertResponse, len(alerts))
	for i, a := range alerts {
		resp[i] = &AlertResponse{
			Alert:       a,
			Transformer: summaries[a.TransformerID],
		}
	}
	jsonOK(w, resp)
}

// Resolve marks an alert as resolved and stamps the resolution time.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid alert id")
		return
	}

	alert, err := h.storage.Alerts().Resolve(r.Context(), id, time.Now())
	if err != nil {
		log.Printf("resolve alert error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if alert == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
		return
	}

	log.Printf("alert resolved: %d (%s)", alert.ID, alert.Type)
	jsonOK(w, alert)
}
