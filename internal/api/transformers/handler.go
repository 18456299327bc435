// Package transformers provides HTTP handlers for transformer resources.
package transformers

import (
	"encoding/json"
	"errors"
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
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeConflict         = "CONFLICT"
	errCodeInternalError    = "INTERNAL_ERROR"
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

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(dataResponse{Data: data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// Handler handles transformer endpoints.
type Handler struct {
	storage storage.Storage
}

// NewHandler creates a new transformer handler.
func NewHandler(store storage.Storage) *Handler {
	return &Handler{storage: store}
}

// CreateRequest is the request body for manual transformer creation.
// Records normally arrive through sync; this endpoint backs the dashboard's
// manual-entry form.
type CreateRequest struct {
	ObjectID      int64    `json:"object_id"`
	GlobalID      *string  `json:"global_id"`
	TransformerID *string  `json:"transformer_id"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Location      *string  `json:"location"`
	Address       *string  `json:"address"`
	Type          *string  `json:"type"`
	Capacity      *string  `json:"capacity"`
	Manufacturer  *string  `json:"manufacturer"`

	PhysicalCondition         *string `json:"physical_condition"`
	OilLeakage                bool    `json:"oil_leakage"`
	RustCorrosion             bool    `json:"rust_corrosion"`
	ExternalDamage            bool    `json:"external_damage"`
	OverheatingSigns          bool    `json:"overheating_signs"`
	BushingsCondition         *string `json:"bushings_condition"`
	InsulatorsCondition       *string `json:"insulators_condition"`
	CoolingFinsPresent        bool    `json:"cooling_fins_present"`
	CoolingFinsState          *string `json:"cooling_fins_state"`
	SupportStructureType      *string `json:"support_structure_type"`
	SupportStructureCondition *string `json:"support_structure_condition"`
	SafetySignagePresent      bool    `json:"safety_signage_present"`
	ClearanceFromBuildings    *string `json:"clearance_from_buildings"`
	AccessibilityIssues       bool    `json:"accessibility_issues"`
	UnauthorizedConnections   bool    `json:"unauthorized_connections"`

	AssessmentDate *time.Time `json:"assessment_date"`
}

// List returns all transformers ordered by id.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	transformers, err := h.storage.Transformers().List(r.Context())
	if err != nil {
		log.Printf("list transformers error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if transformers == nil {
		transformers = []*models.Transformer{}
	}
	jsonOK(w, transformers)
}

// GetByID returns a transformer by internal id.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid transformer id")
		return
	}

	t, err := h.storage.Transformers().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("get transformer error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if t == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "transformer not found")
		return
	}
	jsonOK(w, t)
}

// Create creates a transformer from the request body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := ValidateCreate(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	now := time.Now()
	t := &models.Transformer{
		ObjectID:      req.ObjectID,
		GlobalID:      req.GlobalID,
		TransformerID: req.TransformerID,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Location:      req.Location,
		Address:       req.Address,
		Type:          req.Type,
		Capacity:      req.Capacity,
		Manufacturer:  req.Manufacturer,

		PhysicalCondition:         req.PhysicalCondition,
		OilLeakage:                req.OilLeakage,
		RustCorrosion:             req.RustCorrosion,
		ExternalDamage:            req.ExternalDamage,
		OverheatingSigns:          req.OverheatingSigns,
		BushingsCondition:         req.BushingsCondition,
		InsulatorsCondition:       req.InsulatorsCondition,
		CoolingFinsPresent:        req.CoolingFinsPresent,
		CoolingFinsState:          req.CoolingFinsState,
		SupportStructureType:      req.SupportStructureType,
		SupportStructureCondition: req.SupportStructureCondition,
		SafetySignagePresent:      req.SafetySignagePresent,
		ClearanceFromBuildings:    req.ClearanceFromBuildings,
		AccessibilityIssues:       req.AccessibilityIssues,
		UnauthorizedConnections:   req.UnauthorizedConnections,

		AssessmentDate: req.AssessmentDate,
		CreationDate:   &now,
		LastUpdateDate: &now,
	}

	if err := h.storage.Transformers().Create(r.Context(), t); err != nil {
		if errors.Is(err, storage.ErrDuplicateObjectID) {
			jsonError(w, http.StatusConflict, errCodeConflict, "object id already exists")
			return
		}
		log.Printf("create transformer error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("transformer created: object id %d (id %d)", t.ObjectID, t.ID)
	jsonCreated(w, t)
}

// Stats returns aggregate condition statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.storage.Transformers().Stats(r.Context())
	if err != nil {
		log.Printf("transformer stats error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	jsonOK(w, stats)
}
