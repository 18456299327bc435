package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridwatch/gridwatch/internal/models"
	"github.com/gridwatch/gridwatch/internal/storage"
)

func strPtr(s string) *string { return &s }

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func seedAlert(t *testing.T, store storage.Storage, transformerID int64, alertType models.AlertType) *models.Alert {
	t.Helper()
	a := &models.Alert{
		TransformerID: transformerID,
		Type:          alertType,
		Severity:      models.SeverityCritical,
		Message:       "test alert",
		CreatedAt:     time.Now(),
	}
	if err := store.Alerts().Create(context.Background(), a); err != nil {
		t.Fatalf("seed alert: %v", err)
	}
	return a
}

func TestList_EnrichesWithTransformerSummary(t *testing.T) {
	store := storage.NewMemoryStorage()
	tr := &models.Transformer{ObjectID: 1, TransformerID: strPtr("TX-001"), Location: strPtr("North")}
	if err := store.Transformers().Create(context.Background(), tr); err != nil {
		t.Fatalf("create transformer: %v", err)
	}
	seedAlert(t, store, tr.ID, models.AlertOilLeakage)

	handler := NewHandler(store)
	req := httptest.NewRequest("GET", "/api/v1/alerts", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Data []*AlertResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("alerts = %d, want 1", len(resp.Data))
	}

	got := resp.Data[0]
	if got.Type != models.AlertOilLeakage {
		t.Errorf("type = %s, want oil_leakage", got.Type)
	}
	if got.Transformer == nil {
		t.Fatal("alert should carry its transformer summary")
	}
	if got.Transformer.TransformerID == nil || *got.Transformer.TransformerID != "TX-001" {
		t.Errorf("summary transformer id = %v, want TX-001", got.Transformer.TransformerID)
	}
	if got.Transformer.Location == nil || *got.Transformer.Location != "North" {
		t.Errorf("summary location = %v, want North", got.Transformer.Location)
	}
}

func TestList_NewestFirst(t *testing.T) {
	store := storage.NewMemoryStorage()
	tr := &models.Transformer{ObjectID: 1}
	if err := store.Transformers().Create(context.Background(), tr); err != nil {
		t.Fatalf("create transformer: %v", err)
	}

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		a := &models.Alert{
			TransformerID: tr.ID,
			Type:          models.AlertOverheating,
			Severity:      models.SeverityCritical,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Alerts().Create(context.Background(), a); err != nil {
			t.Fatalf("create alert: %v", err)
		}
	}

	handler := NewHandler(store)
	req := httptest.NewRequest("GET", "/api/v1/alerts", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	var resp struct {
		Data []*AlertResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for i := 1; i < len(resp.Data); i++ {
		if resp.Data[i-1].CreatedAt.Before(resp.Data[i].CreatedAt) {
			t.Error("alerts not sorted newest first")
		}
	}
}

func TestResolve_Success(t *testing.T) {
	store := storage.NewMemoryStorage()
	tr := &models.Transformer{ObjectID: 1}
	if err := store.Transformers().Create(context.Background(), tr); err != nil {
		t.Fatalf("create transformer: %v", err)
	}
	alert := seedAlert(t, store, tr.ID, models.AlertOilLeakage)

	handler := NewHandler(store)
	req := httptest.NewRequest("PATCH", "/api/v1/alerts/1/resolve", nil)
	req = withURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data *models.Alert `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data.Resolved {
		t.Error("alert should be resolved")
	}
	if resp.Data.ResolvedAt == nil {
		t.Error("resolved alert should carry a resolution time")
	}

	stored, err := store.Alerts().GetByID(context.Background(), alert.ID)
	if err != nil || stored == nil {
		t.Fatalf("get alert: %v %v", stored, err)
	}
	if !stored.Resolved {
		t.Error("resolution should persist")
	}
}

func TestResolve_NotFound(t *testing.T) {
	handler := NewHandler(storage.NewMemoryStorage())
	req := httptest.NewRequest("PATCH", "/api/v1/alerts/999/resolve", nil)
	req = withURLParam(req, "id", "999")
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestResolve_InvalidID(t *testing.T) {
	handler := NewHandler(storage.NewMemoryStorage())
	req := httptest.NewRequest("PATCH", "/api/v1/alerts/abc/resolve", nil)
	req = withURLParam(req, "id", "abc")
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
