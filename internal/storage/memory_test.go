package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridwatch/gridwatch/internal/models"
)

func strPtr(s string) *string { return &s }

func TestTransformerCreate_AssignsID(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	tr := &models.Transformer{ObjectID: 10}
	if err := store.Transformers().Create(ctx, tr); err != nil {
		t.Fatalf("create: %v", err)
	}
	if tr.ID == 0 {
		t.Error("create should assign an id")
	}

	got, err := store.Transformers().GetByID(ctx, tr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ObjectID != 10 {
		t.Errorf("got = %+v, want object id 10", got)
	}
}

func TestTransformerCreate_DuplicateObjectID(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	if err := store.Transformers().Create(ctx, &models.Transformer{ObjectID: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := store.Transformers().Create(ctx, &models.Transformer{ObjectID: 10})
	if !errors.Is(err, ErrDuplicateObjectID) {
		t.Errorf("error = %v, want ErrDuplicateObjectID", err)
	}
}

func TestTransformerGetByObjectID(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	if err := store.Transformers().Create(ctx, &models.Transformer{ObjectID: 77}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Transformers().GetByObjectID(ctx, 77)
	if err != nil {
		t.Fatalf("get by object id: %v", err)
	}
	if got == nil {
		t.Fatal("expected record for object id 77")
	}

	missing, err := store.Transformers().GetByObjectID(ctx, 999)
	if err != nil {
		t.Fatalf("get by object id: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown object id")
	}
}

func TestTransformerUpdate(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	tr := &models.Transformer{ObjectID: 10, Location: strPtr("old")}
	if err := store.Transformers().Create(ctx, tr); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := store.Transformers().Update(ctx, tr.ID, &models.Transformer{
		ObjectID: 10,
		Location: strPtr("new"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated == nil {
		t.Fatal("update returned nil for existing record")
	}
	if updated.ID != tr.ID {
		t.Errorf("id = %d, want %d (update must keep the id)", updated.ID, tr.ID)
	}
	if updated.Location == nil || *updated.Location != "new" {
		t.Errorf("location = %v, want new", updated.Location)
	}
}

func TestTransformerUpdate_NotFound(t *testing.T) {
	store := NewMemoryStorage()

	updated, err := store.Transformers().Update(context.Background(), 999, &models.Transformer{ObjectID: 1})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestTransformerList_SortedByID(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	for _, objectID := range []int64{30, 10, 20} {
		if err := store.Transformers().Create(ctx, &models.Transformer{ObjectID: objectID}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := store.Transformers().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("list not sorted by id: %d before %d", list[i-1].ID, list[i].ID)
		}
	}
}

func TestTransformerStats(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	conditions := []*string{
		strPtr("Good"), strPtr("Good"), strPtr("good"), nil, strPtr("Excellent"), strPtr("Unknown"),
		strPtr("Fair"), strPtr("fair"),
		strPtr("Poor"),
		strPtr("Very Poor"),
	}
	for i, c := range conditions {
		tr := &models.Transformer{ObjectID: int64(i + 1), PhysicalCondition: c}
		if err := store.Transformers().Create(ctx, tr); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	stats, err := store.Transformers().Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	want := models.ConditionStats{Total: 10, Good: 6, Fair: 2, Poor: 1, Critical: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}

func TestAlertCreateAndList_NewestFirst(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	tr := &models.Transformer{ObjectID: 1}
	if err := store.Transformers().Create(ctx, tr); err != nil {
		t.Fatalf("create transformer: %v", err)
	}

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		a := &models.Alert{
			TransformerID: tr.ID,
			Type:          models.AlertOilLeakage,
			Severity:      models.SeverityCritical,
			Message:       "leak",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Alerts().Create(ctx, a); err != nil {
			t.Fatalf("create alert: %v", err)
		}
	}

	alerts, err := store.Alerts().List(ctx)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("alerts = %d, want 3", len(alerts))
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].CreatedAt.Before(alerts[i].CreatedAt) {
			t.Error("alerts not sorted newest first")
		}
	}
}

func TestAlertResolve(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	tr := &models.Transformer{ObjectID: 1}
	if err := store.Transformers().Create(ctx, tr); err != nil {
		t.Fatalf("create transformer: %v", err)
	}

	alert := &models.Alert{
		TransformerID: tr.ID,
		Type:          models.AlertOilLeakage,
		Severity:      models.SeverityCritical,
		Message:       "leak",
		CreatedAt:     time.Now(),
	}
	if err := store.Alerts().Create(ctx, alert); err != nil {
		t.Fatalf("create alert: %v", err)
	}

	at := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	resolved, err := store.Alerts().Resolve(ctx, alert.ID, at)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved == nil {
		t.Fatal("resolve returned nil for existing alert")
	}
	if !resolved.Resolved {
		t.Error("alert should be marked resolved")
	}
	if resolved.ResolvedAt == nil || !resolved.ResolvedAt.Equal(at) {
		t.Errorf("resolved at = %v, want %v", resolved.ResolvedAt, at)
	}
}

func TestAlertResolve_NotFound(t *testing.T) {
	store := NewMemoryStorage()

	resolved, err := store.Alerts().Resolve(context.Background(), 999, time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != nil {
		t.Error("expected nil for unknown alert id")
	}
}

func TestAlertListByTransformer(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	t1 := &models.Transformer{ObjectID: 1}
	t2 := &models.Transformer{ObjectID: 2}
	for _, tr := range []*models.Transformer{t1, t2} {
		if err := store.Transformers().Create(ctx, tr); err != nil {
			t.Fatalf("create transformer: %v", err)
		}
	}

	for _, id := range []int64{t1.ID, t1.ID, t2.ID} {
		a := &models.Alert{TransformerID: id, Type: models.AlertOverheating, Severity: models.SeverityCritical, CreatedAt: time.Now()}
		if err := store.Alerts().Create(ctx, a); err != nil {
			t.Fatalf("create alert: %v", err)
		}
	}

	alerts, err := store.Alerts().ListByTransformer(ctx, t1.ID)
	if err != nil {
		t.Fatalf("list by transformer: %v", err)
	}
	if len(alerts) != 2 {
		t.Errorf("alerts = %d, want 2", len(alerts))
	}
}

func TestUserCreateAndGet(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	user := &models.User{ID: "u1", Username: "admin", PasswordHash: "hash", Role: models.RoleAdmin}
	if err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := store.Users().GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got == nil || got.ID != "u1" {
		t.Errorf("got = %+v, want user u1", got)
	}

	count, err := store.Users().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	missing, err := store.Users().GetByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown username")
	}
}
