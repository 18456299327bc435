package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gridwatch/gridwatch/internal/models"
)

// MemoryStorage is an in-memory Storage implementation. It backs tests and
// lets the sync pipeline run without a live database; it honors the same
// contract as the SQLite implementation, including object id uniqueness.
type MemoryStorage struct {
	mu sync.RWMutex

	transformers map[int64]*models.Transformer
	alerts       map[int64]*models.Alert
	users        map[string]*models.User

	nextTransformerID int64
	nextAlertID       int64
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		transformers:      make(map[int64]*models.Transformer),
		alerts:            make(map[int64]*models.Alert),
		users:             make(map[string]*models.User),
		nextTransformerID: 1,
		nextAlertID:       1,
	}
}

// Open is a no-op for in-memory storage.
func (s *MemoryStorage) Open() error { return nil }

// Close is a no-op for in-memory storage.
func (s *MemoryStorage) Close() error { return nil }

// Migrate is a no-op for in-memory storage.
func (s *MemoryStorage) Migrate() error { return nil }

// EnsureAdminUser is a no-op for in-memory storage.
func (s *MemoryStorage) EnsureAdminUser() error { return nil }

// Transformers returns the transformer repository.
func (s *MemoryStorage) Transformers() TransformerRepository {
	return (*memoryTransformerRepo)(s)
}

// Alerts returns the alert repository.
func (s *MemoryStorage) Alerts() AlertRepository {
	return (*memoryAlertRepo)(s)
}

// Users returns the user repository.
func (s *MemoryStorage) Users() UserRepository {
	return (*memoryUserRepo)(s)
}

type memoryTransformerRepo MemoryStorage

func (r *memoryTransformerRepo) Create(ctx context.Context, t *models.Transformer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.transformers {
		if existing.ObjectID == t.ObjectID {
			return fmt.Errorf("object id %d: %w", t.ObjectID, ErrDuplicateObjectID)
		}
	}

	t.ID = r.nextTransformerID
	r.nextTransformerID++

	stored := *t
	r.transformers[t.ID] = &stored
	return nil
}

func (r *memoryTransformerRepo) GetByID(ctx context.Context, id int64) (*models.Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transformers[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *memoryTransformerRepo) GetByObjectID(ctx context.Context, objectID int64) (*models.Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.transformers {
		if t.ObjectID == objectID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryTransformerRepo) Update(ctx context.Context, id int64, t *models.Transformer) (*models.Transformer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transformers[id]; !ok {
		return nil, nil
	}

	stored := *t
	stored.ID = id
	r.transformers[id] = &stored

	copied := stored
	return &copied, nil
}

func (r *memoryTransformerRepo) List(ctx context.Context) ([]*models.Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transformers := make([]*models.Transformer, 0, len(r.transformers))
	for _, t := range r.transformers {
		copied := *t
		transformers = append(transformers, &copied)
	}
	sort.Slice(transformers, func(i, j int) bool { return transformers[i].ID < transformers[j].ID })
	return transformers, nil
}

func (r *memoryTransformerRepo) Stats(ctx context.Context) (*models.ConditionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.ConditionStats{}
	for _, t := range r.transformers {
		stats.Add(t.PhysicalCondition)
	}
	return stats, nil
}

type memoryAlertRepo MemoryStorage

func (r *memoryAlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert.ID = r.nextAlertID
	r.nextAlertID++

	stored := *alert
	r.alerts[alert.ID] = &stored
	return nil
}

func (r *memoryAlertRepo) GetByID(ctx context.Context, id int64) (*models.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, nil
	}
	copied := *alert
	return &copied, nil
}

func (r *memoryAlertRepo) List(ctx context.Context) ([]*models.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alerts := make([]*models.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		copied := *a
		alerts = append(alerts, &copied)
	}
	sort.Slice(alerts, func(i, j int) bool {
		if !alerts[i].CreatedAt.Equal(alerts[j].CreatedAt) {
			return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
		}
		return alerts[i].ID > alerts[j].ID
	})
	return alerts, nil
}

func (r *memoryAlertRepo) ListByTransformer(ctx context.Context, transformerID int64) ([]*models.Alert, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var alerts []*models.Alert
	for _, a := range all {
		if a.TransformerID == transformerID {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

func (r *memoryAlertRepo) Resolve(ctx context.Context, id int64, at time.Time) (*models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, nil
	}
	alert.Resolved = true
	alert.ResolvedAt = &at

	copied := *alert
	return &copied, nil
}

type memoryUserRepo MemoryStorage

func (r *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return fmt.Errorf("username %q already exists", user.Username)
	}
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}
