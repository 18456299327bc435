// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gridwatch/gridwatch/internal/models"
)

// ErrDuplicateObjectID is returned when a create would violate the external
// object id uniqueness constraint.
var ErrDuplicateObjectID = errors.New("duplicate object id")

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error
	// EnsureAdminUser creates a default admin if no users exist.
	EnsureAdminUser() error

	// Repository accessors
	Transformers() TransformerRepository
	Alerts() AlertRepository
	Users() UserRepository
}

// TransformerRepository defines operations for transformer records.
// Transformers are created on first sync observation of an external object
// id, updated in place on every later observation and never deleted.
type TransformerRepository interface {
	Create(ctx context.Context, t *models.Transformer) error
	GetByID(ctx context.Context, id int64) (*models.Transformer, error)
	GetByObjectID(ctx context.Context, objectID int64) (*models.Transformer, error)
	// Update replaces the externally sourced fields of the record with the
	// given id. Returns the stored form, or nil when the id is unknown.
	Update(ctx context.Context, id int64, t *models.Transformer) (*models.Transformer, error)
	List(ctx context.Context) ([]*models.Transformer, error)
	Stats(ctx context.Context) (*models.ConditionStats, error)
}

// AlertRepository defines operations for derived health alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id int64) (*models.Alert, error)
	List(ctx context.Context) ([]*models.Alert, error)
	ListByTransformer(ctx context.Context, transformerID int64) ([]*models.Alert, error)
	// Resolve marks the alert resolved at the given time. Returns the
	// updated alert, or nil when the id is unknown.
	Resolve(ctx context.Context, id int64, at time.Time) (*models.Alert, error)
}

// UserRepository defines operations for API accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}
