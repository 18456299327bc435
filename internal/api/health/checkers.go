package health

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteChecker checks SQLite database connectivity.
type SQLiteChecker struct {
	db *sql.DB
}

// NewSQLiteChecker creates a new SQLite health checker.
func NewSQLiteChecker(db *sql.DB) *SQLiteChecker {
	return &SQLiteChecker{db: db}
}

// Name returns the checker name.
func (c *SQLiteChecker) Name() string {
	return "sqlite"
}

// Check verifies the SQLite database is accessible.
func (c *SQLiteChecker) Check(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.PingContext(ctx)
}

// Pinger is satisfied by clients that can probe their remote endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FeatureSourceChecker checks the external feature service reachability.
type FeatureSourceChecker struct {
	pinger Pinger
}

// NewFeatureSourceChecker creates a new feature source health checker.
func NewFeatureSourceChecker(p Pinger) *FeatureSourceChecker {
	return &FeatureSourceChecker{pinger: p}
}

// Name returns the checker name.
func (c *FeatureSourceChecker) Name() string {
	return "feature_source"
}

// Check verifies the feature service answers a count-only query.
func (c *FeatureSourceChecker) Check(ctx context.Context) error {
	if c.pinger == nil {
		return fmt.Errorf("feature source not configured")
	}
	return c.pinger.Ping(ctx)
}
