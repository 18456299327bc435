package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gridwatch/gridwatch/internal/models"
)

const alertColumns = `id, transformer_id, type, severity, message, resolved, created_at, resolved_at`

type sqliteAlertRepo struct {
	db *sql.DB
}

func (r *sqliteAlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (transformer_id, type, severity, message, resolved, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		alert.TransformerID, alert.Type, alert.Severity, alert.Message,
		boolToInt(alert.Resolved), alert.CreatedAt, nullTimePtr(alert.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	alert.ID = id
	return nil
}

func (r *sqliteAlertRepo) GetByID(ctx context.Context, id int64) (*models.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE id = ?", alertColumns)
	return scanAlert(r.db.QueryRowContext(ctx, query, id))
}

func (r *sqliteAlertRepo) List(ctx context.Context) ([]*models.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts ORDER BY created_at DESC, id DESC", alertColumns)
	return r.queryAlerts(ctx, query)
}

func (r *sqliteAlertRepo) ListByTransformer(ctx context.Context, transformerID int64) ([]*models.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE transformer_id = ? ORDER BY created_at DESC, id DESC", alertColumns)
	return r.queryAlerts(ctx, query, transformerID)
}

func (r *sqliteAlertRepo) Resolve(ctx context.Context, id int64, at time.Time) (*models.Alert, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE alerts SET resolved = 1, resolved_at = ? WHERE id = ?",
		at, id,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteAlertRepo) queryAlerts(ctx context.Context, query string, args ...any) ([]*models.Alert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func scanAlert(row scanner) (*models.Alert, error) {
	alert := &models.Alert{}
	var resolved int
	var resolvedAt sql.NullTime

	err := row.Scan(
		&alert.ID, &alert.TransformerID, &alert.Type, &alert.Severity,
		&alert.Message, &resolved, &alert.CreatedAt, &resolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}

	alert.Resolved = resolved != 0
	alert.ResolvedAt = timePtr(resolvedAt)
	return alert, nil
}
