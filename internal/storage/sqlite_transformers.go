package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/gridwatch/gridwatch/internal/models"
)

const transformerColumns = `id, object_id, global_id, transformer_id, latitude, longitude,
	location, address, type, capacity, manufacturer, physical_condition,
	oil_leakage, rust_corrosion, external_damage, overheating_signs,
	bushings_condition, insulators_condition, cooling_fins_present, cooling_fins_state,
	support_structure_type, support_structure_condition, safety_signage_present,
	clearance_from_buildings, accessibility_issues, unauthorized_connections,
	creation_date, last_update_date, assessment_date`

type sqliteTransformerRepo struct {
	db *sql.DB
}

func (r *sqliteTransformerRepo) Create(ctx context.Context, t *models.Transformer) error {
	query := `
		INSERT INTO transformers (object_id, global_id, transformer_id, latitude, longitude,
			location, address, type, capacity, manufacturer, physical_condition,
			oil_leakage, rust_corrosion, external_damage, overheating_signs,
			bushings_condition, insulators_condition, cooling_fins_present, cooling_fins_state,
			support_structure_type, support_structure_condition, safety_signage_present,
			clearance_from_buildings, accessibility_issues, unauthorized_connections,
			creation_date, last_update_date, assessment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, transformerArgs(t)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("object id %d: %w", t.ObjectID, ErrDuplicateObjectID)
		}
		return fmt.Errorf("insert transformer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *sqliteTransformerRepo) GetByID(ctx context.Context, id int64) (*models.Transformer, error) {
	query := fmt.Sprintf("SELECT %s FROM transformers WHERE id = ?", transformerColumns)
	return scanTransformer(r.db.QueryRowContext(ctx, query, id))
}

func (r *sqliteTransformerRepo) GetByObjectID(ctx context.Context, objectID int64) (*models.Transformer, error) {
	query := fmt.Sprintf("SELECT %s FROM transformers WHERE object_id = ?", transformerColumns)
	return scanTransformer(r.db.QueryRowContext(ctx, query, objectID))
}

func (r *sqliteTransformerRepo) Update(ctx context.Context, id int64, t *models.Transformer) (*models.Transformer, error) {
	query := `
		UPDATE transformers SET object_id = ?, global_id = ?, transformer_id = ?,
			latitude = ?, longitude = ?, location = ?, address = ?, type = ?,
			capacity = ?, manufacturer = ?, physical_condition = ?,
			oil_leakage = ?, rust_corrosion = ?, external_damage = ?, overheating_signs = ?,
			bushings_condition = ?, insulators_condition = ?, cooling_fins_present = ?,
			cooling_fins_state = ?, support_structure_type = ?, support_structure_condition = ?,
			safety_signage_present = ?, clearance_from_buildings = ?, accessibility_issues = ?,
			unauthorized_connections = ?, creation_date = ?, last_update_date = ?, assessment_date = ?
		WHERE id = ?
	`
	args := append(transformerArgs(t), id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update transformer: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteTransformerRepo) List(ctx context.Context) ([]*models.Transformer, error) {
	query := fmt.Sprintf("SELECT %s FROM transformers ORDER BY id", transformerColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transformers: %w", err)
	}
	defer rows.Close()

	var transformers []*models.Transformer
	for rows.Next() {
		t, err := scanTransformer(rows)
		if err != nil {
			return nil, err
		}
		transformers = append(transformers, t)
	}
	return transformers, rows.Err()
}

func (r *sqliteTransformerRepo) Stats(ctx context.Context) (*models.ConditionStats, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT physical_condition FROM transformers")
	if err != nil {
		return nil, fmt.Errorf("query conditions: %w", err)
	}
	defer rows.Close()

	stats := &models.ConditionStats{}
	for rows.Next() {
		var condition sql.NullString
		if err := rows.Scan(&condition); err != nil {
			return nil, fmt.Errorf("scan condition: %w", err)
		}
		if condition.Valid {
			stats.Add(&condition.String)
		} else {
			stats.Add(nil)
		}
	}
	return stats, rows.Err()
}

// transformerArgs returns the insert/update bind arguments in column order,
// excluding id.
func transformerArgs(t *models.Transformer) []any {
	return []any{
		t.ObjectID, nullStringPtr(t.GlobalID), nullStringPtr(t.TransformerID),
		nullFloatPtr(t.Latitude), nullFloatPtr(t.Longitude),
		nullStringPtr(t.Location), nullStringPtr(t.Address), nullStringPtr(t.Type),
		nullStringPtr(t.Capacity), nullStringPtr(t.Manufacturer), nullStringPtr(t.PhysicalCondition),
		boolToInt(t.OilLeakage), boolToInt(t.RustCorrosion), boolToInt(t.ExternalDamage),
		boolToInt(t.OverheatingSigns),
		nullStringPtr(t.BushingsCondition), nullStringPtr(t.InsulatorsCondition),
		boolToInt(t.CoolingFinsPresent), nullStringPtr(t.CoolingFinsState),
		nullStringPtr(t.SupportStructureType), nullStringPtr(t.SupportStructureCondition),
		boolToInt(t.SafetySignagePresent), nullStringPtr(t.ClearanceFromBuildings),
		boolToInt(t.AccessibilityIssues), boolToInt(t.UnauthorizedConnections),
		nullTimePtr(t.CreationDate), nullTimePtr(t.LastUpdateDate), nullTimePtr(t.AssessmentDate),
	}
}

func scanTransformer(row scanner) (*models.Transformer, error) {
	t := &models.Transformer{}
	var (
		globalID, transformerID, location, address, typ, capacity  sql.NullString
		manufacturer, physicalCondition, bushings, insulators      sql.NullString
		coolingFinsState, supportType, supportCondition, clearance sql.NullString
		latitude, longitude                                        sql.NullFloat64
		oilLeakage, rust, damage, overheating, coolingFins         int
		signage, accessibility, unauthorized                       int
		creationDate, lastUpdateDate, assessmentDate               sql.NullTime
	)

	err := row.Scan(
		&t.ID, &t.ObjectID, &globalID, &transformerID, &latitude, &longitude,
		&location, &address, &typ, &capacity, &manufacturer, &physicalCondition,
		&oilLeakage, &rust, &damage, &overheating,
		&bushings, &insulators, &coolingFins, &coolingFinsState,
		&supportType, &supportCondition, &signage,
		&clearance, &accessibility, &unauthorized,
		&creationDate, &lastUpdateDate, &assessmentDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transformer: %w", err)
	}

	t.GlobalID = stringPtr(globalID)
	t.TransformerID = stringPtr(transformerID)
	t.Latitude = floatPtr(latitude)
	t.Longitude = floatPtr(longitude)
	t.Location = stringPtr(location)
	t.Address = stringPtr(address)
	t.Type = stringPtr(typ)
	t.Capacity = stringPtr(capacity)
	t.Manufacturer = stringPtr(manufacturer)
	t.PhysicalCondition = stringPtr(physicalCondition)
	t.OilLeakage = oilLeakage != 0
	t.RustCorrosion = rust != 0
	t.ExternalDamage = damage != 0
	t.OverheatingSigns = overheating != 0
	t.BushingsCondition = stringPtr(bushings)
	t.InsulatorsCondition = stringPtr(insulators)
	t.CoolingFinsPresent = coolingFins != 0
	t.CoolingFinsState = stringPtr(coolingFinsState)
	t.SupportStructureType = stringPtr(supportType)
	t.SupportStructureCondition = stringPtr(supportCondition)
	t.SafetySignagePresent = signage != 0
	t.ClearanceFromBuildings = stringPtr(clearance)
	t.AccessibilityIssues = accessibility != 0
	t.UnauthorizedConnections = unauthorized != 0
	t.CreationDate = timePtr(creationDate)
	t.LastUpdateDate = timePtr(lastUpdateDate)
	t.AssessmentDate = timePtr(assessmentDate)

	return t, nil
}

func isUniqueViolation(err error) bool {
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
