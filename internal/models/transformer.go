// Package models contains the core data types shared across the service.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Transformer represents one physical asset under monitoring. Nullable
// columns map to pointer fields; the indicator booleans are a lossy yes/no
// normalization applied at the ArcGIS mapping boundary and have no unknown
// state.
type Transformer struct {
	ID       int64   `json:"id"`
	ObjectID int64   `json:"object_id"`
	GlobalID *string `json:"global_id,omitempty"`

	TransformerID *string  `json:"transformer_id,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Address       *string  `json:"address,omitempty"`

	Type         *string `json:"type,omitempty"`
	Capacity     *string `json:"capacity,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`

	PhysicalCondition         *string `json:"physical_condition,omitempty"`
	OilLeakage                bool    `json:"oil_leakage"`
	RustCorrosion             bool    `json:"rust_corrosion"`
	ExternalDamage            bool    `json:"external_damage"`
	OverheatingSigns          bool    `json:"overheating_signs"`
	BushingsCondition         *string `json:"bushings_condition,omitempty"`
	InsulatorsCondition       *string `json:"insulators_condition,omitempty"`
	CoolingFinsPresent        bool    `json:"cooling_fins_present"`
	CoolingFinsState          *string `json:"cooling_fins_state,omitempty"`
	SupportStructureType      *string `json:"support_structure_type,omitempty"`
	SupportStructureCondition *string `json:"support_structure_condition,omitempty"`
	SafetySignagePresent      bool    `json:"safety_signage_present"`
	ClearanceFromBuildings    *string `json:"clearance_from_buildings,omitempty"`
	AccessibilityIssues       bool    `json:"accessibility_issues"`
	UnauthorizedConnections   bool    `json:"unauthorized_connections"`

	CreationDate   *time.Time `json:"creation_date,omitempty"`
	LastUpdateDate *time.Time `json:"last_update_date,omitempty"`
	AssessmentDate *time.Time `json:"assessment_date,omitempty"`
}

// Label returns the external transformer id when present, otherwise the
// internal id, formatted for alert messages and logs.
func (t *Transformer) Label() string {
	if t.TransformerID != nil && *t.TransformerID != "" {
		return *t.TransformerID
	}
	return strconv.FormatInt(t.ID, 10)
}

// ConditionStats holds the aggregate condition buckets shown on the
// dashboard stat cards.
type ConditionStats struct {
	Total    int `json:"total"`
	Good     int `json:"good"`
	Fair     int `json:"fair"`
	Poor     int `json:"poor"`
	Critical int `json:"critical"`
}

// ConditionBucket assigns a physical condition string to a stats bucket.
// Unrecognized or missing conditions fall into the good bucket; the critical
// bucket collects both "critical" and "very poor". Both SQLite and the
// in-memory store bucket through this function so the policy lives in one
// place.
func ConditionBucket(condition *string) string {
	if condition == nil {
		return "good"
	}
	switch strings.ToLower(strings.TrimSpace(*condition)) {
	case "fair":
		return "fair"
	case "poor":
		return "poor"
	case "critical", "very poor":
		return "critical"
	default:
		return "good"
	}
}

// Add counts one transformer into its bucket.
func (s *ConditionStats) Add(condition *string) {
	s.Total++
	switch ConditionBucket(condition) {
	case "fair":
		s.Fair++
	case "poor":
		s.Poor++
	case "critical":
		s.Critical++
	default:
		s.Good++
	}
}
