package models

import "time"

// AlertType identifies the health rule that raised an alert.
type AlertType string

const (
	AlertOilLeakage              AlertType = "oil_leakage"
	AlertOverheating             AlertType = "overheating"
	AlertSafetySignage           AlertType = "safety_signage"
	AlertUnauthorizedConnections AlertType = "unauthorized_connections"
	AlertPoorCondition           AlertType = "poor_condition"
)

// Severity represents alert severity level.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a derived health notification tied to one transformer. At most
// one unresolved alert per (transformer, type) pair may exist; resolved
// alerts accumulate as history and are never deleted.
type Alert struct {
	ID            int64      `json:"id"`
	TransformerID int64      `json:"transformer_id"`
	Type          AlertType  `json:"type"`
	Severity      Severity   `json:"severity"`
	Message       string     `json:"message"`
	Resolved      bool       `json:"resolved"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// ParseSeverity converts a string to Severity, defaulting to warning.
func ParseSeverity(s string) Severity {
	if s == string(SeverityCritical) {
		return SeverityCritical
	}
	return SeverityWarning
}
