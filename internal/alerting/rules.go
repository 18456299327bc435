// Package alerting derives health alerts from transformer assessment data.
package alerting

import (
	"fmt"
	"strings"

	"github.com/gridwatch/gridwatch/internal/models"
)

// Derive inspects a transformer record and returns candidate alerts for
// every health rule that matches. Rules are independent; a record can yield
// zero to five candidates. Candidates carry no id or creation time; the
// store assigns those on persist. Pure, no I/O.
func Derive(t *models.Transformer) []*models.Alert {
	var alerts []*models.Alert

	candidate := func(alertType models.AlertType, severity models.Severity, message string) {
		alerts = append(alerts, &models.Alert{
			TransformerID: t.ID,
			Type:          alertType,
			Severity:      severity,
			Message:       message,
		})
	}

	if t.OilLeakage {
		candidate(models.AlertOilLeakage, models.SeverityCritical,
			fmt.Sprintf("Oil leakage detected at transformer %s", t.Label()))
	}

	if t.OverheatingSigns {
		candidate(models.AlertOverheating, models.SeverityCritical,
			fmt.Sprintf("Signs of overheating detected at transformer %s", t.Label()))
	}

	if !t.SafetySignagePresent {
		candidate(models.AlertSafetySignage, models.SeverityWarning,
			fmt.Sprintf("Safety signage missing at transformer %s", t.Label()))
	}

	if t.UnauthorizedConnections {
		candidate(models.AlertUnauthorizedConnections, models.SeverityCritical,
			fmt.Sprintf("Unauthorized connections detected at transformer %s", t.Label()))
	}

	if condition, bad := poorCondition(t.PhysicalCondition); bad {
		severity := models.SeverityWarning
		if condition == "very poor" {
			severity = models.SeverityCritical
		}
		candidate(models.AlertPoorCondition, severity,
			fmt.Sprintf("Transformer %s is in %s condition", t.Label(), condition))
	}

	return alerts
}

// poorCondition reports whether the physical condition matches the poor
// condition rule, returning the normalized condition string.
func poorCondition(condition *string) (string, bool) {
	if condition == nil {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimSpace(*condition))
	return normalized, normalized == "poor" || normalized == "very poor"
}
