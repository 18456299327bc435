package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridwatch/gridwatch/internal/models"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts, newest first",
	RunE:  runAlertsList,
}

var alertsResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Mark an alert as resolved",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsResolve,
}

var (
	alertsUnresolvedOnly bool
	alertsSeverity       string
)

func init() {
	alertsListCmd.Flags().BoolVar(&alertsUnresolvedOnly, "unresolved", false, "show unresolved alerts only")
	alertsListCmd.Flags().StringVar(&alertsSeverity, "severity", "", "filter by severity (warning, critical)")
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsResolveCmd)
	rootCmd.AddCommand(alertsCmd)
}

type alertView struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	Resolved    bool      `json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
	Transformer *struct {
		TransformerID *string `json:"transformer_id"`
		Location      *string `json:"location"`
	} `json:"transformer,omitempty"`
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	var alerts []alertView
	if err := apiRequest("GET", "/api/v1/alerts", nil, &alerts); err != nil {
		return err
	}

	if alertsUnresolvedOnly || alertsSeverity != "" {
		severity := models.ParseSeverity(alertsSeverity)
		filtered := alerts[:0]
		for _, a := range alerts {
			if alertsUnresolvedOnly && a.Resolved {
				continue
			}
			if alertsSeverity != "" && a.Severity != string(severity) {
				continue
			}
			filtered = append(filtered, a)
		}
		alerts = filtered
	}

	if GetOutput() == "json" {
		printJSON(alerts)
		return nil
	}

	if len(alerts) == 0 {
		fmt.Println("No alerts.")
		return nil
	}

	fmt.Printf("%-6s %-24s %-9s %-9s %s\n", "ID", "TYPE", "SEVERITY", "STATUS", "MESSAGE")
	for _, a := range alerts {
		status := "open"
		if a.Resolved {
			status = "resolved"
		}
		fmt.Printf("%-6d %-24s %-9s %-9s %s\n", a.ID, a.Type, a.Severity, status, a.Message)
	}
	return nil
}

func runAlertsResolve(cmd *cobra.Command, args []string) error {
	var alert alertView
	if err := apiRequest("PATCH", "/api/v1/alerts/"+args[0]+"/resolve", nil, &alert); err != nil {
		return err
	}

	if GetOutput() == "json" {
		printJSON(alert)
		return nil
	}

	fmt.Printf("Alert %d resolved (%s)\n", alert.ID, alert.Type)
	return nil
}
