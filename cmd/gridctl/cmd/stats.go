package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show transformer condition statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	var stats struct {
		Total    int `json:"total"`
		Good     int `json:"good"`
		Fair     int `json:"fair"`
		Poor     int `json:"poor"`
		Critical int `json:"critical"`
	}
	if err := apiRequest("GET", "/api/v1/statistics", nil, &stats); err != nil {
		return err
	}

	if GetOutput() == "json" {
		printJSON(stats)
		return nil
	}

	fmt.Printf("Transformers: %d\n", stats.Total)
	fmt.Printf("  good:     %d\n", stats.Good)
	fmt.Printf("  fair:     %d\n", stats.Fair)
	fmt.Printf("  poor:     %d\n", stats.Poor)
	fmt.Printf("  critical: %d\n", stats.Critical)
	return nil
}
