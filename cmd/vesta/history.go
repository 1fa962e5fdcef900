package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tidy-hq/vesta/pkg/history"
)

var historyFlags struct {
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent routing decisions",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 50, "number of decisions to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if !cfg.History.Enabled {
		return fmt.Errorf("decision history is disabled; set history.enabled: true")
	}

	store, err := history.Open(cfg.History.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), historyFlags.limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No decisions recorded.")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %s  %s", rec.RoutedAt.Local().Format(time.RFC3339), rec.ActionType, rec.Path)
		if rec.Target != "" {
			fmt.Printf(" -> %s", rec.Target)
		}
		fmt.Printf("  (%s)\n", rec.Condition)
	}
	return nil
}
