package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lookbook/outfit-service/internal/catalog"
	"github.com/lookbook/outfit-service/internal/database"
)

// statsCmd prints compatibility graph statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show compatibility graph statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	edges := catalog.NewPostgresEdgeStore(database.Pool())
	stats, err := edges.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load graph stats: %w", err)
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
