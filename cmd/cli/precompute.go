package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lookbook/outfit-service/internal/catalog"
	"github.com/lookbook/outfit-service/internal/database"
	"github.com/lookbook/outfit-service/internal/handlers"
	"github.com/lookbook/outfit-service/internal/looks"
)

var (
	precomputeCount   int
	precomputeWorkers int64
	precomputeAnchor  string
)

// precomputeCmd generates looks for every anchor product and stores the
// payloads in the precomputed_looks table.
var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Precompute looks for every anchor product",
	Long: `Runs look generation for each product in the catalog and stores the
serialized response in the precomputed_looks table. Existing payloads are
replaced. Use --anchor to precompute a single sku.`,
	RunE: runPrecompute,
}

func init() {
	precomputeCmd.Flags().IntVar(&precomputeCount, "count", 0, "looks per anchor (default: looks.default_looks)")
	precomputeCmd.Flags().Int64Var(&precomputeWorkers, "workers", 4, "concurrent anchors")
	precomputeCmd.Flags().StringVar(&precomputeAnchor, "anchor", "", "precompute a single anchor sku")
	rootCmd.AddCommand(precomputeCmd)
}

func runPrecompute(cmd *cobra.Command, args []string) error {
	if precomputeWorkers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	count := precomputeCount
	if count == 0 {
		count = cfg.Looks.DefaultLooks
	}
	if count < 1 || count > cfg.Looks.MaxLooks {
		return fmt.Errorf("count must be between 1 and %d", cfg.Looks.MaxLooks)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	products := catalog.NewPostgresProductStore(database.Pool())
	edges := catalog.NewPostgresEdgeStore(database.Pool())
	lookStore := catalog.NewPostgresLookStore(database.Pool())
	svc := looks.NewService(products, edges, &cfg.Looks)

	var skus []string
	if precomputeAnchor != "" {
		skus = []string{precomputeAnchor}
	} else {
		var err error
		skus, err = products.ListSKUs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list anchors: %w", err)
		}
	}

	logger.Info().Int("anchors", len(skus)).Int("count", count).
		Int64("workers", precomputeWorkers).Msg("Starting precompute")

	start := time.Now()
	var done, stored, empty, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(precomputeWorkers)

	for _, sku := range skus {
		sku := sku
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			defer done.Add(1)

			resp, err := svc.Generate(gctx, sku, count)
			if err != nil {
				failed.Add(1)
				logger.Warn().Err(err).Str("anchor", sku).Msg("Generation failed")
				return nil
			}
			if len(resp.Looks) == 0 {
				empty.Add(1)
				return nil
			}

			payload, err := handlers.MarshalLooksPayload(resp)
			if err != nil {
				failed.Add(1)
				logger.Warn().Err(err).Str("anchor", sku).Msg("Marshal failed")
				return nil
			}
			if err := lookStore.Put(gctx, sku, payload); err != nil {
				failed.Add(1)
				logger.Warn().Err(err).Str("anchor", sku).Msg("Store failed")
				return nil
			}

			stored.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("precompute aborted: %w", err)
	}

	logger.Info().
		Int64("processed", done.Load()).
		Int64("stored", stored.Load()).
		Int64("empty", empty.Load()).
		Int64("failed", failed.Load()).
		Dur("duration", time.Since(start)).
		Msg("Precompute finished")

	if failed.Load() > 0 {
		return fmt.Errorf("%d anchors failed", failed.Load())
	}
	return nil
}
