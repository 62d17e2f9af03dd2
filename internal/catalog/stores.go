package catalog

import (
	"context"
	"errors"
)

// ErrProductNotFound is returned by ProductStore.Get for unknown skus.
var ErrProductNotFound = errors.New("product not found")

// ProductStore provides read access to the product catalog.
type ProductStore interface {
	// Get returns a single product or ErrProductNotFound.
	Get(ctx context.Context, sku string) (*Product, error)

	// GetMany returns the products for the given skus keyed by sku.
	// Unknown skus are omitted from the result, not errors.
	GetMany(ctx context.Context, skus []string) (map[string]*Product, error)
}

// EdgeStore provides read access to the compatibility graph.
type EdgeStore interface {
	// Neighbors returns outgoing edges from sku with score >= minScore,
	// ordered by score descending, target sku ascending.
	Neighbors(ctx context.Context, sku string, minScore float64) ([]Edge, error)

	// PairScores returns every edge score among the given skus, keyed by
	// canonical pair. When both directions exist the higher score wins.
	PairScores(ctx context.Context, skus []string) (map[PairKey]float64, error)

	// Stats returns summary statistics over the whole graph.
	Stats(ctx context.Context) (*GraphStats, error)
}

// LookStore persists precomputed look payloads keyed by anchor sku.
type LookStore interface {
	// Get returns the stored payload for sku. The bool reports presence.
	Get(ctx context.Context, sku string) ([]byte, bool, error)

	// Put stores or replaces the payload for sku.
	Put(ctx context.Context, sku string, payload []byte) error
}
