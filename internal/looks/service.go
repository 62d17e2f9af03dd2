package looks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lookbook/outfit-service/internal/catalog"
)

// Service orchestrates look generation: cache lookup, catalog loads,
// filtering, clustering and assembly. It owns the fingerprint cache.
type Service struct {
	products catalog.ProductStore
	edges    catalog.EdgeStore

	cfg     *Config
	cache   *FingerprintCache
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewService creates a look generation service. The config must already be
// validated.
func NewService(products catalog.ProductStore, edges catalog.EdgeStore, cfg *Config) *Service {
	metrics := NewMetricsRecorder()
	return &Service{
		products: products,
		edges:    edges,
		cfg:      cfg,
		cache:    NewFingerprintCache(cfg.CacheCapacity, cfg.CacheTTL, metrics),
		metrics:  metrics,
		logger:   log.With().Str("component", "looks-service").Logger(),
	}
}

// Config returns the service configuration.
func (s *Service) Config() *Config {
	return s.cfg
}

// FlushCache drops all cached responses.
func (s *Service) FlushCache() {
	s.cache.Flush()
}

// CacheLen returns the number of live cache entries.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// Generate produces up to numLooks looks around the anchor sku. A response
// with zero looks is a valid outcome when no candidates survive filtering or
// no cluster assembles into a wearable look.
func (s *Service) Generate(ctx context.Context, anchorSKU string, numLooks int) (*LooksResponse, error) {
	anchorSKU = strings.TrimSpace(anchorSKU)
	if anchorSKU == "" {
		s.metrics.RecordGenerationError("invalid_request")
		return nil, ErrInvalidRequest{Field: "sku", Reason: "must not be empty"}
	}
	if numLooks < 1 || numLooks > s.cfg.MaxLooks {
		s.metrics.RecordGenerationError("invalid_request")
		return nil, ErrInvalidRequest{
			Field:  "count",
			Reason: fmt.Sprintf("must be between 1 and %d", s.cfg.MaxLooks),
		}
	}

	fingerprint := Fingerprint(anchorSKU, numLooks)
	if resp, ok := s.cache.Get(fingerprint); ok {
		return resp, nil
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.generate(ctx, anchorSKU, numLooks)
	if err != nil {
		return nil, err
	}

	// A canceled request must not poison the cache with a partial result.
	if ctx.Err() == nil {
		s.cache.Put(fingerprint, resp)
	}

	s.metrics.RecordGeneration(time.Since(start), len(resp.Looks))
	s.logger.Debug().
		Str("anchor", anchorSKU).
		Int("requested", numLooks).
		Int("generated", len(resp.Looks)).
		Dur("duration", time.Since(start)).
		Msg("Looks generated")

	return resp, nil
}

func (s *Service) generate(ctx context.Context, anchorSKU string, numLooks int) (*LooksResponse, error) {
	anchor, err := s.loadAnchor(ctx, anchorSKU)
	if err != nil {
		return nil, err
	}

	edges, err := s.loadNeighbors(ctx, anchorSKU)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return &LooksResponse{Anchor: anchor, Looks: []*Look{}}, nil
	}

	pool, err := s.loadCandidates(ctx, anchor, edges)
	if err != nil {
		return nil, err
	}

	pool = NewValidityFilter(s.cfg).Filter(anchor, pool)
	s.metrics.RecordPoolSize(len(pool))
	if len(pool) == 0 {
		s.logger.Debug().Str("anchor", anchorSKU).Msg("No candidates survived filtering")
		return &LooksResponse{Anchor: anchor, Looks: []*Look{}}, nil
	}

	pairs, err := s.loadPairScores(ctx, anchor, pool)
	if err != nil {
		return nil, err
	}

	clusters := NewDimensionClusterer(s.cfg).Cluster(anchor, pool)
	selector := NewClusterSelector(clusters)
	scorer := NewCoherenceScorer(s.cfg, anchor, pairs)
	assembler := NewLookAssembler(s.cfg, scorer)

	looks := make([]*Look, 0, numLooks)
	seen := make(map[string]bool)

	for len(looks) < numLooks {
		if ctx.Err() != nil {
			break
		}
		cluster := selector.Next()
		if cluster == nil {
			break
		}

		look := assembler.Assemble(anchor, cluster)
		if look == nil {
			continue
		}

		key := lookKey(look)
		if seen[key] {
			continue
		}
		seen[key] = true

		look.ID = fmt.Sprintf("look_%d", len(looks)+1)
		look.Coherence = scorer.LookScore(look, cluster)
		s.metrics.RecordCoherence(look.Coherence)
		selector.MarkEmitted(look)
		looks = append(looks, look)
	}

	return &LooksResponse{Anchor: anchor, Looks: looks, TotalLooks: len(looks)}, nil
}

func (s *Service) loadAnchor(ctx context.Context, sku string) (*catalog.Product, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	anchor, err := s.products.Get(storeCtx, sku)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			s.metrics.RecordGenerationError("anchor_not_found")
			return nil, fmt.Errorf("%w: %s", ErrAnchorNotFound, sku)
		}
		s.metrics.RecordStoreError("products")
		s.metrics.RecordGenerationError("store_unavailable")
		return nil, fmt.Errorf("%w: load anchor %s: %v", ErrStoreUnavailable, sku, err)
	}
	return anchor, nil
}

func (s *Service) loadNeighbors(ctx context.Context, sku string) ([]catalog.Edge, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	edges, err := s.edges.Neighbors(storeCtx, sku, s.cfg.MinEdgeScore)
	if err != nil {
		s.metrics.RecordStoreError("edges")
		s.metrics.RecordGenerationError("store_unavailable")
		return nil, fmt.Errorf("%w: load neighbors of %s: %v", ErrStoreUnavailable, sku, err)
	}
	return edges, nil
}

// loadCandidates hydrates the neighbor edges into candidates. Edges whose
// target product has vanished from the catalog are dropped with a warning;
// when every edge dangles the store is considered inconsistent.
func (s *Service) loadCandidates(ctx context.Context, anchor *catalog.Product, edges []catalog.Edge) ([]*Candidate, error) {
	skus := make([]string, 0, len(edges))
	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		if !seen[e.To] {
			seen[e.To] = true
			skus = append(skus, e.To)
		}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	products, err := s.products.GetMany(storeCtx, skus)
	if err != nil {
		s.metrics.RecordStoreError("products")
		s.metrics.RecordGenerationError("store_unavailable")
		return nil, fmt.Errorf("%w: load candidates for %s: %v", ErrStoreUnavailable, anchor.SKU, err)
	}

	pool := make([]*Candidate, 0, len(edges))
	added := make(map[string]bool, len(edges))
	for _, e := range edges {
		p, ok := products[e.To]
		if !ok {
			s.logger.Warn().Str("anchor", anchor.SKU).Str("peer", e.To).
				Msg("Dropping edge to missing product")
			continue
		}
		if added[e.To] {
			continue
		}
		added[e.To] = true
		pool = append(pool, &Candidate{
			Product: p,
			Score:   e.Score,
			Slot:    normalizeSlot(p.Slot),
		})
	}

	if len(pool) == 0 && len(edges) > 0 {
		s.metrics.RecordGenerationError("store_unavailable")
		return nil, fmt.Errorf("%w: every edge from %s targets a missing product", ErrStoreUnavailable, anchor.SKU)
	}
	return pool, nil
}

// loadPairScores fetches every edge score among the pool plus the anchor and
// merges in the anchor edges already loaded.
func (s *Service) loadPairScores(ctx context.Context, anchor *catalog.Product, pool []*Candidate) (map[catalog.PairKey]float64, error) {
	skus := make([]string, 0, len(pool)+1)
	skus = append(skus, anchor.SKU)
	for _, c := range pool {
		skus = append(skus, c.Product.SKU)
	}
	sort.Strings(skus)

	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	pairs, err := s.edges.PairScores(storeCtx, skus)
	if err != nil {
		s.metrics.RecordStoreError("edges")
		s.metrics.RecordGenerationError("store_unavailable")
		return nil, fmt.Errorf("%w: load pair scores for %s: %v", ErrStoreUnavailable, anchor.SKU, err)
	}
	if pairs == nil {
		pairs = make(map[catalog.PairKey]float64)
	}

	for _, c := range pool {
		key := catalog.NewPairKey(anchor.SKU, c.Product.SKU)
		if c.Score > pairs[key] {
			pairs[key] = c.Score
		}
	}
	return pairs, nil
}

// lookKey fingerprints the item set of a look so duplicate compositions from
// different clusters collapse to one.
func lookKey(look *Look) string {
	skus := look.skus()
	sort.Strings(skus)
	return strings.Join(skus, "|")
}
