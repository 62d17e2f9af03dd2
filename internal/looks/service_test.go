package looks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbook/outfit-service/internal/catalog"
)

// mockProductStore is an in-memory ProductStore for testing.
type mockProductStore struct {
	products     map[string]*catalog.Product
	getCalls     int
	getManyCalls int
	err          error
}

func newMockProductStore(products ...*catalog.Product) *mockProductStore {
	m := &mockProductStore{products: make(map[string]*catalog.Product)}
	for _, p := range products {
		m.products[p.SKU] = p
	}
	return m
}

func (m *mockProductStore) Get(ctx context.Context, sku string) (*catalog.Product, error) {
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[sku]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductStore) GetMany(ctx context.Context, skus []string) (map[string]*catalog.Product, error) {
	m.getManyCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]*catalog.Product)
	for _, sku := range skus {
		if p, ok := m.products[sku]; ok {
			out[sku] = p
		}
	}
	return out, nil
}

// mockEdgeStore is an in-memory EdgeStore for testing.
type mockEdgeStore struct {
	neighbors     map[string][]catalog.Edge
	pairs         map[catalog.PairKey]float64
	neighborCalls int
	err           error
}

func newMockEdgeStore() *mockEdgeStore {
	return &mockEdgeStore{
		neighbors: make(map[string][]catalog.Edge),
		pairs:     make(map[catalog.PairKey]float64),
	}
}

func (m *mockEdgeStore) addEdge(from, to string, score float64) {
	m.neighbors[from] = append(m.neighbors[from], catalog.Edge{From: from, To: to, Score: score})
	m.addPair(from, to, score)
}

func (m *mockEdgeStore) addPair(a, b string, score float64) {
	m.pairs[catalog.NewPairKey(a, b)] = score
}

func (m *mockEdgeStore) Neighbors(ctx context.Context, sku string, minScore float64) ([]catalog.Edge, error) {
	m.neighborCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []catalog.Edge
	for _, e := range m.neighbors[sku] {
		if e.Score >= minScore {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEdgeStore) PairScores(ctx context.Context, skus []string) (map[catalog.PairKey]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	in := make(map[string]bool, len(skus))
	for _, sku := range skus {
		in[sku] = true
	}
	out := make(map[catalog.PairKey]float64)
	for key, score := range m.pairs {
		if in[key.A] && in[key.B] {
			out[key] = score
		}
	}
	return out, nil
}

func (m *mockEdgeStore) Stats(ctx context.Context) (*catalog.GraphStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &catalog.GraphStats{TotalEdges: int64(len(m.pairs))}, nil
}

// gymCatalog seeds a small catalog around a gym tank anchor.
func gymCatalog() (*mockProductStore, *mockEdgeStore) {
	anchor := withAesthetics(withOccasions(product("GYM_TANK_001", "Base Top", "black", 1),
		"Gym", "Casual", "Everyday"), "Athletic", "Streetwear")

	shorts := withAesthetics(withOccasions(product("SHORTS_001", "Primary Bottom", "black", 1),
		"Gym"), "Athletic")
	sneaker1 := withAesthetics(withOccasions(product("SNEAKER_001", "Footwear", "white", 1),
		"Gym", "Casual"), "Athletic")
	cap := withAesthetics(withOccasions(product("CAP_001", "Accessory", "black", 1),
		"Gym", "Casual", "Everyday"), "Athletic", "Streetwear")
	cap.Type = "Cap"
	joggers := withAesthetics(withOccasions(product("JOGGERS_001", "Primary Bottom", "gray", 1),
		"Casual", "Everyday"), "Streetwear")
	sneaker2 := withAesthetics(withOccasions(product("SNEAKER_002", "Footwear", "black", 1),
		"Casual"), "Streetwear")
	hoodie := withAesthetics(withOccasions(product("HOODIE_001", "Outerwear", "gray", 1),
		"Casual", "Everyday"), "Streetwear")
	hoodie.Category = "Hoodie"
	blazer := withOccasions(product("BLAZER_001", "Outerwear", "navy", 4), "Work")

	products := newMockProductStore(anchor, shorts, sneaker1, cap, joggers, sneaker2, hoodie, blazer)

	edges := newMockEdgeStore()
	edges.addEdge("GYM_TANK_001", "SHORTS_001", 0.9)
	edges.addEdge("GYM_TANK_001", "SNEAKER_001", 0.88)
	edges.addEdge("GYM_TANK_001", "CAP_001", 0.85)
	edges.addEdge("GYM_TANK_001", "HOODIE_001", 0.82)
	edges.addEdge("GYM_TANK_001", "JOGGERS_001", 0.8)
	edges.addEdge("GYM_TANK_001", "SNEAKER_002", 0.78)
	edges.addEdge("GYM_TANK_001", "BLAZER_001", 0.6)

	edges.addPair("SHORTS_001", "SNEAKER_001", 0.8)
	edges.addPair("SHORTS_001", "CAP_001", 0.7)
	edges.addPair("SNEAKER_001", "CAP_001", 0.75)
	edges.addPair("JOGGERS_001", "HOODIE_001", 0.8)
	edges.addPair("JOGGERS_001", "SNEAKER_002", 0.77)
	edges.addPair("JOGGERS_001", "CAP_001", 0.6)
	edges.addPair("SNEAKER_002", "HOODIE_001", 0.7)
	edges.addPair("SNEAKER_002", "CAP_001", 0.65)
	edges.addPair("HOODIE_001", "CAP_001", 0.6)

	return products, edges
}

func TestGenerateGymAnchor(t *testing.T) {
	products, edges := gymCatalog()
	svc := NewService(products, edges, Defaults())

	resp, err := svc.Generate(context.Background(), "GYM_TANK_001", 3)
	require.NoError(t, err)
	require.Len(t, resp.Looks, 3)
	assert.Equal(t, 3, resp.TotalLooks)
	assert.Equal(t, "GYM_TANK_001", resp.Anchor.SKU)

	first := resp.Looks[0]
	assert.Equal(t, "look_1", first.ID)
	assert.Equal(t, "Gym Occasion", first.Name)
	assert.Equal(t, DimensionOccasion, first.Dimension)
	assert.Equal(t, "SHORTS_001", first.Items[SlotPrimaryBottom].SKU)
	assert.Equal(t, "SNEAKER_001", first.Items[SlotFootwear].SKU)
	assert.Equal(t, "CAP_001", first.Items[SlotAccessory].SKU)
	assert.Equal(t, 0.84, first.Coherence)

	second := resp.Looks[1]
	assert.Equal(t, "look_2", second.ID)
	assert.Equal(t, "Casual Occasion", second.Name)
	assert.Equal(t, "HOODIE_001", second.Items[SlotOuterwear].SKU)
	assert.Equal(t, "JOGGERS_001", second.Items[SlotPrimaryBottom].SKU)
	assert.Equal(t, "SNEAKER_002", second.Items[SlotFootwear].SKU)
	assert.Equal(t, "CAP_001", second.Items[SlotAccessory].SKU)
	assert.Equal(t, 0.835, second.Coherence)

	// The everyday and aesthetic clusters are fully contained in the first
	// two looks; the monochrome cluster still yields a distinct composition.
	third := resp.Looks[2]
	assert.Equal(t, "Monochrome Color", third.Name)
	assert.Equal(t, DimensionColor, third.Dimension)
	assert.Equal(t, "SHORTS_001", third.Items[SlotPrimaryBottom].SKU)
	assert.Equal(t, "SNEAKER_002", third.Items[SlotFootwear].SKU)
	assert.Equal(t, 0.757, third.Coherence)

	// No look repeats another's item set.
	seen := make(map[string]bool)
	for _, look := range resp.Looks {
		key := lookKey(look)
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestGenerateDeterministic(t *testing.T) {
	products, edges := gymCatalog()

	first, err := NewService(products, edges, Defaults()).Generate(context.Background(), "GYM_TANK_001", 3)
	require.NoError(t, err)
	second, err := NewService(products, edges, Defaults()).Generate(context.Background(), "GYM_TANK_001", 3)
	require.NoError(t, err)

	require.Equal(t, len(first.Looks), len(second.Looks))
	for i := range first.Looks {
		assert.Equal(t, first.Looks[i].Name, second.Looks[i].Name)
		assert.Equal(t, first.Looks[i].Coherence, second.Looks[i].Coherence)
		assert.Equal(t, first.Looks[i].SlotsFilled, second.Looks[i].SlotsFilled)
	}
}

func TestGenerateInvalidCount(t *testing.T) {
	products, edges := gymCatalog()
	svc := NewService(products, edges, Defaults())

	var invalid ErrInvalidRequest

	_, err := svc.Generate(context.Background(), "GYM_TANK_001", 0)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "count", invalid.Field)

	_, err = svc.Generate(context.Background(), "GYM_TANK_001", 11)
	require.ErrorAs(t, err, &invalid)

	_, err = svc.Generate(context.Background(), "  ", 3)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "sku", invalid.Field)
}

func TestGenerateAnchorNotFound(t *testing.T) {
	products, edges := gymCatalog()
	svc := NewService(products, edges, Defaults())

	_, err := svc.Generate(context.Background(), "NO_SUCH_SKU", 3)
	assert.ErrorIs(t, err, ErrAnchorNotFound)
}

func TestGenerateNoEdgesReturnsEmpty(t *testing.T) {
	products := newMockProductStore(product("LONER_001", "Base Top", "black", 1))
	svc := NewService(products, newMockEdgeStore(), Defaults())

	resp, err := svc.Generate(context.Background(), "LONER_001", 3)
	require.NoError(t, err)
	assert.Empty(t, resp.Looks)
	assert.Equal(t, 0, resp.TotalLooks)
	assert.Equal(t, "LONER_001", resp.Anchor.SKU)
}

func TestGenerateNoSurvivorsReturnsEmpty(t *testing.T) {
	anchor := withOccasions(product("TOP_1", "Base Top", "black", 1), "Gym")
	rival := withOccasions(product("TOP_2", "Base Top", "white", 1), "Gym")
	products := newMockProductStore(anchor, rival)

	edges := newMockEdgeStore()
	edges.addEdge("TOP_1", "TOP_2", 0.9)

	svc := NewService(products, edges, Defaults())
	resp, err := svc.Generate(context.Background(), "TOP_1", 3)
	require.NoError(t, err)
	assert.Empty(t, resp.Looks)
}

func TestGenerateCacheHit(t *testing.T) {
	products, edges := gymCatalog()
	svc := NewService(products, edges, Defaults())

	first, err := svc.Generate(context.Background(), "GYM_TANK_001", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, edges.neighborCalls)

	second, err := svc.Generate(context.Background(), "GYM_TANK_001", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, edges.neighborCalls)
	assert.Same(t, first, second)

	// A different count bypasses the cached entry.
	_, err = svc.Generate(context.Background(), "GYM_TANK_001", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, edges.neighborCalls)

	svc.FlushCache()
	_, err = svc.Generate(context.Background(), "GYM_TANK_001", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, edges.neighborCalls)
}

func TestGenerateStoreFailure(t *testing.T) {
	products, edges := gymCatalog()
	edges.err = errors.New("connection refused")

	svc := NewService(products, edges, Defaults())
	_, err := svc.Generate(context.Background(), "GYM_TANK_001", 3)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestGenerateDropsDanglingEdges(t *testing.T) {
	anchor := withOccasions(product("TOP_1", "Base Top", "black", 1), "Gym")
	pant := withOccasions(product("PANT_1", "Primary Bottom", "black", 1), "Gym")
	shoe := withOccasions(product("SHOE_1", "Footwear", "black", 1), "Gym")
	products := newMockProductStore(anchor, pant, shoe)

	edges := newMockEdgeStore()
	edges.addEdge("TOP_1", "PANT_1", 0.9)
	edges.addEdge("TOP_1", "SHOE_1", 0.8)
	edges.addEdge("TOP_1", "GHOST_1", 0.95)

	svc := NewService(products, edges, Defaults())
	resp, err := svc.Generate(context.Background(), "TOP_1", 3)
	require.NoError(t, err)
	require.Len(t, resp.Looks, 1)
	for _, p := range resp.Looks[0].Items {
		assert.NotEqual(t, "GHOST_1", p.SKU)
	}
}

func TestGenerateAllEdgesDangling(t *testing.T) {
	anchor := withOccasions(product("TOP_1", "Base Top", "black", 1), "Gym")
	products := newMockProductStore(anchor)

	edges := newMockEdgeStore()
	edges.addEdge("TOP_1", "GHOST_1", 0.9)
	edges.addEdge("TOP_1", "GHOST_2", 0.8)

	svc := NewService(products, edges, Defaults())
	_, err := svc.Generate(context.Background(), "TOP_1", 3)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestGenerateHonorsRequestedCount(t *testing.T) {
	products, edges := gymCatalog()
	svc := NewService(products, edges, Defaults())

	resp, err := svc.Generate(context.Background(), "GYM_TANK_001", 1)
	require.NoError(t, err)
	assert.Len(t, resp.Looks, 1)
	assert.Equal(t, "Gym Occasion", resp.Looks[0].Name)
}
