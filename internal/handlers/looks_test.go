package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbook/outfit-service/internal/catalog"
	"github.com/lookbook/outfit-service/internal/looks"
)

type stubProductStore struct {
	products map[string]*catalog.Product
	err      error
}

func (s *stubProductStore) Get(_ context.Context, sku string) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[sku]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (s *stubProductStore) GetMany(_ context.Context, skus []string) (map[string]*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]*catalog.Product)
	for _, sku := range skus {
		if p, ok := s.products[sku]; ok {
			out[sku] = p
		}
	}
	return out, nil
}

type stubEdgeStore struct {
	neighbors map[string][]catalog.Edge
	pairs     map[catalog.PairKey]float64
	stats     *catalog.GraphStats
	err       error
}

func (s *stubEdgeStore) Neighbors(_ context.Context, sku string, minScore float64) ([]catalog.Edge, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []catalog.Edge
	for _, e := range s.neighbors[sku] {
		if e.Score >= minScore {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEdgeStore) PairScores(_ context.Context, skus []string) (map[catalog.PairKey]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[catalog.PairKey]float64, len(s.pairs))
	for k, v := range s.pairs {
		out[k] = v
	}
	return out, nil
}

func (s *stubEdgeStore) Stats(_ context.Context) (*catalog.GraphStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func stubItem(sku, slot, color string, occasions ...string) *catalog.Product {
	return &catalog.Product{
		SKU:            sku,
		Title:          sku,
		Slot:           slot,
		PrimaryColor:   color,
		FormalityScore: 1,
		Occasions:      occasions,
	}
}

// wireLooksHandlers builds a router over stub stores with a small catalog
// that yields at least one look for TOP_1.
func wireLooksHandlers(t *testing.T) (*gin.Engine, *stubProductStore, *stubEdgeStore) {
	t.Helper()

	products := &stubProductStore{products: map[string]*catalog.Product{
		"TOP_1":  stubItem("TOP_1", "Base Top", "black", "Gym"),
		"PANT_1": stubItem("PANT_1", "Primary Bottom", "black", "Gym"),
		"SHOE_1": stubItem("SHOE_1", "Footwear", "white", "Gym"),
	}}
	edges := &stubEdgeStore{
		neighbors: map[string][]catalog.Edge{
			"TOP_1": {
				{From: "TOP_1", To: "PANT_1", TargetSlot: "Primary Bottom", Score: 0.9},
				{From: "TOP_1", To: "SHOE_1", TargetSlot: "Footwear", Score: 0.85},
			},
		},
		pairs: map[catalog.PairKey]float64{
			catalog.NewPairKey("PANT_1", "SHOE_1"): 0.8,
		},
		stats: &catalog.GraphStats{TotalEdges: 2, UniqueProducts: 3, AverageScore: 0.875},
	}

	svc := looks.NewService(products, edges, looks.Defaults())
	InitLooks(svc, products, edges, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/outfits/:sku/looks", GenerateLooks)
	router.GET("/outfits/:sku/compatible", GetCompatible)
	router.POST("/outfits/score", ScoreOutfit)
	router.GET("/outfits/stats", GetGraphStats)
	return router, products, edges
}

func TestGenerateLooksHappyPath(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/outfits/TOP_1/looks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp LooksResponsePayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TOP_1", resp.Anchor.Sku)
	require.NotEmpty(t, resp.Looks)
	assert.Equal(t, len(resp.Looks), resp.TotalLooks)

	first := resp.Looks[0]
	assert.Equal(t, "look_1", first.ID)
	assert.Greater(t, first.Coherence, 0.0)
	assert.Contains(t, first.Items, "base top")
	assert.Contains(t, first.Items, "footwear")
}

func TestGenerateLooksInvalidCount(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	for _, raw := range []string{"abc", "0", "99"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/outfits/TOP_1/looks?count="+raw, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "count=%s", raw)
	}
}

func TestGenerateLooksAnchorNotFound(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/outfits/NOPE/looks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateLooksStoreFailure(t *testing.T) {
	router, products, _ := wireLooksHandlers(t)
	products.err = errors.New("connection refused")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/outfits/TOP_1/looks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetCompatibleFiltersAndHydrates(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/outfits/TOP_1/compatible?includeProducts=true", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CompatibleResponsePayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "PANT_1", resp.Items[0].Sku)
	require.NotNil(t, resp.Items[0].Product)
	assert.Equal(t, "Primary Bottom", resp.Items[0].Product.Slot)

	// Slot filter narrows the listing.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/outfits/TOP_1/compatible?slot=footwear", nil)
	router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "SHOE_1", resp.Items[0].Sku)
}

func TestGetCompatibleUnknownAnchor(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/outfits/NOPE/compatible", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCompatibleBadLimit(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/outfits/TOP_1/compatible?limit=500", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreOutfit(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	body, _ := json.Marshal(OutfitScoreRequest{SkuIDs: []string{"PANT_1", "SHOE_1"}})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/outfits/score", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp OutfitScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.8, resp.AverageScore)
	assert.Equal(t, 0.8, resp.PairScores["PANT_1:SHOE_1"])
}

func TestScoreOutfitValidation(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	// A single sku fails the min=2 binding.
	body, _ := json.Marshal(OutfitScoreRequest{SkuIDs: []string{"PANT_1"}})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/outfits/score", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreOutfitMissingSkus(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	body, _ := json.Marshal(OutfitScoreRequest{SkuIDs: []string{"PANT_1", "GHOST_1"}})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/outfits/score", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["missingSkus"], "GHOST_1")
}

func TestGetGraphStats(t *testing.T) {
	router, _, _ := wireLooksHandlers(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/outfits/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats catalog.GraphStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalEdges)
}
