package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lookbook/outfit-service/internal/catalog"
)

// CompatibleItemPayload is a single neighbor in a compatibility listing.
type CompatibleItemPayload struct {
	Sku        string          `json:"sku"`
	Score      float64         `json:"score"`
	TargetSlot string          `json:"targetSlot,omitempty"`
	Product    *ProductPayload `json:"product,omitempty"`
}

// CompatibleResponsePayload is the response of the compatible-items endpoint.
type CompatibleResponsePayload struct {
	Anchor string                  `json:"anchor"`
	Items  []CompatibleItemPayload `json:"items"`
	Total  int                     `json:"total"`
}

// GetCompatible handles GET /outfits/:sku/compatible?slot=&limit=&minScore=&includeProducts=
func GetCompatible(c *gin.Context) {
	sku := c.Param("sku")
	ctx := c.Request.Context()

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	minScore := 0.0
	if raw := c.Query("minScore"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minScore must be between 0 and 1"})
			return
		}
		minScore = parsed
	}

	slotFilter := strings.ToLower(strings.TrimSpace(c.Query("slot")))
	includeProducts := c.Query("includeProducts") == "true"

	edges, err := edgeStore.Neighbors(ctx, sku, minScore)
	if err != nil {
		log.Error().Err(err).Str("sku", sku).Msg("Failed to load neighbors")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}

	if len(edges) == 0 {
		// Distinguish an unknown anchor from one with no edges.
		if _, err := productStore.Get(ctx, sku); err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
			return
		}
	}

	items := make([]CompatibleItemPayload, 0, limit)
	for _, e := range edges {
		if slotFilter != "" && strings.ToLower(e.TargetSlot) != slotFilter {
			continue
		}
		items = append(items, CompatibleItemPayload{
			Sku:        e.To,
			Score:      e.Score,
			TargetSlot: e.TargetSlot,
		})
		if len(items) == limit {
			break
		}
	}

	if includeProducts && len(items) > 0 {
		skus := make([]string, len(items))
		for i, it := range items {
			skus[i] = it.Sku
		}
		products, err := productStore.GetMany(ctx, skus)
		if err != nil {
			log.Error().Err(err).Str("sku", sku).Msg("Failed to hydrate neighbors")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
			return
		}
		for i := range items {
			if p, ok := products[items[i].Sku]; ok {
				payload := toProductPayload(p)
				items[i].Product = &payload
			}
		}
	}

	c.JSON(http.StatusOK, CompatibleResponsePayload{
		Anchor: sku,
		Items:  items,
		Total:  len(items),
	})
}

// OutfitScoreRequest asks for pairwise compatibility over a set of skus.
type OutfitScoreRequest struct {
	SkuIDs []string `json:"skuIds" binding:"required,min=2,max=10"`
}

// OutfitScoreResponse summarizes pairwise compatibility over the set.
type OutfitScoreResponse struct {
	AverageScore float64            `json:"averageScore"`
	PairScores   map[string]float64 `json:"pairScores"`
	MissingSkus  []string           `json:"missingSkus,omitempty"`
}

// ScoreOutfit handles POST /outfits/score
func ScoreOutfit(c *gin.Context) {
	var req OutfitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skuIds must contain between 2 and 10 skus"})
		return
	}
	ctx := c.Request.Context()

	products, err := productStore.GetMany(ctx, req.SkuIDs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load outfit products")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}
	var missing []string
	for _, sku := range req.SkuIDs {
		if _, ok := products[sku]; !ok {
			missing = append(missing, sku)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		c.JSON(http.StatusNotFound, gin.H{"error": "products not found", "missingSkus": missing})
		return
	}

	pairs, err := edgeStore.PairScores(ctx, req.SkuIDs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load pair scores")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}

	resp := OutfitScoreResponse{PairScores: make(map[string]float64)}
	var sum float64
	count := 0
	for i := 0; i < len(req.SkuIDs); i++ {
		for j := i + 1; j < len(req.SkuIDs); j++ {
			key := catalog.NewPairKey(req.SkuIDs[i], req.SkuIDs[j])
			score := pairs[key]
			resp.PairScores[key.A+":"+key.B] = score
			sum += score
			count++
		}
	}
	if count > 0 {
		resp.AverageScore = sum / float64(count)
	}

	c.JSON(http.StatusOK, resp)
}

// GetGraphStats handles GET /outfits/stats
func GetGraphStats(c *gin.Context) {
	stats, err := edgeStore.Stats(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load graph stats")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
