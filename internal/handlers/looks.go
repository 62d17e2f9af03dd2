package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lookbook/outfit-service/internal/catalog"
	"github.com/lookbook/outfit-service/internal/looks"
)

var (
	lookService  *looks.Service
	productStore catalog.ProductStore
	edgeStore    catalog.EdgeStore
	lookStore    catalog.LookStore
)

// InitLooks wires the handler dependencies. Must be called before mounting
// routes. lookStore may be nil when precomputed serving is disabled.
func InitLooks(svc *looks.Service, products catalog.ProductStore, edges catalog.EdgeStore, precomputed catalog.LookStore) {
	lookService = svc
	productStore = products
	edgeStore = edges
	lookStore = precomputed
}

// ProductPayload mirrors catalog.Product on the wire.
type ProductPayload struct {
	Sku             string   `json:"sku"`
	Title           string   `json:"title"`
	Brand           string   `json:"brand,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Type            string   `json:"type,omitempty"`
	Category        string   `json:"category,omitempty"`
	PrimaryColor    string   `json:"primaryColor,omitempty"`
	Slot            string   `json:"slot"`
	Aesthetics      []string `json:"aesthetics,omitempty"`
	Occasions       []string `json:"occasions,omitempty"`
	Seasons         []string `json:"seasons,omitempty"`
	FormalityScore  int      `json:"formalityScore,omitempty"`
	StatementPiece  bool     `json:"statementPiece,omitempty"`
}

// LookItemPayload is a single product inside a look.
type LookItemPayload struct {
	Sku      string `json:"sku"`
	Title    string `json:"title"`
	Brand    string `json:"brand,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Type     string `json:"type,omitempty"`
	Color    string `json:"color,omitempty"`
	Slot     string `json:"slot"`
}

// LookPayload is an assembled look on the wire.
type LookPayload struct {
	ID             string                     `json:"id"`
	Name           string                     `json:"name"`
	Dimension      string                     `json:"dimension"`
	DimensionValue string                     `json:"dimensionValue"`
	Coherence      float64                    `json:"coherence"`
	Items          map[string]LookItemPayload `json:"items"`
	SlotsFilled    []string                   `json:"slotsFilled"`
}

// LooksResponsePayload is the response of the look generation endpoint.
type LooksResponsePayload struct {
	Anchor     ProductPayload `json:"anchor"`
	Looks      []LookPayload  `json:"looks"`
	TotalLooks int            `json:"totalLooks"`
}

// GenerateLooks handles GET /outfits/:sku/looks?count=N
func GenerateLooks(c *gin.Context) {
	sku := c.Param("sku")
	cfg := lookService.Config()

	count := cfg.DefaultLooks
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = parsed
	}

	// Precomputed payloads only cover the default request shape.
	if cfg.ServePrecomputed && lookStore != nil && count == cfg.DefaultLooks {
		if payload, ok, err := lookStore.Get(c.Request.Context(), sku); err == nil && ok {
			c.Data(http.StatusOK, "application/json", payload)
			return
		}
	}

	resp, err := lookService.Generate(c.Request.Context(), sku, count)
	if err != nil {
		respondLookError(c, err)
		return
	}

	c.JSON(http.StatusOK, BuildLooksPayload(resp))
}

func respondLookError(c *gin.Context, err error) {
	var invalid looks.ErrInvalidRequest
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.Is(err, looks.ErrAnchorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "anchor product not found"})
	case errors.Is(err, looks.ErrStoreUnavailable):
		log.Error().Err(err).Msg("Look generation store failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
	default:
		log.Error().Err(err).Msg("Look generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// BuildLooksPayload converts a generation result to its wire shape. Shared
// with the precompute CLI so stored payloads match live responses.
func BuildLooksPayload(resp *looks.LooksResponse) LooksResponsePayload {
	out := LooksResponsePayload{
		Anchor:     toProductPayload(resp.Anchor),
		Looks:      make([]LookPayload, 0, len(resp.Looks)),
		TotalLooks: resp.TotalLooks,
	}
	for _, l := range resp.Looks {
		items := make(map[string]LookItemPayload, len(l.Items))
		for slot, p := range l.Items {
			items[slot] = LookItemPayload{
				Sku:      p.SKU,
				Title:    p.Title,
				Brand:    p.Brand,
				ImageURL: p.ImageURL,
				Type:     p.Type,
				Color:    p.PrimaryColor,
				Slot:     slot,
			}
		}
		out.Looks = append(out.Looks, LookPayload{
			ID:             l.ID,
			Name:           l.Name,
			Dimension:      l.Dimension,
			DimensionValue: l.DimensionValue,
			Coherence:      l.Coherence,
			Items:          items,
			SlotsFilled:    l.SlotsFilled,
		})
	}
	return out
}

// MarshalLooksPayload serializes a generation result for storage.
func MarshalLooksPayload(resp *looks.LooksResponse) ([]byte, error) {
	return json.Marshal(BuildLooksPayload(resp))
}

func toProductPayload(p *catalog.Product) ProductPayload {
	return ProductPayload{
		Sku:            p.SKU,
		Title:          p.Title,
		Brand:          p.Brand,
		ImageURL:       p.ImageURL,
		Type:           p.Type,
		Category:       p.Category,
		PrimaryColor:   p.PrimaryColor,
		Slot:           p.Slot,
		Aesthetics:     p.Aesthetics,
		Occasions:      p.Occasions,
		Seasons:        p.Seasons,
		FormalityScore: p.FormalityScore,
		StatementPiece: p.StatementPiece,
	}
}
