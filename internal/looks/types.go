package looks

import (
	"fmt"
	"strconv"

	"github.com/lookbook/outfit-service/internal/catalog"
)

// Candidate is a product reachable from the anchor through a compatibility
// edge, carrying the anchor-edge score.
type Candidate struct {
	Product *catalog.Product
	Score   float64 // compatibility with the anchor, [0,1]
	Slot    string  // normalized functional slot
}

// Cluster is a group of candidates that agree on one dimension value.
// Members are kept sorted by anchor score descending, sku ascending.
type Cluster struct {
	Dimension string
	Value     string
	Members   []*Candidate
	MeanScore float64 // mean anchor-edge score over members
}

// Name returns the display name for a look built from this cluster,
// e.g. "Gym Occasion" or "Monochrome Color".
func (c *Cluster) Name() string {
	return titleCase(c.Value) + " " + dimensionLabels[c.Dimension]
}

// slotSet returns the distinct normalized slots covered by the members.
func (c *Cluster) slotSet() map[string]bool {
	slots := make(map[string]bool, len(c.Members))
	for _, m := range c.Members {
		slots[m.Slot] = true
	}
	return slots
}

// Look is an assembled outfit around the anchor.
type Look struct {
	ID             string
	Name           string
	Dimension      string
	DimensionValue string
	Coherence      float64
	Items          map[string]*catalog.Product // normalized slot -> product
	SlotsFilled    []string                    // anchor slot first, then assembly order
}

// skus returns the member skus in SlotsFilled order.
func (l *Look) skus() []string {
	out := make([]string, 0, len(l.SlotsFilled))
	for _, slot := range l.SlotsFilled {
		out = append(out, l.Items[slot].SKU)
	}
	return out
}

// LooksResponse is the result of a generation request.
type LooksResponse struct {
	Anchor     *catalog.Product
	Looks      []*Look
	TotalLooks int
}

// Fingerprint is the cache key for a generation request.
func Fingerprint(anchorSKU string, numLooks int) string {
	return fmt.Sprintf("%s|%d", anchorSKU, numLooks)
}

func formalityValue(score int) string {
	return strconv.Itoa(score)
}
