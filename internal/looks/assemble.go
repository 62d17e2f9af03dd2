package looks

import (
	"strings"

	"github.com/lookbook/outfit-service/internal/catalog"
)

// LookAssembler greedily fills slots around the anchor from a single
// cluster's members.
type LookAssembler struct {
	cfg    *Config
	scorer *CoherenceScorer
}

func NewLookAssembler(cfg *Config, scorer *CoherenceScorer) *LookAssembler {
	return &LookAssembler{cfg: cfg, scorer: scorer}
}

// Assemble builds a look from the cluster, or returns nil when the cluster
// cannot produce a wearable one. Slots are visited in a fixed order; for each
// slot the candidate with the highest coherence increment wins, ties broken
// by anchor score then smaller sku. A look needs at least three items
// including the anchor, and at least one of footwear or accessory.
func (a *LookAssembler) Assemble(anchor *catalog.Product, cluster *Cluster) *Look {
	anchorSlot := normalizeSlot(anchor.Slot)
	items := map[string]*catalog.Product{anchorSlot: anchor}
	filled := []string{anchorSlot}

	for _, slot := range allSlots {
		if slot == anchorSlot {
			continue
		}
		best := a.bestForSlot(slot, cluster, items)
		if best == nil {
			continue
		}
		items[slot] = best.Product
		filled = append(filled, slot)
	}

	if len(items) < 3 {
		return nil
	}
	if items[SlotFootwear] == nil && items[SlotAccessory] == nil {
		return nil
	}

	return &Look{
		Dimension:      cluster.Dimension,
		DimensionValue: cluster.Value,
		Name:           cluster.Name(),
		Items:          items,
		SlotsFilled:    filled,
	}
}

// bestForSlot picks the highest-increment admissible member for a slot.
func (a *LookAssembler) bestForSlot(slot string, cluster *Cluster, items map[string]*catalog.Product) *Candidate {
	var best *Candidate
	var bestInc float64

	for _, m := range cluster.Members {
		if m.Slot != slot {
			continue
		}
		if !a.admissible(m, slot, items) {
			continue
		}
		inc := a.scorer.Increment(m, items, cluster)
		if best == nil || inc > bestInc ||
			(inc == bestInc && (m.Score > best.Score ||
				(m.Score == best.Score && m.Product.SKU < best.Product.SKU))) {
			best = m
			bestInc = inc
		}
	}
	return best
}

// admissible applies the pairwise composition rules against the items already
// in the look.
func (a *LookAssembler) admissible(c *Candidate, slot string, items map[string]*catalog.Product) bool {
	p := c.Product

	for _, existing := range items {
		if existing.SKU == p.SKU {
			return false
		}
		if existing.FormalityScore > 0 && p.FormalityScore > 0 {
			gap := existing.FormalityScore - p.FormalityScore
			if gap < 0 {
				gap = -gap
			}
			if gap > a.cfg.IntraLookFormalitySpread {
				return false
			}
		}
	}

	if !a.silhouetteOK(p, slot, items) {
		return false
	}

	if slot == SlotAccessory {
		if !isWearableAccessory(p) {
			return false
		}
		if !accessoryColorOK(p.PrimaryColor, items) {
			return false
		}
	}

	return true
}

// silhouetteOK enforces the statement-top rules: a statement base top never
// shares a look with closed outerwear or with an athletic bottom.
func (a *LookAssembler) silhouetteOK(p *catalog.Product, slot string, items map[string]*catalog.Product) bool {
	if isStatementTop(p, slot) {
		for existingSlot, existing := range items {
			if isClosedOuterwear(existing, existingSlot) {
				return false
			}
			if isAthleticBottom(existing, existingSlot) {
				return false
			}
		}
		return true
	}

	if isClosedOuterwear(p, slot) || isAthleticBottom(p, slot) {
		for existingSlot, existing := range items {
			if isStatementTop(existing, existingSlot) {
				return false
			}
		}
	}
	return true
}

func isStatementTop(p *catalog.Product, slot string) bool {
	return p.StatementPiece && slot == SlotBaseTop
}

func isClosedOuterwear(p *catalog.Product, slot string) bool {
	return slot == SlotOuterwear && closedOuterwearCategories[strings.ToLower(p.Category)]
}

func isAthleticBottom(p *catalog.Product, slot string) bool {
	if slot != SlotPrimaryBottom && slot != SlotSecondaryBottom {
		return false
	}
	return containsFold(p.Aesthetics, "athletic")
}

// isWearableAccessory gates the accessory slot: the catalog files phone cases
// and drinkware under Accessory, and those must never be assembled. Unknown
// accessory types are rejected too.
func isWearableAccessory(p *catalog.Product) bool {
	desc := strings.ToLower(p.Type)
	if desc == "" {
		desc = strings.ToLower(p.SubCategory)
	}
	if desc == "" {
		desc = strings.ToLower(p.Title)
	}
	if containsAnySubstring(desc, unwearableAccessoryTypes) {
		return false
	}
	return containsAnySubstring(desc, wearableAccessoryTypes)
}

// accessoryColorOK ties an accessory to the palette of the non-accessory
// items already in the look. A neutral accessory always passes; otherwise it
// must repeat a palette color (for neutral or monochrome palettes) or one of
// the accent colors (for an accent palette).
func accessoryColorOK(accessoryColor string, items map[string]*catalog.Product) bool {
	acc := normalizeColor(accessoryColor)
	if acc == "" || isNeutralColor(acc) {
		return true
	}

	palette := make(map[string]bool)
	var nonNeutral []string
	for slot, p := range items {
		if slot == SlotAccessory {
			continue
		}
		color := normalizeColor(p.PrimaryColor)
		if color == "" {
			continue
		}
		if !palette[color] && !isNeutralColor(color) {
			nonNeutral = append(nonNeutral, color)
		}
		palette[color] = true
	}
	if len(palette) == 0 {
		return true
	}

	// Fully neutral or single-color palette: the accessory must repeat a
	// palette color.
	if len(nonNeutral) == 0 || len(palette) == 1 {
		return palette[acc]
	}

	// Accent palette: the accessory must be one of the accent colors.
	for i := 0; i < len(nonNeutral); i++ {
		for j := i + 1; j < len(nonNeutral); j++ {
			if isAccentPair(nonNeutral[i], nonNeutral[j]) {
				return palette[acc]
			}
		}
	}

	return true
}
