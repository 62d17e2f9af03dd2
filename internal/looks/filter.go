package looks

import "github.com/lookbook/outfit-service/internal/catalog"

// ValidityFilter removes candidates that can never appear in a look with the
// anchor, before any clustering or assembly happens.
type ValidityFilter struct {
	cfg *Config
}

func NewValidityFilter(cfg *Config) *ValidityFilter {
	return &ValidityFilter{cfg: cfg}
}

// Filter returns the candidates compatible with the anchor, preserving input
// order. The input slice is not modified.
func (f *ValidityFilter) Filter(anchor *catalog.Product, candidates []*Candidate) []*Candidate {
	out := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if f.Valid(anchor, c.Product) {
			out = append(out, c)
		}
	}
	return out
}

// Valid reports whether a single product can coexist with the anchor.
func (f *ValidityFilter) Valid(anchor, p *catalog.Product) bool {
	if normalizeSlot(p.Slot) == normalizeSlot(anchor.Slot) {
		return false
	}
	if !f.tagsCompatible(anchor.Occasions, p.Occasions) {
		return false
	}
	if !f.tagsCompatible(anchor.Seasons, p.Seasons) {
		return false
	}
	// Formality 0 means unscored; unscored items skip the gap check.
	if anchor.FormalityScore > 0 && p.FormalityScore > 0 {
		gap := anchor.FormalityScore - p.FormalityScore
		if gap < 0 {
			gap = -gap
		}
		if gap > f.cfg.FormalitySpread {
			return false
		}
	}
	if f.cfg.StrictAesthetics {
		if len(anchor.Aesthetics) > 0 && len(p.Aesthetics) > 0 &&
			!hasOverlapFold(anchor.Aesthetics, p.Aesthetics) {
			return false
		}
	}
	return true
}

// tagsCompatible applies the overlap rule for occasion/season tag sets.
// An empty set matches everything when empty_tags_match_all is on; with the
// flag off an empty set matches nothing.
func (f *ValidityFilter) tagsCompatible(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return f.cfg.EmptyTagsMatchAll
	}
	return hasOverlapFold(a, b)
}
