package looks

import "github.com/lookbook/outfit-service/internal/catalog"

// product builds a minimal catalog product for tests.
func product(sku, slot, color string, formality int) *catalog.Product {
	return &catalog.Product{
		SKU:            sku,
		Title:          sku,
		Slot:           slot,
		PrimaryColor:   color,
		FormalityScore: formality,
	}
}

func withOccasions(p *catalog.Product, occasions ...string) *catalog.Product {
	p.Occasions = occasions
	return p
}

func withAesthetics(p *catalog.Product, aesthetics ...string) *catalog.Product {
	p.Aesthetics = aesthetics
	return p
}

func withSeasons(p *catalog.Product, seasons ...string) *catalog.Product {
	p.Seasons = seasons
	return p
}

func candidate(p *catalog.Product, score float64) *Candidate {
	return &Candidate{Product: p, Score: score, Slot: normalizeSlot(p.Slot)}
}

// pairTable builds a pair-score map from sku triples.
func pairTable(entries ...any) map[catalog.PairKey]float64 {
	pairs := make(map[catalog.PairKey]float64)
	for i := 0; i < len(entries); i += 3 {
		a := entries[i].(string)
		b := entries[i+1].(string)
		score := entries[i+2].(float64)
		pairs[catalog.NewPairKey(a, b)] = score
	}
	return pairs
}
