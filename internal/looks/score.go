package looks

import (
	"math"

	"github.com/lookbook/outfit-service/internal/catalog"
)

// CoherenceScorer computes edge-based and dimension-based coherence for one
// generation request. It holds the request-local pair-score table so assembly
// never goes back to the store.
type CoherenceScorer struct {
	cfg    *Config
	anchor *catalog.Product

	anchorColor string
	pairs       map[catalog.PairKey]float64
}

func NewCoherenceScorer(cfg *Config, anchor *catalog.Product, pairs map[catalog.PairKey]float64) *CoherenceScorer {
	return &CoherenceScorer{
		cfg:         cfg,
		anchor:      anchor,
		anchorColor: normalizeColor(anchor.PrimaryColor),
		pairs:       pairs,
	}
}

// EdgeScore returns the compatibility score between two skus, 0 when no edge
// exists in either direction.
func (s *CoherenceScorer) EdgeScore(a, b string) float64 {
	return s.pairs[catalog.NewPairKey(a, b)]
}

// Increment scores adding a candidate to a partially built look: the mean
// edge score against every item already in the look, plus the dimension
// weight scaled by the share of items that would agree with the cluster
// value after the addition.
func (s *CoherenceScorer) Increment(c *Candidate, items map[string]*catalog.Product, cluster *Cluster) float64 {
	var sum float64
	for _, p := range items {
		sum += s.EdgeScore(c.Product.SKU, p.SKU)
	}
	mean := sum / float64(len(items))

	agreeing := 0
	total := len(items) + 1
	for _, p := range items {
		if s.sharesValue(p, cluster) {
			agreeing++
		}
	}
	if s.sharesValue(c.Product, cluster) {
		agreeing++
	}
	bonus := float64(agreeing) / float64(total)

	return mean + s.cfg.WeightDimension*bonus
}

// LookScore computes the final coherence of an assembled look:
// weighted mean pairwise edge score, dimension agreement and slot coverage,
// clamped to [0,1] and rounded to three decimals.
func (s *CoherenceScorer) LookScore(look *Look, cluster *Cluster) float64 {
	skus := look.skus()

	var pairSum float64
	pairCount := 0
	for i := 0; i < len(skus); i++ {
		for j := i + 1; j < len(skus); j++ {
			pairSum += s.EdgeScore(skus[i], skus[j])
			pairCount++
		}
	}
	meanPairwise := 0.0
	if pairCount > 0 {
		meanPairwise = pairSum / float64(pairCount)
	}

	agreeing := 0
	for _, p := range look.Items {
		if s.sharesValue(p, cluster) {
			agreeing++
		}
	}
	agreement := float64(agreeing) / float64(len(look.Items))

	coverage := float64(len(look.Items)) / float64(len(allSlots))

	score := s.cfg.WeightPairwise*meanPairwise +
		s.cfg.WeightDimension*agreement +
		s.cfg.WeightCoverage*coverage

	score = math.Round(score*1000) / 1000
	return math.Min(1, math.Max(0, score))
}

// sharesValue reports whether a product agrees with the cluster's dimension
// value. For color clusters agreement means fitting the strategy relative to
// the anchor color.
func (s *CoherenceScorer) sharesValue(p *catalog.Product, cluster *Cluster) bool {
	switch cluster.Dimension {
	case DimensionOccasion:
		return containsFold(p.Occasions, cluster.Value)
	case DimensionAesthetic:
		return containsFold(p.Aesthetics, cluster.Value)
	case DimensionFormality:
		return p.FormalityScore > 0 && formalityValue(p.FormalityScore) == cluster.Value
	case DimensionColor:
		if p.SKU == s.anchor.SKU {
			return true
		}
		return matchesColorStrategy(cluster.Value, s.anchorColor, p.PrimaryColor)
	default:
		return false
	}
}
