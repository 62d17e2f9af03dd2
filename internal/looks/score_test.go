package looks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbook/outfit-service/internal/catalog"
)

func TestEdgeScoreSymmetric(t *testing.T) {
	anchor := product("TOP_1", "Base Top", "black", 1)
	scorer := NewCoherenceScorer(Defaults(), anchor, pairTable("A", "B", 0.8))

	assert.Equal(t, 0.8, scorer.EdgeScore("A", "B"))
	assert.Equal(t, 0.8, scorer.EdgeScore("B", "A"))
	assert.Equal(t, 0.0, scorer.EdgeScore("A", "C"))
}

func TestIncrementCombinesEdgeAndDimension(t *testing.T) {
	anchor := withOccasions(product("TOP_1", "Base Top", "black", 1), "Gym")
	pant := withOccasions(product("PANT_1", "Primary Bottom", "black", 1), "Gym")
	shoe := product("SHOE_1", "Footwear", "white", 1) // not gym

	scorer := NewCoherenceScorer(Defaults(), anchor, pairTable(
		"TOP_1", "SHOE_1", 0.9,
		"PANT_1", "SHOE_1", 0.7,
	))
	cluster := &Cluster{Dimension: DimensionOccasion, Value: "gym"}

	items := map[string]*catalog.Product{
		SlotBaseTop:       anchor,
		SlotPrimaryBottom: pant,
	}

	// Mean edge score (0.9+0.7)/2 = 0.8; two of three items share "gym"
	// after the addition, so the bonus is 0.3 * 2/3.
	inc := scorer.Increment(candidate(shoe, 0.5), items, cluster)
	assert.InDelta(t, 0.8+0.3*(2.0/3.0), inc, 1e-9)
}

func TestLookScoreFormula(t *testing.T) {
	anchor := withOccasions(product("TOP_1", "Base Top", "black", 1), "Gym")
	pant := withOccasions(product("PANT_1", "Primary Bottom", "black", 1), "Gym")
	shoe := withOccasions(product("SHOE_1", "Footwear", "white", 1), "Gym")

	scorer := NewCoherenceScorer(Defaults(), anchor, pairTable(
		"TOP_1", "PANT_1", 0.9,
		"TOP_1", "SHOE_1", 0.8,
		"PANT_1", "SHOE_1", 0.7,
	))
	cluster := &Cluster{Dimension: DimensionOccasion, Value: "gym"}

	look := &Look{
		Items: map[string]*catalog.Product{
			SlotBaseTop:       anchor,
			SlotPrimaryBottom: pant,
			SlotFootwear:      shoe,
		},
		SlotsFilled: []string{SlotBaseTop, SlotPrimaryBottom, SlotFootwear},
	}

	// 0.5*0.8 + 0.3*1.0 + 0.2*(3/6) = 0.8
	assert.Equal(t, 0.8, scorer.LookScore(look, cluster))
}

func TestLookScoreRoundsToThreeDecimals(t *testing.T) {
	anchor := withOccasions(product("TOP_1", "Base Top", "black", 1), "Gym")
	pant := product("PANT_1", "Primary Bottom", "black", 1) // not gym

	scorer := NewCoherenceScorer(Defaults(), anchor, pairTable(
		"TOP_1", "PANT_1", 0.777,
	))
	cluster := &Cluster{Dimension: DimensionOccasion, Value: "gym"}

	look := &Look{
		Items: map[string]*catalog.Product{
			SlotBaseTop:       anchor,
			SlotPrimaryBottom: pant,
		},
		SlotsFilled: []string{SlotBaseTop, SlotPrimaryBottom},
	}

	// 0.5*0.777 + 0.3*0.5 + 0.2*(2/6) = 0.60516... -> 0.605
	assert.Equal(t, 0.605, scorer.LookScore(look, cluster))
}

func TestLookScoreColorAgreement(t *testing.T) {
	anchor := product("TOP_1", "Base Top", "red", 1)
	pant := product("PANT_1", "Primary Bottom", "black", 1)
	shoe := product("SHOE_1", "Footwear", "green", 1)

	scorer := NewCoherenceScorer(Defaults(), anchor, pairTable(
		"TOP_1", "PANT_1", 0.6,
		"TOP_1", "SHOE_1", 0.6,
		"PANT_1", "SHOE_1", 0.6,
	))
	cluster := &Cluster{Dimension: DimensionColor, Value: ColorNeutral}

	look := &Look{
		Items: map[string]*catalog.Product{
			SlotBaseTop:       anchor,
			SlotPrimaryBottom: pant,
			SlotFootwear:      shoe,
		},
		SlotsFilled: []string{SlotBaseTop, SlotPrimaryBottom, SlotFootwear},
	}

	// The anchor always anchors its color strategy; black is neutral,
	// green is not: agreement 2/3.
	// 0.5*0.6 + 0.3*(2/3) + 0.2*(3/6) = 0.6
	assert.Equal(t, 0.6, scorer.LookScore(look, cluster))
}
