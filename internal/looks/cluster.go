package looks

import (
	"sort"
	"strings"

	"github.com/lookbook/outfit-service/internal/catalog"
)

// DimensionClusterer groups the filtered candidate pool into clusters that
// agree with the anchor on one dimension value. Candidates may appear in any
// number of clusters.
type DimensionClusterer struct {
	cfg *Config
}

func NewDimensionClusterer(cfg *Config) *DimensionClusterer {
	return &DimensionClusterer{cfg: cfg}
}

// Cluster builds every viable cluster for the pool and returns them in
// selection order: occasion before aesthetic before color before formality,
// then mean anchor score descending, size descending, value ascending.
// Clusters whose members cover fewer than two distinct slots are dropped;
// they could never assemble a three-piece look around the anchor.
func (dc *DimensionClusterer) Cluster(anchor *catalog.Product, pool []*Candidate) []*Cluster {
	var clusters []*Cluster

	for _, occ := range dedupeFold(anchor.Occasions) {
		cl := buildCluster(DimensionOccasion, occ, pool, func(p *catalog.Product) bool {
			return containsFold(p.Occasions, occ)
		})
		if cl != nil {
			clusters = append(clusters, cl)
		}
	}

	for _, aes := range dedupeFold(anchor.Aesthetics) {
		cl := buildCluster(DimensionAesthetic, aes, pool, func(p *catalog.Product) bool {
			return containsFold(p.Aesthetics, aes)
		})
		if cl != nil {
			clusters = append(clusters, cl)
		}
	}

	anchorColor := normalizeColor(anchor.PrimaryColor)
	if anchorColor != "" {
		for _, strategy := range []string{ColorMonochrome, ColorNeutral, ColorAccent, ColorTonal} {
			cl := buildCluster(DimensionColor, strategy, pool, func(p *catalog.Product) bool {
				return matchesColorStrategy(strategy, anchorColor, p.PrimaryColor)
			})
			if cl != nil {
				clusters = append(clusters, cl)
			}
		}
	}

	if anchor.FormalityScore >= 1 && anchor.FormalityScore <= 5 {
		for v := anchor.FormalityScore - 1; v <= anchor.FormalityScore+1; v++ {
			if v < 1 || v > 5 {
				continue
			}
			score := v
			cl := buildCluster(DimensionFormality, formalityValue(score), pool, func(p *catalog.Product) bool {
				return p.FormalityScore == score
			})
			if cl != nil {
				clusters = append(clusters, cl)
			}
		}
	}

	sort.Slice(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if dimensionPriority[a.Dimension] != dimensionPriority[b.Dimension] {
			return dimensionPriority[a.Dimension] < dimensionPriority[b.Dimension]
		}
		if a.MeanScore != b.MeanScore {
			return a.MeanScore > b.MeanScore
		}
		if len(a.Members) != len(b.Members) {
			return len(a.Members) > len(b.Members)
		}
		return a.Value < b.Value
	})

	return clusters
}

// matchesColorStrategy reports whether a candidate color fits a color-cluster
// strategy relative to the anchor color.
func matchesColorStrategy(strategy, anchorColor, candidateColor string) bool {
	c := normalizeColor(candidateColor)
	if c == "" {
		return false
	}
	switch strategy {
	case ColorMonochrome:
		return c == anchorColor
	case ColorNeutral:
		return isNeutralColor(c)
	case ColorAccent:
		return isAccentPair(anchorColor, c)
	case ColorTonal:
		return sameHueFamily(anchorColor, c)
	default:
		return false
	}
}

// buildCluster collects matching candidates and returns nil when the group
// covers fewer than two distinct slots.
func buildCluster(dimension, value string, pool []*Candidate, match func(*catalog.Product) bool) *Cluster {
	var members []*Candidate
	for _, c := range pool {
		if match(c.Product) {
			members = append(members, c)
		}
	}

	slots := make(map[string]bool, len(members))
	for _, m := range members {
		slots[m.Slot] = true
	}
	if len(slots) < 2 {
		return nil
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		return members[i].Product.SKU < members[j].Product.SKU
	})

	var sum float64
	for _, m := range members {
		sum += m.Score
	}

	return &Cluster{
		Dimension: dimension,
		Value:     strings.ToLower(value),
		Members:   members,
		MeanScore: sum / float64(len(members)),
	}
}

func dedupeFold(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		k := strings.ToLower(strings.TrimSpace(v))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// ClusterSelector hands out clusters in order, skipping any whose members are
// already fully contained in an emitted look. That keeps successive looks from
// being rearrangements of the same items.
type ClusterSelector struct {
	queue   []*Cluster
	emitted []map[string]bool // sku sets of emitted looks
}

func NewClusterSelector(clusters []*Cluster) *ClusterSelector {
	return &ClusterSelector{queue: clusters}
}

// Next pops the first usable cluster, or nil when the queue is exhausted.
func (s *ClusterSelector) Next() *Cluster {
	for len(s.queue) > 0 {
		cl := s.queue[0]
		s.queue = s.queue[1:]
		if !s.subsumed(cl) {
			return cl
		}
	}
	return nil
}

// MarkEmitted records the sku set of a look accepted into the response.
func (s *ClusterSelector) MarkEmitted(look *Look) {
	set := make(map[string]bool, len(look.Items))
	for _, p := range look.Items {
		set[p.SKU] = true
	}
	s.emitted = append(s.emitted, set)
}

func (s *ClusterSelector) subsumed(cl *Cluster) bool {
	for _, set := range s.emitted {
		all := true
		for _, m := range cl.Members {
			if !set[m.Product.SKU] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
