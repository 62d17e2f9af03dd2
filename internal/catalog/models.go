package catalog

// Product is a catalog item as stored in the products table. Tag slices
// (aesthetics, occasions, seasons) may be empty; FormalityScore 0 means the
// score was never assigned.
type Product struct {
	SKU             string
	Title           string
	Brand           string
	ImageURL        string
	Type            string
	Category        string
	SubCategory     string
	Gender          string
	PrimaryColor    string
	SecondaryColors []string
	DesignElements  []string
	StatementPiece  bool
	Slot            string
	Aesthetics      []string
	Occasions       []string
	Seasons         []string
	FormalityScore  int
	FormalityLevel  string
}

// Edge is a directed compatibility edge from one product to another.
// Score is in [0,1]; TargetSlot is the functional slot of the target product
// as recorded at scoring time.
type Edge struct {
	From       string
	To         string
	TargetSlot string
	Score      float64
}

// PairKey identifies an unordered product pair. Use NewPairKey so that
// (a,b) and (b,a) map to the same key.
type PairKey struct {
	A string
	B string
}

// NewPairKey returns the canonical key for a pair, smaller sku first.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// GraphStats summarizes the compatibility graph.
type GraphStats struct {
	TotalEdges     int64   `json:"totalEdges"`
	UniqueProducts int64   `json:"uniqueProducts"`
	AverageScore   float64 `json:"averageScore"`
	MinScore       float64 `json:"minScore"`
	MaxScore       float64 `json:"maxScore"`
}
