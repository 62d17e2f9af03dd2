package looks

import (
	"math"
	"time"
)

// Config holds the configuration for the look generator.
// It is loaded from environment variables or a config file.
type Config struct {
	// Cache settings
	CacheTTL      time.Duration `mapstructure:"cache_ttl" env:"CACHE_TTL" default:"300s"`
	CacheCapacity int           `mapstructure:"cache_capacity" env:"CACHE_CAPACITY" default:"2048"`

	// Candidate selection
	MinEdgeScore float64 `mapstructure:"min_edge_score" env:"MIN_EDGE_SCORE" default:"0.5"`

	// Request limits
	MaxLooks     int `mapstructure:"max_looks" env:"MAX_LOOKS" default:"10"`
	DefaultLooks int `mapstructure:"default_looks" env:"DEFAULT_LOOKS" default:"3"`

	// Validity rules
	StrictAesthetics         bool `mapstructure:"strict_aesthetics" env:"STRICT_AESTHETICS" default:"false"`
	FormalitySpread          int  `mapstructure:"formality_spread" env:"FORMALITY_SPREAD" default:"2"`
	IntraLookFormalitySpread int  `mapstructure:"intra_look_formality_spread" env:"INTRA_LOOK_FORMALITY_SPREAD" default:"2"`
	EmptyTagsMatchAll        bool `mapstructure:"empty_tags_match_all" env:"EMPTY_TAGS_MATCH_ALL" default:"true"`

	// Precomputed looks
	ServePrecomputed bool `mapstructure:"serve_precomputed" env:"SERVE_PRECOMPUTED" default:"false"`

	// Timeouts
	RequestTimeout time.Duration `mapstructure:"request_timeout" env:"REQUEST_TIMEOUT" default:"1s"`
	StoreTimeout   time.Duration `mapstructure:"store_timeout" env:"STORE_TIMEOUT" default:"300ms"`

	// Coherence weights (must sum to 1.0)
	WeightPairwise  float64 `mapstructure:"weight_pairwise" env:"WEIGHT_PAIRWISE" default:"0.5"`
	WeightDimension float64 `mapstructure:"weight_dimension" env:"WEIGHT_DIMENSION" default:"0.3"`
	WeightCoverage  float64 `mapstructure:"weight_coverage" env:"WEIGHT_COVERAGE" default:"0.2"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		CacheTTL:                 300 * time.Second,
		CacheCapacity:            2048,
		MinEdgeScore:             0.5,
		MaxLooks:                 10,
		DefaultLooks:             3,
		StrictAesthetics:         false,
		FormalitySpread:          2,
		IntraLookFormalitySpread: 2,
		EmptyTagsMatchAll:        true,
		ServePrecomputed:         false,
		RequestTimeout:           1 * time.Second,
		StoreTimeout:             300 * time.Millisecond,
		WeightPairwise:           0.5,
		WeightDimension:          0.3,
		WeightCoverage:           0.2,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return ErrInvalidConfig{Field: "cache_ttl", Reason: "must be positive"}
	}
	if c.CacheCapacity < 1 {
		return ErrInvalidConfig{Field: "cache_capacity", Reason: "must be at least 1"}
	}
	if c.MinEdgeScore < 0 || c.MinEdgeScore > 1 {
		return ErrInvalidConfig{Field: "min_edge_score", Reason: "must be between 0 and 1"}
	}
	if c.MaxLooks < 1 {
		return ErrInvalidConfig{Field: "max_looks", Reason: "must be at least 1"}
	}
	if c.DefaultLooks < 1 || c.DefaultLooks > c.MaxLooks {
		return ErrInvalidConfig{Field: "default_looks", Reason: "must be between 1 and max_looks"}
	}
	if c.FormalitySpread < 0 {
		return ErrInvalidConfig{Field: "formality_spread", Reason: "must be non-negative"}
	}
	if c.IntraLookFormalitySpread < 0 {
		return ErrInvalidConfig{Field: "intra_look_formality_spread", Reason: "must be non-negative"}
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidConfig{Field: "request_timeout", Reason: "must be positive"}
	}
	if c.StoreTimeout <= 0 || c.StoreTimeout > c.RequestTimeout {
		return ErrInvalidConfig{Field: "store_timeout", Reason: "must be positive and <= request_timeout"}
	}
	if c.WeightPairwise < 0 || c.WeightDimension < 0 || c.WeightCoverage < 0 {
		return ErrInvalidConfig{Field: "weight_pairwise", Reason: "weights must be non-negative"}
	}
	if math.Abs(c.WeightPairwise+c.WeightDimension+c.WeightCoverage-1.0) > 1e-9 {
		return ErrInvalidConfig{Field: "weight_pairwise", Reason: "weights must sum to 1.0"}
	}
	return nil
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}
