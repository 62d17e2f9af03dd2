package looks

import "errors"

var (
	// ErrAnchorNotFound is returned when the anchor sku does not exist in the
	// product catalog.
	ErrAnchorNotFound = errors.New("anchor product not found")

	// ErrStoreUnavailable is returned when a catalog store call fails or the
	// loaded data is too inconsistent to generate from.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrNoCandidates signals that no candidate survived validity filtering.
	// The service maps it to a successful response with zero looks.
	ErrNoCandidates = errors.New("no valid candidates for anchor")
)

// ErrInvalidRequest is returned when request parameters fail validation.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}
