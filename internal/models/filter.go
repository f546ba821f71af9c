package models

// SortDirection controls result ordering in a feature listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	// DefaultLimit is the page size applied when a listing does not ask for one.
	DefaultLimit = 50
	// MaxLimit caps the page size a single request may ask for.
	MaxLimit = 200
)

// FeatureFilter carries the parameters of one feature listing request.
// Min bounds are pointers: nil means unset, a pointer to 0 is a real bound.
type FeatureFilter struct {
	Category       Category
	Region         string
	MinCapacity    *float64
	MinSurfaceArea *float64
	SortBy         string
	SortDir        SortDirection
	Limit          int
	Offset         int
}
