package models

import "strings"

// Category represents the kind of a water feature
type Category string

const (
	CategoryLake      Category = "LAKE"
	CategoryDam       Category = "DAM"
	CategoryReservoir Category = "RESERVOIR"
	CategoryRiver     Category = "RIVER"
)

// AllCategories lists every known category in a stable order.
var AllCategories = []Category{
	CategoryLake,
	CategoryDam,
	CategoryReservoir,
	CategoryRiver,
}

// IsValid reports whether c is one of the four known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryLake, CategoryDam, CategoryReservoir, CategoryRiver:
		return true
	}
	return false
}

// ParseCategory maps a raw request value ("dam", "DAM") to a Category.
// ok is false for values outside the fixed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c.IsValid() {
		return c, true
	}
	return "", false
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WaterFeature is the canonical record for one lake, dam, reservoir or river.
// Optional fields are pointers so that a legitimate zero value is
// distinguishable from an absent one.
type WaterFeature struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Category      Category     `json:"category"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	Region        *string      `json:"region,omitempty"`
	Width         *float64     `json:"width,omitempty"`
	Length        *float64     `json:"length,omitempty"`
	SurfaceArea   *float64     `json:"surfaceArea,omitempty"`
	Capacity      *float64     `json:"capacity,omitempty"`
	InceptionDate *string      `json:"inceptionDate,omitempty"`
	SourceURL     string       `json:"sourceUrl"`
	Description   *string      `json:"description,omitempty"`
}
