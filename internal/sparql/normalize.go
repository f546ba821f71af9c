package sparql

import (
	"regexp"
	"strconv"
	"strings"

	"water-features-api/internal/models"
)

// entityBaseURL is where a normalized record points its source link.
const entityBaseURL = "https://www.wikidata.org/wiki/"

// pointPattern matches the WKT literal the endpoint uses for coordinates,
// longitude first.
var pointPattern = regexp.MustCompile(`^Point\(([-+0-9.eE]+) ([-+0-9.eE]+)\)$`)

// Normalize maps a raw result set onto canonical water-feature records.
// A missing or empty bindings container yields an empty slice, never an error.
func Normalize(rs ResultSet) []models.WaterFeature {
	features := make([]models.WaterFeature, 0, len(rs.Results.Bindings))
	for _, b := range rs.Results.Bindings {
		features = append(features, normalizeBinding(b))
	}
	return features
}

func normalizeBinding(b Binding) models.WaterFeature {
	id := entityID(b["item"].Value)
	f := models.WaterFeature{
		ID:        id,
		Name:      b["itemLabel"].Value,
		Category:  InferCategory(b["type"].Value),
		SourceURL: entityBaseURL + id,
	}

	if v, ok := b["coords"]; ok {
		f.Coordinates = parsePoint(v.Value)
	}
	if v, ok := b["region"]; ok {
		f.Region = stringPtr(v.Value)
	}
	if v, ok := b["width"]; ok {
		f.Width = parseFloat(v.Value)
	}
	if v, ok := b["length"]; ok {
		f.Length = parseFloat(v.Value)
	}
	if v, ok := b["area"]; ok {
		f.SurfaceArea = parseFloat(v.Value)
	}
	if v, ok := b["capacity"]; ok {
		f.Capacity = parseFloat(v.Value)
	}
	if v, ok := b["inception"]; ok {
		f.InceptionDate = stringPtr(v.Value)
	}
	if v, ok := b["description"]; ok {
		f.Description = stringPtr(v.Value)
	}
	return f
}

// InferCategory classifies a type label by substring. Check order matters:
// dam, reservoir and river are tested before the lake fallback, so a label
// holding several keywords resolves to the first one tested.
func InferCategory(typeLabel string) models.Category {
	l := strings.ToLower(typeLabel)
	switch {
	case strings.Contains(l, "dam"):
		return models.CategoryDam
	case strings.Contains(l, "reservoir"):
		return models.CategoryReservoir
	case strings.Contains(l, "river"):
		return models.CategoryRiver
	default:
		return models.CategoryLake
	}
}

// entityID is the final path segment of the subject URI.
func entityID(uri string) string {
	return uri[strings.LastIndex(uri, "/")+1:]
}

// parsePoint reads a "Point(<lon> <lat>)" literal; nil when the shape
// does not match. No bounds validation.
func parsePoint(s string) *models.Coordinates {
	m := pointPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	lon, errLon := strconv.ParseFloat(m[1], 64)
	lat, errLat := strconv.ParseFloat(m[2], 64)
	if errLon != nil || errLat != nil {
		return nil
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
