package sparql

import (
	"fmt"
	"strings"

	"water-features-api/internal/models"
)

// jurisdiction restricts every query to features located in Bulgaria.
const jurisdiction = "Q219"

// categoryEntities maps each category to its Wikidata class.
var categoryEntities = map[models.Category]string{
	models.CategoryLake:      "Q23397",
	models.CategoryDam:       "Q12323",
	models.CategoryReservoir: "Q131681",
	models.CategoryRiver:     "Q4022",
}

// sortKeys maps public sort field names onto projected variables.
var sortKeys = map[string]string{
	"name":        "?itemLabel",
	"width":       "?width",
	"length":      "?length",
	"surfaceArea": "?area",
	"capacity":    "?capacity",
	"inception":   "?inception",
}

// selectList projects the entity, its label and one representative value per
// optional attribute. It matches the GROUP BY in render.
var selectList = []string{
	"?item",
	"?itemLabel",
	"(SAMPLE(?classLabel) AS ?type)",
	"(SAMPLE(?coord) AS ?coords)",
	"(SAMPLE(?locLabel) AS ?region)",
	"(SAMPLE(?widthValue) AS ?width)",
	"(SAMPLE(?lengthValue) AS ?length)",
	"(SAMPLE(?areaValue) AS ?area)",
	"(SAMPLE(?capacityValue) AS ?capacity)",
	"(SAMPLE(?inceptionValue) AS ?inception)",
	"(SAMPLE(?desc) AS ?description)",
}

// optionalPatterns binds each attribute independently, so a feature missing
// one of them still produces a row.
var optionalPatterns = []string{
	"OPTIONAL { ?item wdt:P625 ?coord . }",
	"OPTIONAL { ?item wdt:P131+ ?loc . ?loc rdfs:label ?locLabel . FILTER(LANG(?locLabel) = \"en\") }",
	"OPTIONAL { ?item wdt:P2049 ?widthValue . }",
	"OPTIONAL { ?item wdt:P2043 ?lengthValue . }",
	"OPTIONAL { ?item wdt:P2046 ?areaValue . }",
	"OPTIONAL { ?item wdt:P2234 ?capacityValue . }",
	"OPTIONAL { ?item wdt:P571 ?inceptionValue . }",
	"OPTIONAL { ?item schema:description ?desc . FILTER(LANG(?desc) = \"en\") }",
}

// featureQuery accumulates clauses before rendering, so filter composition
// stays independent of text formatting.
type featureQuery struct {
	where   []string
	orderBy string
	limit   int
	offset  int
}

func (q *featureQuery) add(clauses ...string) {
	q.where = append(q.where, clauses...)
}

func (q *featureQuery) render() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selectList, " "))
	b.WriteString("\nWHERE {\n")
	for _, clause := range q.where {
		b.WriteString("  ")
		b.WriteString(clause)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	b.WriteString("GROUP BY ?item ?itemLabel\n")
	b.WriteString("ORDER BY ")
	b.WriteString(q.orderBy)
	b.WriteString("\n")
	fmt.Fprintf(&b, "LIMIT %d\n", q.limit)
	if q.offset > 0 {
		fmt.Fprintf(&b, "OFFSET %d\n", q.offset)
	}
	return b.String()
}

// BuildFeatureQuery renders the SPARQL text for one filter specification.
func BuildFeatureQuery(f models.FeatureFilter) string {
	q := &featureQuery{}

	q.add("?item wdt:P17 wd:" + jurisdiction + " .")
	q.add(categoryClause(f.Category))
	q.add("?item rdfs:label ?itemLabel .", "FILTER(LANG(?itemLabel) = \"en\")")
	q.add("?item wdt:P31 ?class .", "?class rdfs:label ?classLabel .", "FILTER(LANG(?classLabel) = \"en\")")
	q.add(optionalPatterns...)

	if f.Region != "" {
		q.add(fmt.Sprintf("FILTER(CONTAINS(LCASE(?locLabel), %s))", quote(strings.ToLower(f.Region))))
	}
	// A bound on an optional attribute also requires its presence: the FILTER
	// never holds for rows where the variable stayed unbound.
	if f.MinCapacity != nil {
		q.add(fmt.Sprintf("FILTER(?capacityValue >= %g)", *f.MinCapacity))
	}
	if f.MinSurfaceArea != nil {
		q.add(fmt.Sprintf("FILTER(?areaValue >= %g)", *f.MinSurfaceArea))
	}

	q.orderBy = orderClause(f.SortBy, f.SortDir)

	q.limit = f.Limit
	if q.limit <= 0 {
		q.limit = models.DefaultLimit
	}
	if f.Offset > 0 {
		q.offset = f.Offset
	}

	return q.render()
}

// BuildFeatureByIDQuery renders the SPARQL fetching a single entity by id.
func BuildFeatureByIDQuery(id string) string {
	q := &featureQuery{}

	q.add(fmt.Sprintf("VALUES ?item { wd:%s }", sanitizeEntityID(id)))
	q.add("?item rdfs:label ?itemLabel .", "FILTER(LANG(?itemLabel) = \"en\")")
	q.add("?item wdt:P31 ?class .", "?class rdfs:label ?classLabel .", "FILTER(LANG(?classLabel) = \"en\")")
	q.add(optionalPatterns...)

	q.orderBy = "ASC(?itemLabel)"
	q.limit = 1

	return q.render()
}

// categoryClause restricts matches to one category, or to the union of all
// four when the category is unset or unknown.
func categoryClause(c models.Category) string {
	if entity, ok := categoryEntities[c]; ok {
		return fmt.Sprintf("?item wdt:P31/wdt:P279* wd:%s .", entity)
	}
	union := make([]string, 0, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		union = append(union, fmt.Sprintf("{ ?item wdt:P31/wdt:P279* wd:%s . }", categoryEntities[cat]))
	}
	return strings.Join(union, " UNION ")
}

// orderClause maps the sort field onto a projected variable; unknown fields
// fall back to ordering by name.
func orderClause(field string, dir models.SortDirection) string {
	key, ok := sortKeys[field]
	if !ok {
		key = sortKeys["name"]
	}
	if dir == models.SortDesc {
		return fmt.Sprintf("DESC(%s)", key)
	}
	return fmt.Sprintf("ASC(%s)", key)
}

// quote renders s as a SPARQL string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}

// sanitizeEntityID strips anything that cannot occur in a Wikidata id, to
// keep request path segments from injecting query text.
func sanitizeEntityID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
