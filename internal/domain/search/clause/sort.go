package clause

import (
	"fmt"
	"strings"

	"github.com/olivere/elastic/v7"
)

// Sort orders search hits.
type Sort interface {
	Source() (any, error)
}

// Sort directions.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FieldSort orders by a single field.
type FieldSort struct {
	Field string
	Order string
}

// ParseFieldSort parses "field:asc" or "field:desc" (direction is case-insensitive).
func ParseFieldSort(s string) (FieldSort, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || parts[0] == "" {
		return FieldSort{}, fmt.Errorf("sort %q must have the form field:direction", s)
	}
	order := strings.ToLower(parts[1])
	if order != OrderAsc && order != OrderDesc {
		return FieldSort{}, fmt.Errorf("sort direction %q must be asc or desc", parts[1])
	}
	return FieldSort{Field: parts[0], Order: order}, nil
}

// String renders the sort as "field:order".
func (f FieldSort) String() string { return f.Field + ":" + f.Order }

// Source implements Sort.
func (f FieldSort) Source() (any, error) {
	return elastic.NewFieldSort(f.Field).Order(f.Order == OrderAsc).Source()
}

// GeoDistanceSort orders by distance from a point.
type GeoDistanceSort struct {
	Field string
	Point Point
	Order string
	Unit  string
}

// Source implements Sort.
func (g GeoDistanceSort) Source() (any, error) {
	return map[string]any{
		"_geo_distance": map[string]any{
			g.Field: g.Point.Source(),
			"order": g.Order,
			"unit":  g.Unit,
		},
	}, nil
}
