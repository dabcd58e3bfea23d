// Package clause defines the AND-combined building blocks of a compiled search.
//
// Every clause and sort renders its search DSL fragment through Source, which
// makes them usable anywhere the Elasticsearch client expects a Query or Sorter.
// Term, range, query_string, raw and field sorts delegate to the elastic
// builders. Geo pieces are rendered here because they keep the caller's
// coordinate text as-is.
package clause

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/olivere/elastic/v7"
)

// Kind tags a Clause variant.
type Kind string

const (
	// KindRaw is an endpoint-supplied query object passed through as-is.
	KindRaw Kind = "raw"
	// KindTerm is an exact-match term query.
	KindTerm Kind = "term"
	// KindRange is a range query with inclusive bounds.
	KindRange Kind = "range"
	// KindGeoBoundingBox is a geo_bounding_box query.
	KindGeoBoundingBox Kind = "geo_bounding_box"
	// KindGeoDistance is a geo_distance query.
	KindGeoDistance Kind = "geo_distance"
	// KindQueryString is a free-text query_string query.
	KindQueryString Kind = "query_string"
)

// Clause is one boolean "must" component of a compiled search.
type Clause interface {
	Kind() Kind
	Source() (any, error)
}

// Point is a latitude/longitude pair kept in its textual form.
type Point struct {
	Lat string
	Lon string
}

// Source renders the point as {"lat": .., "lon": ..}.
func (p Point) Source() map[string]any {
	return map[string]any{
		"lat": strings.TrimSpace(p.Lat),
		"lon": strings.TrimSpace(p.Lon),
	}
}

// Raw is a pre-built query object from endpoint policy.
type Raw struct {
	Body map[string]any
}

// Kind implements Clause.
func (Raw) Kind() Kind { return KindRaw }

// Source implements Clause.
func (r Raw) Source() (any, error) {
	if len(r.Body) == 0 {
		return nil, errors.New("raw clause: empty body")
	}
	b, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("raw clause: %w", err)
	}
	return elastic.NewRawStringQuery(string(b)).Source()
}

// Term matches a field exactly.
type Term struct {
	Field string
	Value string
}

// Kind implements Clause.
func (Term) Kind() Kind { return KindTerm }

// Source implements Clause.
func (t Term) Source() (any, error) {
	return elastic.NewTermQuery(t.Field, t.Value).Source()
}

// Range bounds a field with gte and an optional lte.
type Range struct {
	Field string
	GTE   string
	LTE   string
}

// Kind implements Clause.
func (Range) Kind() Kind { return KindRange }

// Source implements Clause.
func (r Range) Source() (any, error) {
	q := elastic.NewRangeQuery(r.Field)
	if r.GTE != "" {
		q = q.Gte(r.GTE)
	}
	if r.LTE != "" {
		q = q.Lte(r.LTE)
	}
	return q.Source()
}

// GeoBoundingBox restricts a geo field to a box.
type GeoBoundingBox struct {
	Field       string
	TopLeft     Point
	BottomRight Point
}

// Kind implements Clause.
func (GeoBoundingBox) Kind() Kind { return KindGeoBoundingBox }

// Source implements Clause.
func (g GeoBoundingBox) Source() (any, error) {
	return map[string]any{
		"geo_bounding_box": map[string]any{
			g.Field: map[string]any{
				"top_left":     g.TopLeft.Source(),
				"bottom_right": g.BottomRight.Source(),
			},
		},
	}, nil
}

// GeoDistance restricts a geo field to a radius around a point.
type GeoDistance struct {
	Field    string
	Point    Point
	Distance string
}

// Kind implements Clause.
func (GeoDistance) Kind() Kind { return KindGeoDistance }

// Source implements Clause.
func (g GeoDistance) Source() (any, error) {
	return map[string]any{
		"geo_distance": map[string]any{
			"distance": g.Distance,
			g.Field:    g.Point.Source(),
		},
	}, nil
}

// QueryString is a Lucene-syntax free-text query.
type QueryString struct {
	Query string
}

// Kind implements Clause.
func (QueryString) Kind() Kind { return KindQueryString }

// Source implements Clause.
func (q QueryString) Source() (any, error) {
	return elastic.NewQueryStringQuery(q.Query).Source()
}
