// Package geo parses geo parameters and builds geo clauses and distance sorts.
package geo

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
)

// Defaults for the _geo_distance sort.
const (
	DefaultSortOrder = clause.OrderAsc
	DefaultSortUnit  = "m"
)

// Units lists the accepted distance units.
var Units = []string{"mi", "yd", "ft", "km", "m"}

var distanceRe = regexp.MustCompile(`^\d+(mi|yd|ft|km|m)$`)

// Result is the outcome of a geo search: exactly one clause and an optional sort.
type Result struct {
	Clause clause.Clause
	Sort   clause.Sort
}

// CreateGeoPoint splits "lat,lon" into its two raw pieces.
// An empty slice means the text is not a usable point.
//
// Range checks follow loose string-to-number comparison: each piece is read
// as a number after trimming, an empty piece reads as 0, and a piece that is
// not a number never fails a range check.
func CreateGeoPoint(text string) []string {
	pieces := strings.Split(text, ",")
	if len(pieces) != 2 {
		return []string{}
	}
	lat := looseNumber(pieces[0])
	if lat < -90 || lat > 90 {
		return []string{}
	}
	lon := looseNumber(pieces[1])
	if lon < -180 || lon > 180 {
		return []string{}
	}
	return pieces
}

// looseNumber reads s the way a relational comparison against a number would.
// NaN compares false against everything.
func looseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ValidGeoDistance reports whether text is digits immediately followed by a unit.
func ValidGeoDistance(text string) bool {
	return distanceRe.MatchString(text)
}

func validUnit(u string) bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

func toPoint(pieces []string) clause.Point {
	return clause.Point{Lat: pieces[0], Lon: pieces[1]}
}

// Search builds the geo clause for a request. It returns nil, nil when no box
// or distance parameter is present; geo_sort_* alone is ignored. userSort is the caller's explicit sort; when set, the
// distance sort is suppressed in its favor.
func Search(p params.Params, field, userSort string) (*Result, error) {
	hasBox := p.Has(params.GeoBoxTopLeft) || p.Has(params.GeoBoxBottomRight)
	hasDistance := p.Has(params.GeoPoint) || p.Has(params.GeoDistance)

	switch {
	case hasBox && hasDistance:
		return nil, domain.NewConflict("geo_box and geo_distance queries can not be combined.")
	case hasBox:
		return boxSearch(p, field, userSort)
	case hasDistance:
		return distanceSearch(p, field, userSort)
	default:
		return nil, nil
	}
}

func boxSearch(p params.Params, field, userSort string) (*Result, error) {
	topLeft := CreateGeoPoint(p.Get(params.GeoBoxTopLeft))
	if !p.Has(params.GeoBoxTopLeft) || len(topLeft) == 0 {
		return nil, domain.NewValidation("Invalid geo_box_top_left. Must be of the form 'lat,lon'.")
	}
	bottomRight := CreateGeoPoint(p.Get(params.GeoBoxBottomRight))
	if !p.Has(params.GeoBoxBottomRight) || len(bottomRight) == 0 {
		return nil, domain.NewValidation("Invalid geo_box_bottom_right. Must be of the form 'lat,lon'.")
	}
	if p.HasGeoSort() && !p.Has(params.GeoSortPoint) {
		return nil, domain.NewConflict("geo_sort_point is required when sorting a geo_box query.")
	}

	res := &Result{Clause: clause.GeoBoundingBox{
		Field:       field,
		TopLeft:     toPoint(topLeft),
		BottomRight: toPoint(bottomRight),
	}}
	if !p.Has(params.GeoSortPoint) || userSort != "" {
		return res, nil
	}
	sort, err := distanceSort(p, field, nil)
	if err != nil {
		return nil, err
	}
	res.Sort = sort
	return res, nil
}

func distanceSearch(p params.Params, field, userSort string) (*Result, error) {
	if !p.Has(params.GeoPoint) || !p.Has(params.GeoDistance) {
		return nil, domain.NewConflict("geo_point and geo_distance must both be provided.")
	}
	point := CreateGeoPoint(p.Get(params.GeoPoint))
	if len(point) == 0 {
		return nil, domain.NewValidation("Invalid geo_point. Must be of the form 'lat,lon'.")
	}
	distance := p.Get(params.GeoDistance)
	if !ValidGeoDistance(distance) {
		return nil, domain.NewValidation(
			"Invalid geo_distance. Must be a number followed by one of: " + strings.Join(Units, ", ") + ".")
	}

	res := &Result{Clause: clause.GeoDistance{
		Field:    field,
		Point:    toPoint(point),
		Distance: distance,
	}}
	if userSort != "" {
		return res, nil
	}
	sort, err := distanceSort(p, field, point)
	if err != nil {
		return nil, err
	}
	res.Sort = sort
	return res, nil
}

// distanceSort builds the _geo_distance sort. fallback is used when no
// geo_sort_point is given.
func distanceSort(p params.Params, field string, fallback []string) (clause.Sort, error) {
	point := fallback
	if p.Has(params.GeoSortPoint) {
		point = CreateGeoPoint(p.Get(params.GeoSortPoint))
		if len(point) == 0 {
			return nil, domain.NewValidation("Invalid geo_sort_point. Must be of the form 'lat,lon'.")
		}
	}

	order := DefaultSortOrder
	if p.Has(params.GeoSortOrder) {
		order = strings.ToLower(p.Get(params.GeoSortOrder))
		if order != clause.OrderAsc && order != clause.OrderDesc {
			return nil, domain.NewValidation("geo_sort_order must be 'asc' or 'desc'.")
		}
	}

	unit := DefaultSortUnit
	if p.Has(params.GeoSortUnit) {
		unit = p.Get(params.GeoSortUnit)
		if !validUnit(unit) {
			return nil, domain.NewValidation("geo_sort_unit must be one of: " + strings.Join(Units, ", ") + ".")
		}
	}

	return clause.GeoDistanceSort{
		Field: field,
		Point: toPoint(point),
		Order: order,
		Unit:  unit,
	}, nil
}
