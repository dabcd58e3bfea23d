// Package params wraps the untrusted query string of a search request.
package params

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// Recognized query parameter names.
const (
	Size               = "size"
	Start              = "start"
	Type               = "type"
	Sort               = "sort"
	Fields             = "fields"
	Query              = "q"
	DateStart          = "date_start"
	DateEnd            = "date_end"
	History            = "history"
	HistoryStart       = "history_start"
	GeoPoint           = "geo_point"
	GeoBoxTopLeft      = "geo_box_top_left"
	GeoBoxBottomRight  = "geo_box_bottom_right"
	GeoDistance        = "geo_distance"
	GeoSortPoint       = "geo_sort_point"
	GeoSortOrder       = "geo_sort_order"
	GeoSortUnit        = "geo_sort_unit"
	Pretty             = "pretty"
	geoSortParamPrefix = "geo_sort_"
)

var digitsRe = regexp.MustCompile(`^\d+$`)

// Params is a read-only view over request query parameters.
// Empty values are treated as absent.
type Params struct {
	values url.Values
}

// New wraps url.Values. The values are copied so later mutation of v is not observed.
func New(v url.Values) Params {
	cp := make(url.Values, len(v))
	for k, vs := range v {
		cp[k] = append([]string(nil), vs...)
	}
	return Params{values: cp}
}

// Parse builds Params from a raw query string such as "size=10&q=foo".
func Parse(raw string) (Params, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Params{}, err //nolint:wrapcheck // url errors are already descriptive
	}
	return Params{values: v}, nil
}

// Get returns the first value for key, or "".
func (p Params) Get(key string) string {
	return p.values.Get(key)
}

// Has reports whether key carries a non-empty value.
func (p Params) Has(key string) bool {
	return p.values.Get(key) != ""
}

// Int binds key as an integer. ok is false when the parameter is absent.
func (p Params) Int(key string) (n int, ok bool, err error) {
	if !p.Has(key) {
		return 0, false, nil
	}
	one := url.Values{key: {p.values.Get(key)}}
	if err := runtime.BindQueryParameter("form", true, false, key, one, &n); err != nil {
		return 0, true, err //nolint:wrapcheck // callers replace this with a client message
	}
	return n, true, nil
}

// Overflows reports whether key holds an unsigned integer that Int cannot bind.
func (p Params) Overflows(key string) bool {
	if !digitsRe.MatchString(p.Get(key)) {
		return false
	}
	_, _, err := p.Int(key)
	return err != nil
}

// List splits a comma-separated parameter, dropping blank entries.
func (p Params) List(key string) []string {
	raw := p.Get(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Pretty reports whether indented JSON output was requested.
// A bare "?pretty" counts; "false" and "0" do not.
func (p Params) Pretty() bool {
	vs, ok := p.values[Pretty]
	if !ok {
		return false
	}
	if len(vs) == 0 {
		return true
	}
	switch strings.ToLower(vs[0]) {
	case "false", "0":
		return false
	}
	return true
}

// HasGeoSort reports whether any geo_sort_* parameter is present.
func (p Params) HasGeoSort() bool {
	for k := range p.values {
		if strings.HasPrefix(k, geoSortParamPrefix) && p.Has(k) {
			return true
		}
	}
	return false
}

// Values returns a copy of the underlying values.
func (p Params) Values() url.Values {
	return New(p.values).values
}
