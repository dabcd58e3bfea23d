package clause

import (
	"encoding/json"
	"testing"
)

func render(t *testing.T, src func() (any, error)) string {
	t.Helper()
	v, err := src()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestClauseSources(t *testing.T) {
	tests := []struct {
		name string
		c    Clause
		kind Kind
		want string
	}{
		{"raw", Raw{Body: map[string]any{"match_all": map[string]any{}}}, KindRaw, `{"match_all":{}}`},
		{"term", Term{Field: "type", Value: "event"}, KindTerm, `{"term":{"type":"event"}}`},
		{"range", Range{Field: "created", GTE: "2015-01-01", LTE: "2015-02-01"}, KindRange,
			`{"range":{"created":{"from":"2015-01-01","include_lower":true,"include_upper":true,"to":"2015-02-01"}}}`},
		{"box", GeoBoundingBox{
			Field:       "location",
			TopLeft:     Point{Lat: "40", Lon: "-80"},
			BottomRight: Point{Lat: "30", Lon: " -70"},
		}, KindGeoBoundingBox,
			`{"geo_bounding_box":{"location":{"bottom_right":{"lat":"30","lon":"-70"},"top_left":{"lat":"40","lon":"-80"}}}}`},
		{"distance", GeoDistance{Field: "location", Point: Point{Lat: "1", Lon: "2"}, Distance: "5km"},
			KindGeoDistance, `{"geo_distance":{"distance":"5km","location":{"lat":"1","lon":"2"}}}`},
		{"query string", QueryString{Query: "name:bob"}, KindQueryString, `{"query_string":{"query":"name:bob"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.c.Kind() != tc.kind {
				t.Errorf("Kind() = %s, want %s", tc.c.Kind(), tc.kind)
			}
			if got := render(t, tc.c.Source); got != tc.want {
				t.Errorf("Source = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseFieldSort(t *testing.T) {
	s, err := ParseFieldSort("created:DESC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Field != "created" || s.Order != OrderDesc {
		t.Errorf("unexpected sort: %+v", s)
	}
	if s.String() != "created:desc" {
		t.Errorf("String() = %q", s.String())
	}
	if got := render(t, s.Source); got != `{"created":{"order":"desc"}}` {
		t.Errorf("Source = %s", got)
	}

	for _, bad := range []string{"created", "created:up", "a:b:asc", ":asc", ""} {
		if _, err := ParseFieldSort(bad); err == nil {
			t.Errorf("ParseFieldSort(%q) expected error", bad)
		}
	}
}

func TestGeoDistanceSortSource(t *testing.T) {
	s := GeoDistanceSort{Field: "location", Point: Point{Lat: "1", Lon: "2"}, Order: OrderAsc, Unit: "m"}
	want := `{"_geo_distance":{"location":{"lat":"1","lon":"2"},"order":"asc","unit":"m"}}`
	if got := render(t, s.Source); got != want {
		t.Errorf("Source = %s, want %s", got, want)
	}
}
