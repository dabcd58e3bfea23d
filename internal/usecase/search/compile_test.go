package search

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
)

var compileNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func compileRaw(t *testing.T, pol policy.Policy, raw string) query.Compiled {
	t.Helper()
	v, err := Validate(mustParams(t, raw), pol)
	if err != nil {
		t.Fatalf("Validate(%q): %v", raw, err)
	}
	return Compile(v, pol, compileNow)
}

func kinds(q query.Compiled) []string {
	out := make([]string, len(q.Must))
	for i, c := range q.Must {
		out[i] = string(c.Kind())
	}
	return out
}

func TestCompile_Defaults(t *testing.T) {
	q := compileRaw(t, mustPolicy(t, policy.Policy{Index: "logs"}), "")

	if q.Index != "logs" || q.IgnoreUnavailable {
		t.Errorf("index = %q ignore = %v", q.Index, q.IgnoreUnavailable)
	}
	if q.Size != 100 || q.From != 0 {
		t.Errorf("size/from = %d/%d", q.Size, q.From)
	}
	if len(q.Must) != 0 || q.Sort != nil {
		t.Errorf("unexpected clauses/sort: %v %v", q.Must, q.Sort)
	}

	body, err := q.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	raw, _ := json.Marshal(body["query"])
	if string(raw) != `{"bool":{"must":[]}}` {
		t.Errorf("query = %s", raw)
	}
}

func TestCompile_MustOrder(t *testing.T) {
	pol := mustPolicy(t, policy.Policy{
		Lucene:    true,
		BaseQuery: map[string]any{"exists": map[string]any{"field": "user"}},
	})
	raw := strings.Join([]string{
		"type=web",
		"geo_point=" + url.QueryEscape("10,20"),
		"geo_distance=5km",
		"date_start=2024-01-01",
		"q=" + url.QueryEscape("status:ok"),
	}, "&")

	q := compileRaw(t, pol, raw)

	want := []string{"raw", "query_string", "range", "geo_distance", "term"}
	if got := kinds(q); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("must order = %v, want %v", got, want)
	}
	if term, ok := q.Must[4].(clause.Term); !ok || term.Field != "type" || term.Value != "web" {
		t.Errorf("term = %+v", q.Must[4])
	}
}

func TestCompile_SortPriority(t *testing.T) {
	geoQuery := "geo_point=" + url.QueryEscape("10,20") + "&geo_distance=5km"
	tests := []struct {
		name   string
		policy policy.Policy
		raw    string
		want   string
	}{
		{name: "none", want: ""},
		{name: "default", policy: policy.Policy{DefaultSort: "@timestamp:desc"}, want: `{"@timestamp":{"order":"desc"}}`},
		{name: "request beats default", policy: policy.Policy{DefaultSort: "@timestamp:desc"}, raw: "sort=name:asc",
			want: `{"name":{"order":"asc"}}`},
		{name: "geo beats default", policy: policy.Policy{DefaultSort: "@timestamp:desc"}, raw: geoQuery,
			want: `{"_geo_distance":{"location":{"lat":"10","lon":"20"},"order":"asc","unit":"m"}}`},
		{name: "request beats geo", raw: geoQuery + "&sort=name:desc", want: `{"name":{"order":"desc"}}`},
		{name: "unsortable uses default", policy: policy.Policy{Sort: policy.SortNone, DefaultSort: "id:asc"},
			raw: "sort=name:desc", want: `{"id":{"order":"asc"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := compileRaw(t, mustPolicy(t, tt.policy), tt.raw)
			if tt.want == "" {
				if q.Sort != nil {
					t.Errorf("sort = %+v, want none", q.Sort)
				}
				return
			}
			if q.Sort == nil {
				t.Fatalf("sort missing, want %s", tt.want)
			}
			src, err := q.Sort.Source()
			if err != nil {
				t.Fatalf("Source: %v", err)
			}
			got, _ := json.Marshal(src)
			if string(got) != tt.want {
				t.Errorf("sort = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompile_SourceInclude(t *testing.T) {
	pol := mustPolicy(t, policy.Policy{AllowedFields: []string{"created"}})
	q := compileRaw(t, pol, "fields=created")
	if len(q.SourceInclude) != 1 || q.SourceInclude[0] != "created" {
		t.Errorf("SourceInclude = %v", q.SourceInclude)
	}
}

func TestCompile_History(t *testing.T) {
	pol := mustPolicy(t, policy.Policy{Index: "logs", HistoryPrefix: "logstash"})
	q := compileRaw(t, pol, "history=3&history_start=1")

	want := "logstash-2024.03.09*,logstash-2024.03.08*,logstash-2024.03.07*"
	if q.Index != want {
		t.Errorf("index = %q, want %q", q.Index, want)
	}
	if !q.IgnoreUnavailable {
		t.Error("expected IgnoreUnavailable")
	}
}

func TestCompile_PreProcessReplacesQuery(t *testing.T) {
	pol := mustPolicy(t, policy.Policy{
		PreProcess: func(q query.Compiled, p policy.Policy) query.Compiled {
			q.Index = p.Index + "-rewritten"
			q.Size = 1
			return q.WithClause(clause.Term{Field: "tenant", Value: p.Name})
		},
	})

	q := compileRaw(t, pol, "size=50")

	if q.Index != "docs-rewritten" || q.Size != 1 {
		t.Errorf("hook result not used: %+v", q)
	}
	if got := kinds(q); len(got) != 1 || got[0] != "term" {
		t.Errorf("must = %v", got)
	}
}

func TestCompile_BuiltinHooks(t *testing.T) {
	hooks := policy.BuiltinHooks()
	pol := mustPolicy(t, policy.Policy{PreProcess: hooks.Pre["last_day"]})

	q := compileRaw(t, pol, "")
	r, ok := q.Must[0].(clause.Range)
	if !ok || r.GTE != "now-1d" || r.Field != "@timestamp" {
		t.Errorf("last_day clause = %+v", q.Must)
	}

	q = compileRaw(t, pol, "date_start=2024-01-01")
	if len(q.Must) != 1 {
		t.Errorf("last_day must not add a second range: %v", kinds(q))
	}
}
