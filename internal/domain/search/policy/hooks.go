package policy

import (
	"strings"

	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
	"github.com/kailas-cloud/searchgate/internal/domain/search/result"
)

// Hooks maps hook names used in configuration to their implementations.
type Hooks struct {
	Pre  map[string]PreProcessor
	Post map[string]PostProcessor
}

// MaxPageSize is the cap applied by the cap_page hook.
const MaxPageSize = 1000

// BuiltinHooks returns the hooks every deployment can reference by name.
func BuiltinHooks() Hooks {
	return Hooks{
		Pre: map[string]PreProcessor{
			"last_day": LastDay,
			"cap_page": CapPage,
		},
		Post: map[string]PostProcessor{
			"drop_private": DropPrivate,
		},
	}
}

// LastDay restricts queries without a date range on the date field to the last 24 hours.
func LastDay(q query.Compiled, p Policy) query.Compiled {
	for _, c := range q.Must {
		if r, ok := c.(clause.Range); ok && r.Field == p.DateField {
			return q
		}
	}
	return q.WithClause(clause.Range{Field: p.DateField, GTE: "now-1d"})
}

// CapPage limits the page size to MaxPageSize.
func CapPage(q query.Compiled, _ Policy) query.Compiled {
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

// DropPrivate removes underscore-prefixed keys from documents, keeping _index.
func DropPrivate(docs []result.Document) []result.Document {
	out := make([]result.Document, len(docs))
	for i, d := range docs {
		clean := make(result.Document, len(d))
		for k, v := range d {
			if strings.HasPrefix(k, "_") && k != "_index" {
				continue
			}
			clean[k] = v
		}
		out[i] = clean
	}
	return out
}
