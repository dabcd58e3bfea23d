// Package policy holds the static configuration bound to one search endpoint.
package policy

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
	"github.com/kailas-cloud/searchgate/internal/domain/search/daterange"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
	"github.com/kailas-cloud/searchgate/internal/domain/search/result"
)

// Defaults applied by Normalize.
const (
	DefaultSize      = 100
	DefaultMaxSize   = 100000
	DefaultDateField = "@timestamp"
	DefaultGeoField  = "location"
	DefaultTypeField = "type"
)

// SortPolicy controls which sorts an endpoint accepts.
type SortPolicy string

const (
	// SortAny accepts a sort on any field.
	SortAny SortPolicy = "any"
	// SortDateOnly accepts a sort on the date field only.
	SortDateOnly SortPolicy = "date_only"
	// SortNone ignores requested sorts and annotates the response.
	SortNone SortPolicy = "none"
)

// PreProcessor rewrites the compiled query before execution.
type PreProcessor func(q query.Compiled, p Policy) query.Compiled

// PostProcessor rewrites the mapped documents before the envelope is built.
type PostProcessor func(docs []result.Document) []result.Document

// Policy is the static, read-only configuration of one search endpoint.
// A Policy value is never modified after Normalize; reconfiguration replaces it.
type Policy struct {
	Name              string
	Index             string
	BaseQuery         map[string]any
	AllowedFields     []string
	DefaultSort       string
	Sort              SortPolicy
	DateField         string
	GeoField          string
	TypeField         string
	HistoryPrefix     string
	PreserveIndexName bool
	Lucene            bool
	DefaultSize       int
	MaxSize           int
	MaxHistoryDays    int
	WildcardPattern   *regexp.Regexp
	PreProcess        PreProcessor
	PostProcess       PostProcessor
}

// Normalize fills defaults and validates p.
func (p Policy) Normalize() (Policy, error) {
	if p.Name == "" {
		return Policy{}, fmt.Errorf("%w: name is required", domain.ErrInvalidPolicy)
	}
	if p.Index == "" {
		return Policy{}, fmt.Errorf("%w: endpoint %q: index is required", domain.ErrInvalidPolicy, p.Name)
	}
	if p.Sort == "" {
		p.Sort = SortAny
	}
	switch p.Sort {
	case SortAny, SortDateOnly, SortNone:
	default:
		return Policy{}, fmt.Errorf("%w: endpoint %q: unknown sort policy %q", domain.ErrInvalidPolicy, p.Name, p.Sort)
	}
	if p.DateField == "" {
		p.DateField = DefaultDateField
	}
	if p.GeoField == "" {
		p.GeoField = DefaultGeoField
	}
	if p.TypeField == "" {
		p.TypeField = DefaultTypeField
	}
	if p.HistoryPrefix == "" {
		p.HistoryPrefix = p.Index
	}
	if p.MaxSize <= 0 {
		p.MaxSize = DefaultMaxSize
	}
	if p.DefaultSize <= 0 {
		p.DefaultSize = min(DefaultSize, p.MaxSize)
	}
	if p.DefaultSize > p.MaxSize {
		return Policy{}, fmt.Errorf("%w: endpoint %q: default size %d exceeds max size %d",
			domain.ErrInvalidPolicy, p.Name, p.DefaultSize, p.MaxSize)
	}
	if p.MaxHistoryDays <= 0 {
		p.MaxHistoryDays = daterange.MaxHistoryDays
	}
	if p.DefaultSort != "" {
		if _, err := clause.ParseFieldSort(p.DefaultSort); err != nil {
			return Policy{}, fmt.Errorf("%w: endpoint %q: default sort: %w", domain.ErrInvalidPolicy, p.Name, err)
		}
	}
	return p, nil
}

// Sortable reports whether the endpoint honors requested sorts.
func (p Policy) Sortable() bool { return p.Sort != SortNone }

// Allows reports whether field is in the allowlist. An empty allowlist allows everything.
func (p Policy) Allows(field string) bool {
	if len(p.AllowedFields) == 0 {
		return true
	}
	for _, f := range p.AllowedFields {
		if f == field {
			return true
		}
	}
	return false
}
