package config

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
)

// Policies converts the endpoints section into normalized policies. Search
// defaults fill sizes and history limits an endpoint leaves unset; hook names
// are resolved against hooks.
func (c *Config) Policies(hooks policy.Hooks) ([]policy.Policy, error) {
	out := make([]policy.Policy, 0, len(c.Endpoints))
	for i, e := range c.Endpoints {
		p, err := e.policy(c.Search, hooks)
		if err != nil {
			return nil, fmt.Errorf("endpoints[%d] (%s): %w", i, e.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (e EndpointConfig) policy(defaults SearchConfig, hooks policy.Hooks) (policy.Policy, error) {
	p := policy.Policy{
		Name:              e.Name,
		Index:             e.Index,
		BaseQuery:         e.BaseQuery,
		AllowedFields:     e.AllowedFields,
		DefaultSort:       e.DefaultSort,
		Sort:              policy.SortPolicy(e.Sort),
		DateField:         e.DateField,
		GeoField:          e.GeoField,
		TypeField:         e.TypeField,
		HistoryPrefix:     e.HistoryPrefix,
		PreserveIndexName: e.PreserveIndexName,
		Lucene:            e.Lucene,
		MaxSize:           orDefault(e.MaxSize, defaults.MaxSize),
		MaxHistoryDays:    orDefault(e.MaxHistoryDays, defaults.MaxHistoryDays),
	}

	// An endpoint that lowers max_size without a default_size gets a capped default.
	p.DefaultSize = e.DefaultSize
	if p.DefaultSize <= 0 {
		p.DefaultSize = min(defaults.DefaultSize, p.MaxSize)
	}

	if e.WildcardPattern != "" {
		re, err := regexp.Compile(e.WildcardPattern)
		if err != nil {
			return policy.Policy{}, fmt.Errorf("wildcard_pattern: %w", err)
		}
		p.WildcardPattern = re
	}

	if e.PreProcess != "" {
		h, ok := hooks.Pre[e.PreProcess]
		if !ok {
			return policy.Policy{}, fmt.Errorf("unknown pre_process hook %q", e.PreProcess)
		}
		p.PreProcess = h
	}
	if e.PostProcess != "" {
		h, ok := hooks.Post[e.PostProcess]
		if !ok {
			return policy.Policy{}, fmt.Errorf("unknown post_process hook %q", e.PostProcess)
		}
		p.PostProcess = h
	}

	return p.Normalize()
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
