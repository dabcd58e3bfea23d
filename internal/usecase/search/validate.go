package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/search/clause"
	"github.com/kailas-cloud/searchgate/internal/domain/search/daterange"
	"github.com/kailas-cloud/searchgate/internal/domain/search/geo"
	"github.com/kailas-cloud/searchgate/internal/domain/search/lucene"
	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
)

// Validated is a request that passed every check for its endpoint.
// It is the only input the compiler accepts.
type Validated struct {
	Size            int
	From            int
	Sort            *clause.FieldSort
	SortUnavailable bool
	SourceInclude   []string
	Query           string
	Type            string
	DateRange       *clause.Range
	History         *daterange.History
	Geo             *geo.Result
}

// Validate checks p against pol. Nothing here touches the backend.
func Validate(p params.Params, pol policy.Policy) (*Validated, error) {
	v := &Validated{Type: p.Get(params.Type)}

	var err error
	if v.Size, err = validateSize(p, pol); err != nil {
		return nil, err
	}
	if v.From, err = validateStart(p); err != nil {
		return nil, err
	}
	if err = validateSort(p, pol, v); err != nil {
		return nil, err
	}
	if v.SourceInclude, err = validateFields(p, pol); err != nil {
		return nil, err
	}
	if v.Query, err = validateQuery(p, pol); err != nil {
		return nil, err
	}

	start, end := p.Get(params.DateStart), p.Get(params.DateEnd)
	if err = daterange.Validate(start, end); err != nil {
		return nil, err //nolint:wrapcheck // already a client-facing domain error
	}
	v.DateRange = daterange.Prepare(pol.DateField, start, end)

	if v.History, err = daterange.ParseHistory(p, pol.MaxHistoryDays); err != nil {
		return nil, err //nolint:wrapcheck // already a client-facing domain error
	}

	if err = validateGeo(p, pol, v); err != nil {
		return nil, err
	}
	return v, nil
}

func validateSize(p params.Params, pol policy.Policy) (int, error) {
	size, ok, err := p.Int(params.Size)
	if !ok {
		return pol.DefaultSize, nil
	}
	if err != nil && p.Overflows(params.Size) {
		return 0, domain.NewValidation(fmt.Sprintf("Request size too large. Must be less than %d.", pol.MaxSize))
	}
	if err != nil || size < 0 {
		return 0, domain.NewValidation(fmt.Sprintf(
			"Invalid size parameter: %q. Must be a non-negative number.", p.Get(params.Size)))
	}
	if size > pol.MaxSize {
		return 0, domain.NewValidation(fmt.Sprintf("Request size too large. Must be less than %d.", pol.MaxSize))
	}
	return size, nil
}

func validateStart(p params.Params) (int, error) {
	from, ok, err := p.Int(params.Start)
	if !ok {
		return 0, nil
	}
	if err != nil || from < 0 {
		return 0, domain.NewValidation(fmt.Sprintf(
			"Invalid start parameter: %q. Must be a non-negative number.", p.Get(params.Start)))
	}
	return from, nil
}

func validateSort(p params.Params, pol policy.Policy, v *Validated) error {
	raw := p.Get(params.Sort)
	if raw == "" {
		return nil
	}
	if !pol.Sortable() {
		v.SortUnavailable = true
		return nil
	}
	s, err := clause.ParseFieldSort(raw)
	if err != nil {
		return domain.NewValidation(fmt.Sprintf(
			"Invalid sort parameter: %q. Must be of the form 'field:asc' or 'field:desc'.", raw))
	}
	if pol.Sort == policy.SortDateOnly && s.Field != pol.DateField {
		return domain.NewValidation(fmt.Sprintf("Sorting is only available on the %s field.", pol.DateField))
	}
	v.Sort = &s
	return nil
}

// validateFields resolves the _source projection: the intersection when both
// the request and the endpoint name fields, otherwise whichever side does.
func validateFields(p params.Params, pol policy.Policy) ([]string, error) {
	requested := p.List(params.Fields)
	switch {
	case len(requested) == 0:
		return slices.Clone(pol.AllowedFields), nil
	case len(pol.AllowedFields) == 0:
		return requested, nil
	}

	var out []string
	for _, f := range requested {
		if pol.Allows(f) && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, domain.NewValidation("the fields parameter does not contain any valid fields")
	}
	return out, nil
}

// validateQuery checks q on lucene endpoints. Other endpoints do not interpret q.
func validateQuery(p params.Params, pol policy.Policy) (string, error) {
	q := strings.TrimSpace(p.Get(params.Query))
	if q == "" || !pol.Lucene {
		return "", nil
	}
	if !lucene.ProperQuery(q, pol.WildcardPattern) {
		return "", domain.NewValidation(lucene.WildcardMessage)
	}
	if len(pol.AllowedFields) > 0 {
		if bad := lucene.Disallowed(q, pol.AllowedFields); len(bad) > 0 {
			return "", domain.NewForbiddenField("you cannot query on these terms: " + strings.Join(bad, ", "))
		}
	}
	return q, nil
}

// validateGeo builds the geo clause. Distance sorts are only kept on
// endpoints that sort on any field.
func validateGeo(p params.Params, pol policy.Policy, v *Validated) error {
	userSort := ""
	if v.Sort != nil {
		userSort = v.Sort.String()
	}
	res, err := geo.Search(p, pol.GeoField, userSort)
	if err != nil {
		return err //nolint:wrapcheck // already a client-facing domain error
	}
	if res != nil && res.Sort != nil && pol.Sort != policy.SortAny {
		switch {
		case pol.Sort == policy.SortDateOnly && p.HasGeoSort():
			return domain.NewValidation(fmt.Sprintf("Sorting is only available on the %s field.", pol.DateField))
		case pol.Sort == policy.SortNone && p.HasGeoSort():
			v.SortUnavailable = true
		}
		res.Sort = nil
	}
	v.Geo = res
	return nil
}
