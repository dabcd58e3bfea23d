// Package lucene extracts field references from Lucene-style query strings.
// It does not parse the full query language; it only finds what an allowlist
// needs to check before the raw string is handed to the backend.
package lucene

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultWildcardPattern flags leading-wildcard field values (field:*x, field:?x).
// The field name must start a token, so IPv6 literals and URL values do not match.
var DefaultWildcardPattern = regexp.MustCompile(`(?:^|[\s(+\-!])[\w.@]+:[*?]`)

// WildcardMessage is returned to callers whose query trips the wildcard check.
const WildcardMessage = "Wild card queries of the form 'fieldname:*value' or 'fieldname:?value' " +
	"can not be evaluated. Please refer to the documentation on 'fieldname.right'."

// Fields returns the set of field names referenced in q.
func Fields(q string) map[string]bool {
	found := make(map[string]bool)
	for _, token := range strings.Fields(q) {
		name, _, ok := strings.Cut(token, ":")
		if !ok {
			continue
		}
		// "AND(other:y)" references other.
		if i := strings.LastIndex(name, "("); i >= 0 {
			name = name[i+1:]
		}
		name = strings.TrimLeft(name, "(+-!")
		if name == "" {
			continue
		}
		found[name] = true
	}
	return found
}

// Disallowed returns the sorted field names in q that are not in allowed.
func Disallowed(q string, allowed []string) []string {
	ok := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		ok[f] = true
	}
	var bad []string
	for name := range Fields(q) {
		if !ok[name] {
			bad = append(bad, name)
		}
	}
	sort.Strings(bad)
	return bad
}

// ProperQuery reports whether q is free of the pattern re flags.
// A nil re uses DefaultWildcardPattern.
func ProperQuery(q string, re *regexp.Regexp) bool {
	if re == nil {
		re = DefaultWildcardPattern
	}
	return !re.MatchString(q)
}
