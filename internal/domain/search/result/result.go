// Package result defines the response envelope returned for every search.
package result

import "fmt"

// Document is a single search hit's source document.
type Document = map[string]any

// Envelope is the stable response shape of a successful search.
type Envelope struct {
	Info      string     `json:"info"`
	Total     int64      `json:"total"`
	Returning int64      `json:"returning"`
	Results   []Document `json:"results"`
}

// NewEnvelope builds the envelope for total hits against a requested size.
// sortUnavailable annotates info when the caller asked for a sort the
// endpoint cannot honor.
func NewEnvelope(total int64, size int, docs []Document, sortUnavailable bool) Envelope {
	if docs == nil {
		docs = []Document{}
	}
	returning := min(int64(size), total)

	info := fmt.Sprintf("%d results found.", total)
	if total > int64(size) {
		info += fmt.Sprintf(" Returning %d.", size)
	}
	if sortUnavailable {
		info += " No sorting available."
	}

	return Envelope{
		Info:      info,
		Total:     total,
		Returning: returning,
		Results:   docs,
	}
}
