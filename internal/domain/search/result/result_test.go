package result

import (
	"encoding/json"
	"testing"
)

func TestNewEnvelope(t *testing.T) {
	docs := []Document{{"some": "data"}, {"some": "otherData"}}

	tests := []struct {
		name          string
		total         int64
		size          int
		sortMissing   bool
		wantInfo      string
		wantReturning int64
	}{
		{"all returned", 2, 100, false, "2 results found.", 2},
		{"truncated", 250, 100, false, "250 results found. Returning 100.", 100},
		{"sort unavailable", 2, 100, true, "2 results found. No sorting available.", 2},
		{"truncated and unsorted", 5, 1, true, "5 results found. Returning 1. No sorting available.", 1},
		{"size zero", 3, 0, false, "3 results found. Returning 0.", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := NewEnvelope(tc.total, tc.size, docs, tc.sortMissing)
			if env.Info != tc.wantInfo {
				t.Errorf("Info = %q, want %q", env.Info, tc.wantInfo)
			}
			if env.Returning != tc.wantReturning {
				t.Errorf("Returning = %d, want %d", env.Returning, tc.wantReturning)
			}
			if env.Total != tc.total {
				t.Errorf("Total = %d, want %d", env.Total, tc.total)
			}
		})
	}
}

func TestNewEnvelope_EmptyResultsEncodeAsArray(t *testing.T) {
	env := NewEnvelope(0, 100, nil, false)
	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"info":"0 results found.","total":0,"returning":0,"results":[]}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}
