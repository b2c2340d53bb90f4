package works_test

import (
	"testing"

	"reprise/internal/works"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{works.SourceMLC, "MLC"},
		{works.SourceASCAP, "ASCAP"},
		{works.SourceBMI, "BMI"},
		{works.SourceSongview, "Songview"},
		{"custom source", "Custom Source"},
	}
	for _, tc := range tests {
		if got := works.DisplayName(tc.source); got != tc.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}
