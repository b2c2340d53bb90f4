package works_test

import (
	"encoding/json"
	"testing"

	"reprise/internal/works"
)

func TestAsString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "  W-123  ", "W-123"},
		{"integral float", float64(198214), "198214"},
		{"fractional float", 0.5, "0.5"},
		{"json number", json.Number("42"), "42"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"slice", []string{"x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := works.AsString(tt.in); got != tt.want {
				t.Errorf("AsString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFirstString(t *testing.T) {
	payload := map[string]any{
		"propertyId": "",
		"id":         float64(9912),
		"workId":     "ignored",
	}
	if got := works.FirstString(payload, "propertyId", "id", "workId"); got != "9912" {
		t.Fatalf("FirstString = %q, want 9912", got)
	}
	if got := works.FirstString(payload, "missing"); got != "" {
		t.Fatalf("FirstString on missing key = %q, want empty", got)
	}
}
