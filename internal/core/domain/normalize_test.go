package domain

import (
	"encoding/json"
	"testing"
)

func TestNormalizeSearchRequest_Limit(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"nil defaults", nil, 20},
		{"empty string defaults", "", 20},
		{"garbage defaults", "abc", 20},
		{"zero defaults", "0", 20},
		{"int zero defaults", 0, 20},
		{"negative clamps to 1", "-5", 1},
		{"in range", "5", 5},
		{"int in range", 42, 42},
		{"float truncates", 7.9, 7},
		{"upper bound", 100, 100},
		{"above bound clamps", "101", 100},
		{"huge clamps", "1e12", 100},
		{"json number", json.Number("15"), 15},
		{"bad json number", json.Number("x"), 20},
		{"unsupported type", true, 20},
		{"infinity clamps", "Infinity", 100},
		{"NaN defaults", "NaN", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NormalizeSearchRequest("q", tt.raw, nil)
			if req.Limit != tt.want {
				t.Errorf("limit for %v: expected %d, got %d", tt.raw, tt.want, req.Limit)
			}
			if req.Limit < MinSearchLimit || req.Limit > MaxSearchLimit {
				t.Errorf("limit %d outside [%d,%d]", req.Limit, MinSearchLimit, MaxSearchLimit)
			}
		})
	}
}

func TestNormalizeSearchRequest_Offset(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"nil defaults", nil, 0},
		{"garbage defaults", "x", 0},
		{"negative clamps", "-1", 0},
		{"int negative clamps", -50, 0},
		{"positive kept", "40", 40},
		{"float truncates", 12.5, 12},
		{"int64", int64(9), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NormalizeSearchRequest("q", nil, tt.raw)
			if req.Offset != tt.want {
				t.Errorf("offset for %v: expected %d, got %d", tt.raw, tt.want, req.Offset)
			}
		})
	}
}

func TestNormalizeSearchRequest_ClampsAllLimits(t *testing.T) {
	for limit := -300; limit <= 300; limit++ {
		req := NormalizeSearchRequest("q", limit, -limit)
		if req.Limit < MinSearchLimit || req.Limit > MaxSearchLimit {
			t.Fatalf("limit %d normalized to %d", limit, req.Limit)
		}
		if req.Offset < 0 {
			t.Fatalf("offset %d normalized to %d", -limit, req.Offset)
		}
	}
}

func TestNormalizeSearchRequest_Query(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		empty bool
	}{
		{"  mouse  ", "mouse", false},
		{"\tkeyboard\n", "keyboard", false},
		{"", "", true},
		{"   ", "", true},
		{"\n\t ", "", true},
	}

	for _, tt := range tests {
		req := NormalizeSearchRequest(tt.raw, "5", "0")
		if req.Query != tt.want {
			t.Errorf("query %q: expected %q, got %q", tt.raw, tt.want, req.Query)
		}
		if req.IsEmpty() != tt.empty {
			t.Errorf("query %q: expected empty=%t", tt.raw, tt.empty)
		}
	}
}
