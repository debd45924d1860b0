package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NormalizeSearchRequest validates and clamps raw search input.
// Raw limit and offset may be strings (query string), JSON numbers or ints.
// Unparseable or zero values take their defaults; nothing here ever fails.
func NormalizeSearchRequest(rawQuery string, rawLimit, rawOffset any) SearchRequest {
	limit, ok := parseCount(rawLimit)
	if !ok || limit == 0 {
		limit = DefaultSearchLimit
	}
	limit = min(max(limit, MinSearchLimit), MaxSearchLimit)

	offset, ok := parseCount(rawOffset)
	if !ok {
		offset = 0
	}
	offset = max(offset, 0)

	return SearchRequest{
		Query:  strings.TrimSpace(rawQuery),
		Limit:  limit,
		Offset: offset,
	}
}

// parseCount converts a loosely typed numeric value into an int.
// Fractions are truncated towards zero.
func parseCount(raw any) (int, bool) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int64:
		return clampInt64(v), true
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) {
		return 0, false
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f <= math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}

func clampInt64(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}
