package domain

import (
	"encoding/json"
	"testing"
)

func TestSearchPathConstants(t *testing.T) {
	if SearchPathPrimary != "primary" {
		t.Errorf("expected SearchPathPrimary = 'primary', got %s", SearchPathPrimary)
	}
	if SearchPathFallback != "fallback" {
		t.Errorf("expected SearchPathFallback = 'fallback', got %s", SearchPathFallback)
	}
}

func TestEmptySearchResult(t *testing.T) {
	req := SearchRequest{Query: "", Limit: 5, Offset: 10}
	result := EmptySearchResult(req)

	if result.Hits == nil {
		t.Fatal("expected non-nil hits so the JSON encodes as []")
	}
	if len(result.Hits) != 0 {
		t.Errorf("expected no hits, got %d", len(result.Hits))
	}
	if result.ProcessingTimeMs != 0 {
		t.Errorf("expected processingTimeMs 0, got %d", result.ProcessingTimeMs)
	}
	if result.EstimatedTotalHits != 0 {
		t.Errorf("expected estimatedTotalHits 0, got %d", result.EstimatedTotalHits)
	}
	if result.Limit != 5 || result.Offset != 10 {
		t.Errorf("expected limit/offset 5/10, got %d/%d", result.Limit, result.Offset)
	}
}

func TestEmptySearchResult_JSON(t *testing.T) {
	data, err := json.Marshal(EmptySearchResult(SearchRequest{Limit: 20}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"hits":[],"query":"","processingTimeMs":0,"limit":20,"offset":0,"estimatedTotalHits":0}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestSearchRequest_IsEmpty(t *testing.T) {
	if !(SearchRequest{}).IsEmpty() {
		t.Error("expected zero request to be empty")
	}
	if (SearchRequest{Query: "mouse"}).IsEmpty() {
		t.Error("expected request with query to be non-empty")
	}
}

func TestSearchHit_Accessors(t *testing.T) {
	hit := SearchHit{
		"id":        "prod_1",
		"title":     "Wireless Mouse",
		"handle":    "wireless-mouse",
		"thumbnail": nil,
		"rank":      3.5,
	}

	if hit.ID() != "prod_1" {
		t.Errorf("expected id prod_1, got %s", hit.ID())
	}
	if hit.Title() != "Wireless Mouse" {
		t.Errorf("expected title, got %s", hit.Title())
	}
	if hit.Handle() != "wireless-mouse" {
		t.Errorf("expected handle, got %s", hit.Handle())
	}
	if hit.String("rank") != "" {
		t.Error("expected non-string value to read as empty")
	}
	if hit.String("missing") != "" {
		t.Error("expected missing key to read as empty")
	}
}

func TestSearchStats_JSONFieldNames(t *testing.T) {
	stats := SearchStats{TotalSearches: 3, AverageResponseTime: 120, SlowQueryCount: 1}
	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"totalSearches", "averageResponseTime", "slowQueries", "popularQueries"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected field %q in %s", key, data)
		}
	}
	if fields["slowQueries"] != float64(1) {
		t.Errorf("expected slowQueries = 1, got %v", fields["slowQueries"])
	}
}
