package domain

import "testing"

func TestProduct_ToDocument(t *testing.T) {
	thumb := "https://cdn.example.com/mouse.png"
	p := &Product{
		ID:          "prod_1",
		Title:       "Wireless Mouse",
		Description: "Ergonomic",
		Handle:      "wireless-mouse",
		Thumbnail:   &thumb,
		VariantSKUs: []string{"MOUSE-BLK", " ", "", "MOUSE-WHT "},
	}

	doc := p.ToDocument()

	if doc.ID != "prod_1" || doc.Handle != "wireless-mouse" {
		t.Errorf("unexpected identity fields: %+v", doc)
	}
	if doc.VariantSKU != "MOUSE-BLK MOUSE-WHT" {
		t.Errorf("expected joined SKUs, got %q", doc.VariantSKU)
	}
	if doc.Thumbnail == nil || *doc.Thumbnail != thumb {
		t.Error("expected thumbnail to be carried over")
	}
}

func TestProduct_ToDocument_NoVariants(t *testing.T) {
	doc := (&Product{ID: "prod_2"}).ToDocument()
	if doc.VariantSKU != "" {
		t.Errorf("expected empty SKU string, got %q", doc.VariantSKU)
	}
	if doc.Thumbnail != nil {
		t.Error("expected nil thumbnail")
	}
}

func TestProductFallbackFields(t *testing.T) {
	want := []string{"id", "title", "description", "handle", "thumbnail"}
	if len(ProductFallbackFields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(ProductFallbackFields))
	}
	for i, f := range want {
		if ProductFallbackFields[i] != f {
			t.Errorf("field %d: expected %s, got %s", i, f, ProductFallbackFields[i])
		}
	}
}
