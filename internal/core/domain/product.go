package domain

import "strings"

// Product is a catalog product as read from the commerce database
type Product struct {
	ID          string
	Title       string
	Description string
	Handle      string
	Thumbnail   *string
	VariantSKUs []string
}

// ProductDocument is the shape products are indexed with
type ProductDocument struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Handle      string  `json:"handle"`
	Thumbnail   *string `json:"thumbnail"`
	VariantSKU  string  `json:"variant_sku"`
}

// ToDocument converts a product into its index document.
// Variant SKUs are joined with spaces so each one is searchable.
func (p *Product) ToDocument() ProductDocument {
	skus := make([]string, 0, len(p.VariantSKUs))
	for _, sku := range p.VariantSKUs {
		if sku = strings.TrimSpace(sku); sku != "" {
			skus = append(skus, sku)
		}
	}
	return ProductDocument{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Handle:      p.Handle,
		Thumbnail:   p.Thumbnail,
		VariantSKU:  strings.Join(skus, " "),
	}
}

// Index attribute settings for the products index
var (
	ProductSearchableAttributes = []string{"title", "description", "variant_sku"}
	ProductDisplayedAttributes  = []string{"id", "handle", "title", "description", "variant_sku", "thumbnail"}
	ProductFilterableAttributes = []string{"id", "handle"}

	// ProductFallbackFields is the projection requested on the fallback path
	ProductFallbackFields = []string{"id", "title", "description", "handle", "thumbnail"}
)

// ReindexReport summarizes a reindex run
type ReindexReport struct {
	Indexed int `json:"indexed"`
	Batches int `json:"batches"`
}
