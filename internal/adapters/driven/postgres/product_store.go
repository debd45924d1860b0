package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ProductStore = (*ProductStore)(nil)

// ProductStore reads published products and their variant SKUs from the
// commerce catalog tables (product, product_variant).
type ProductStore struct {
	db *DB
}

// NewProductStore creates a new ProductStore
func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

const listPublishedProducts = `
	SELECT p.id, p.title, p.description, p.handle, p.thumbnail,
	       array_agg(v.sku ORDER BY v.sku) FILTER (WHERE v.sku IS NOT NULL AND v.sku <> '')
	FROM product p
	LEFT JOIN product_variant v ON v.product_id = p.id AND v.deleted_at IS NULL
	WHERE p.status = 'published' AND p.deleted_at IS NULL
	GROUP BY p.id
	ORDER BY p.id
	LIMIT $1 OFFSET $2
`

// ListPublished returns a page of published products ordered by id
func (s *ProductStore) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, listPublishedProducts, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query published products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published products: %w", err)
	}
	return products, nil
}

// CountPublished returns the number of published, non-deleted products
func (s *ProductStore) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product WHERE status = 'published' AND deleted_at IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published products: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p           domain.Product
		description sql.NullString
		thumbnail   sql.NullString
		skus        pq.StringArray
	)
	if err := row.Scan(&p.ID, &p.Title, &description, &p.Handle, &thumbnail, &skus); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Description = description.String
	p.Thumbnail = StringPtr(thumbnail)
	p.VariantSKUs = []string(skus)
	return &p, nil
}
