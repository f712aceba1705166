package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tienda-joyas/models"
)

// ProductRepository mirrors catalog snapshots into the catalog_products table.
// The table never stores cost prices.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

const upsertProductQuery = `
	INSERT INTO catalog_products (
		id, name, category, subcategory, material,
		price, price_note, price_promo, featured, image_url, emoji,
		is_active, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, now())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		subcategory = EXCLUDED.subcategory,
		material = EXCLUDED.material,
		price = EXCLUDED.price,
		price_note = EXCLUDED.price_note,
		price_promo = EXCLUDED.price_promo,
		featured = EXCLUDED.featured,
		image_url = EXCLUDED.image_url,
		emoji = EXCLUDED.emoji,
		is_active = true,
		updated_at = now()
`

// UpsertProducts writes all products in one transaction
func (r *ProductRepository) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertProductQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		var promo sql.NullFloat64
		if p.PricePromo != nil {
			promo = sql.NullFloat64{Float64: *p.PricePromo, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Category, p.Subcategory, p.Material,
			p.Price, string(p.PriceNote), promo, p.Featured, p.Image, p.Emoji,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return len(products), nil
}

// DeactivateMissing marks active rows absent from ids as inactive
func (r *ProductRepository) DeactivateMissing(ctx context.Context, ids []string) (int, error) {
	if ids == nil {
		ids = []string{}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE catalog_products
		SET is_active = false, updated_at = now()
		WHERE is_active = true AND NOT (id = ANY($1))
	`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate products: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deactivated products: %w", err)
	}
	return int(n), nil
}

// ListActive returns the active products ordered by id
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, subcategory, material,
			price, price_note, price_promo, featured, image_url, emoji
		FROM catalog_products
		WHERE is_active = true
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var note string
		var promo sql.NullFloat64
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Subcategory, &p.Material,
			&p.Price, &note, &promo, &p.Featured, &p.Image, &p.Emoji,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.PriceNote = models.PriceNote(note)
		if promo.Valid {
			v := promo.Float64
			p.PricePromo = &v
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}
