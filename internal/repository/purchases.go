package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"

	"github.com/google/uuid"
)

type PurchaseInput struct {
	ProductID            uuid.UUID
	PurchaseDate         time.Time
	QuantityPurchased    int
	PurchasePricePerUnit float64
	MinSellingPrice      float64
	CreatedBy            uuid.UUID
}

// InsertPurchaseRecord appends one row to purchase_history. Rows are never
// mutated or deleted afterwards.
func (r *Repository) InsertPurchaseRecord(ctx context.Context, input PurchaseInput) (uuid.UUID, error) {
	totalCost := float64(input.QuantityPurchased) * input.PurchasePricePerUnit

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO purchase_history (
			product_id,
			purchase_date,
			quantity_purchased,
			purchase_price_per_unit,
			total_purchase_cost,
			min_selling_price,
			created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		input.ProductID,
		input.PurchaseDate,
		input.QuantityPurchased,
		input.PurchasePricePerUnit,
		totalCost,
		input.MinSellingPrice,
		input.CreatedBy,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert purchase record: %w", err)
	}
	return id, nil
}

// ApplyPurchaseToProduct writes the post-intake stock value together with the
// purchase metadata onto the product row.
func (r *Repository) ApplyPurchaseToProduct(ctx context.Context, productID uuid.UUID, newStock int, input PurchaseInput) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE products
		SET
			stock = $2,
			purchase_price = $3,
			min_selling_price = $4,
			last_purchase_date = $5,
			last_purchase_quantity = $6,
			updated_at = NOW()
		WHERE id = $1
	`,
		productID,
		newStock,
		input.PurchasePricePerUnit,
		input.MinSellingPrice,
		input.PurchaseDate,
		input.QuantityPurchased,
	)
	if err != nil {
		return fmt.Errorf("apply purchase to product %s: %w", productID, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListPurchaseRecords(ctx context.Context, limit int) ([]domain.PurchaseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 500 {
		limit = 500
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			ph.id,
			ph.product_id,
			p.name,
			ph.purchase_date,
			ph.quantity_purchased,
			ph.purchase_price_per_unit::double precision,
			ph.total_purchase_cost::double precision,
			ph.min_selling_price::double precision,
			ph.created_by,
			ph.created_at
		FROM purchase_history ph
		JOIN products p ON p.id = ph.product_id
		ORDER BY ph.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list purchase records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.PurchaseRecord, 0, limit)
	for rows.Next() {
		var rec domain.PurchaseRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ProductID,
			&rec.ProductName,
			&rec.PurchaseDate,
			&rec.QuantityPurchased,
			&rec.PurchasePricePerUnit,
			&rec.TotalPurchaseCost,
			&rec.MinSellingPrice,
			&rec.CreatedBy,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase records: %w", err)
	}
	return records, nil
}
