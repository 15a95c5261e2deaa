package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertSale writes the sale header as its own commit and returns the
// generated id and timestamp. It deliberately does not open a transaction
// spanning the line items or stock updates; the checkout workflow commits
// each step independently.
func (r *Repository) InsertSale(ctx context.Context, cashierID uuid.UUID, cashierName string, subtotal, total float64) (uuid.UUID, time.Time, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sales (cashier_id, cashier_name, subtotal, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, cashierID, cashierName, subtotal, total).Scan(&id, &createdAt)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("insert sale: %w", err)
	}
	return id, createdAt, nil
}

// InsertSaleItems writes one row per cart line, in cart order, all
// referencing the given sale id.
func (r *Repository) InsertSaleItems(ctx context.Context, saleID uuid.UUID, items []domain.CartItem) error {
	for _, item := range items {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, saleID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.Price*float64(item.Quantity)); err != nil {
			return fmt.Errorf("insert sale item for product %s: %w", item.ProductID, err)
		}
	}
	return nil
}

// GetSale loads a persisted sale with its items in insertion order.
func (r *Repository) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.pool.QueryRow(ctx, `
		SELECT id, cashier_id, cashier_name, subtotal::double precision, total::double precision, created_at
		FROM sales
		WHERE id = $1
	`, id).Scan(&sale.ID, &sale.CashierID, &sale.Cashier, &sale.Subtotal, &sale.Total, &sale.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sale %s: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT product_id, product_name, quantity, unit_price::double precision
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items %s: %w", id, err)
	}
	defer rows.Close()

	sale.Items = make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale items: %w", err)
	}
	return &sale, nil
}

// SaleExportRow is one sale line flattened for the export workbook.
type SaleExportRow struct {
	SaleID      uuid.UUID
	CreatedAt   time.Time
	CashierName string
	ProductName string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
}

func (r *Repository) ListSaleExportRows(ctx context.Context, from, to *time.Time) ([]SaleExportRow, error) {
	query := `
		SELECT s.id, s.created_at, s.cashier_name, si.product_name, si.quantity,
			si.unit_price::double precision, si.subtotal::double precision
		FROM sales s
		JOIN sale_items si ON si.sale_id = s.id
		WHERE ($1::timestamptz IS NULL OR s.created_at >= $1)
			AND ($2::timestamptz IS NULL OR s.created_at <= $2)
		ORDER BY s.created_at ASC, si.id ASC
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sale export rows: %w", err)
	}
	defer rows.Close()

	result := make([]SaleExportRow, 0)
	for rows.Next() {
		var row SaleExportRow
		if err := rows.Scan(
			&row.SaleID,
			&row.CreatedAt,
			&row.CashierName,
			&row.ProductName,
			&row.Quantity,
			&row.UnitPrice,
			&row.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan sale export row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale export rows: %w", err)
	}
	return result, nil
}
