package repository

import (
	"context"
	"fmt"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"
)

// GetSalesSummary aggregates the dashboard headline metrics.
func (r *Repository) GetSalesSummary(ctx context.Context, lowStockThreshold int) (domain.SalesSummary, error) {
	var summary domain.SalesSummary
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total), 0)::double precision,
			COUNT(*)::int,
			COALESCE(AVG(total), 0)::double precision
		FROM sales
	`).Scan(&summary.TotalRevenue, &summary.Transactions, &summary.AverageTransaction)
	if err != nil {
		return domain.SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COUNT(*) FILTER (WHERE stock < $1)::int
		FROM products
	`, lowStockThreshold).Scan(&summary.TotalProducts, &summary.LowStockProducts)
	if err != nil {
		return domain.SalesSummary{}, fmt.Errorf("product summary: %w", err)
	}
	return summary, nil
}

// GetDailySales returns one row per day over the trailing window, zero-filled
// for days without sales, oldest first.
func (r *Repository) GetDailySales(ctx context.Context, days int) ([]domain.DailySales, error) {
	if days <= 0 {
		days = 7
	}
	if days > 365 {
		days = 365
	}

	rows, err := r.pool.Query(ctx, `
		WITH day_series AS (
			SELECT generate_series(
				DATE_TRUNC('day', NOW()) - ($1 - 1) * INTERVAL '1 day',
				DATE_TRUNC('day', NOW()),
				INTERVAL '1 day'
			) AS day
		)
		SELECT
			TO_CHAR(d.day, 'YYYY-MM-DD'),
			COALESCE(SUM(s.total), 0)::double precision,
			COUNT(s.id)::int
		FROM day_series d
		LEFT JOIN sales s ON DATE_TRUNC('day', s.created_at) = d.day
		GROUP BY d.day
		ORDER BY d.day ASC
	`, days)
	if err != nil {
		return nil, fmt.Errorf("daily sales query: %w", err)
	}
	defer rows.Close()

	list := make([]domain.DailySales, 0, days)
	for rows.Next() {
		var row domain.DailySales
		if err := rows.Scan(&row.Date, &row.Revenue, &row.Transactions); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily sales: %w", err)
	}
	return list, nil
}

func (r *Repository) GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryBreakdown, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			category,
			COUNT(*)::int,
			COALESCE(SUM(stock), 0)::int
		FROM products
		GROUP BY category
		ORDER BY category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("category breakdown query: %w", err)
	}
	defer rows.Close()

	list := make([]domain.CategoryBreakdown, 0)
	for rows.Next() {
		var row domain.CategoryBreakdown
		if err := rows.Scan(&row.Category, &row.Products, &row.Stock); err != nil {
			return nil, fmt.Errorf("scan category breakdown: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category breakdown: %w", err)
	}
	return list, nil
}
