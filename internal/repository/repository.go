package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// DBPool is the subset of *pgxpool.Pool the repository uses, so tests can
// substitute a mock pool.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	pool DBPool
}

func New(pool DBPool) *Repository {
	return &Repository{pool: pool}
}

type ProductListFilter struct {
	Search  string
	InStock bool
}

type ProductCreateInput struct {
	Name            string
	Category        string
	Stock           int
	Price           float64
	PurchasePrice   *float64
	MinSellingPrice *float64
}

// ProductPricing carries the fields checkout validation needs per cart line.
type ProductPricing struct {
	Name            string
	MinSellingPrice *float64
}

const productColumns = `
	id,
	name,
	category,
	stock,
	price::double precision,
	purchase_price::double precision,
	min_selling_price::double precision,
	last_purchase_date,
	last_purchase_quantity,
	created_at,
	updated_at
`

func (r *Repository) ListProducts(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	`
	if filter.InStock {
		query += " AND stock > 0"
	}
	query += " ORDER BY name ASC"

	rows, err := r.pool.Query(ctx, query, strings.TrimSpace(filter.Search))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)
	product, err := scanProductRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &product, nil
}

func (r *Repository) CreateProduct(ctx context.Context, input ProductCreateInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("name is required")
	}
	if input.Stock < 0 {
		return domain.Product{}, fmt.Errorf("stock cannot be negative")
	}
	if input.Price < 0 {
		return domain.Product{}, fmt.Errorf("price cannot be negative")
	}

	purchasePrice := 0.0
	if input.PurchasePrice != nil {
		purchasePrice = *input.PurchasePrice
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, category, stock, price, purchase_price, min_selling_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		name, strings.TrimSpace(input.Category), input.Stock, input.Price,
		purchasePrice, input.MinSellingPrice)

	product, err := scanProductRow(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// GetProductPricing is the validation-time point read of a product's display
// name and pricing floor.
func (r *Repository) GetProductPricing(ctx context.Context, id uuid.UUID) (ProductPricing, error) {
	var (
		pricing ProductPricing
		floor   sql.NullFloat64
	)
	err := r.pool.QueryRow(ctx, `
		SELECT name, min_selling_price::double precision
		FROM products
		WHERE id = $1
	`, id).Scan(&pricing.Name, &floor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductPricing{}, ErrNotFound
		}
		return ProductPricing{}, fmt.Errorf("get pricing for product %s: %w", id, err)
	}
	if floor.Valid {
		value := floor.Float64
		pricing.MinSellingPrice = &value
	}
	return pricing, nil
}

// GetProductStock reads the current stock value. Callers that follow this
// with UpdateProductStock get read-then-write semantics with no guard; see
// the checkout package for why that is deliberate.
func (r *Repository) GetProductStock(ctx context.Context, id uuid.UUID) (int, error) {
	var stock int
	err := r.pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get stock for product %s: %w", id, err)
	}
	return stock, nil
}

func (r *Repository) UpdateProductStock(ctx context.Context, id uuid.UUID, newStock int) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE products
		SET stock = $2, updated_at = NOW()
		WHERE id = $1
	`, id, newStock)
	if err != nil {
		return fmt.Errorf("update stock for product %s: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProductRow(row pgx.Row) (domain.Product, error) {
	var (
		product      domain.Product
		floor        sql.NullFloat64
		lastDate     sql.NullTime
		lastQuantity sql.NullInt32
	)
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Stock,
		&product.Price,
		&product.PurchasePrice,
		&floor,
		&lastDate,
		&lastQuantity,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	if floor.Valid {
		value := floor.Float64
		product.MinSellingPrice = &value
	}
	if lastDate.Valid {
		value := lastDate.Time
		product.LastPurchaseDate = &value
	}
	if lastQuantity.Valid {
		value := int(lastQuantity.Int32)
		product.LastPurchaseQuantity = &value
	}
	return product, nil
}
