package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Category             string     `json:"category"`
	Stock                int        `json:"stock"`
	Price                float64    `json:"price"`
	PurchasePrice        float64    `json:"purchase_price"`
	MinSellingPrice      *float64   `json:"min_selling_price,omitempty"`
	LastPurchaseDate     *time.Time `json:"last_purchase_date,omitempty"`
	LastPurchaseQuantity *int       `json:"last_purchase_quantity,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// CartItem is one line of a cart or of a completed sale. ProductName and
// Price are snapshots taken when the line was added; the cashier may edit
// Price afterwards.
type CartItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
}

// Sale is the immutable record of a completed checkout.
type Sale struct {
	ID        uuid.UUID  `json:"id"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Total     float64    `json:"total"`
	CashierID uuid.UUID  `json:"cashier_id"`
	Cashier   string     `json:"cashier"`
	Timestamp time.Time  `json:"timestamp"`
}

type PurchaseRecord struct {
	ID                   uuid.UUID `json:"id"`
	ProductID            uuid.UUID `json:"product_id"`
	ProductName          string    `json:"product_name,omitempty"`
	PurchaseDate         time.Time `json:"purchase_date"`
	QuantityPurchased    int       `json:"quantity_purchased"`
	PurchasePricePerUnit float64   `json:"purchase_price_per_unit"`
	TotalPurchaseCost    float64   `json:"total_purchase_cost"`
	MinSellingPrice      float64   `json:"min_selling_price"`
	CreatedBy            uuid.UUID `json:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
}

type Cashier struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SalesSummary struct {
	TotalRevenue       float64 `json:"total_revenue"`
	Transactions       int     `json:"transactions"`
	AverageTransaction float64 `json:"average_transaction"`
	TotalProducts      int     `json:"total_products"`
	LowStockProducts   int     `json:"low_stock_products"`
}

type DailySales struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

type CategoryBreakdown struct {
	Category string `json:"category"`
	Products int    `json:"products"`
	Stock    int    `json:"stock"`
}
