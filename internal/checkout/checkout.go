// Package checkout turns a validated cart into a persisted sale and updates
// inventory. The workflow intentionally mirrors a sequence of independent
// backend calls rather than one transaction: the sale header, the line items
// and each stock decrement are separate commits, and their failure modes
// differ (see CompleteSale).
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"
	"github.com/Mimieamichy/handy-dashboard/internal/repository"

	"github.com/google/uuid"
)

// Catalog is the read/write view of the product catalog the workflow needs:
// a pricing point read during validation and a stock read/write pair during
// the decrement step. The two reads are independent round trips; no value is
// cached between them.
type Catalog interface {
	GetProductPricing(ctx context.Context, id uuid.UUID) (repository.ProductPricing, error)
	GetProductStock(ctx context.Context, id uuid.UUID) (int, error)
	UpdateProductStock(ctx context.Context, id uuid.UUID, newStock int) error
}

// SaleStore persists the sale header and its line items, each call its own
// commit.
type SaleStore interface {
	InsertSale(ctx context.Context, cashierID uuid.UUID, cashierName string, subtotal, total float64) (uuid.UUID, time.Time, error)
	InsertSaleItems(ctx context.Context, saleID uuid.UUID, items []domain.CartItem) error
}

type Orchestrator struct {
	catalog Catalog
	sales   SaleStore
	logger  *log.Logger
}

func New(catalog Catalog, sales SaleStore, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{catalog: catalog, sales: sales, logger: logger}
}

// CompleteSale validates the cart and, on success, runs the persistence
// sequence:
//
//  1. insert the sale header (abort on failure, nothing committed);
//  2. insert one line-item row per cart entry (abort on failure, header
//     stays orphaned — there is no rollback of step 1);
//  3. per entry, read the current stock and write stock-quantity back.
//     This read-then-write has no compare-and-set guard, so two concurrent
//     checkouts over the same product can lose an update; per-item failures
//     are logged and skipped and do not fail the sale.
//
// All validation happens before any write and is all-or-nothing for the
// whole cart.
func (o *Orchestrator) CompleteSale(ctx context.Context, cashierID uuid.UUID, cashierName string, items []domain.CartItem) (*domain.Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	total := subtotal
	if total <= 0 {
		return nil, ErrInvalidTotal
	}

	for _, item := range items {
		pricing, err := o.catalog.GetProductPricing(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("validate cart prices: %w", err)
		}
		if pricing.MinSellingPrice != nil && item.Price < *pricing.MinSellingPrice {
			return nil, &BelowMinimumPriceError{
				ProductID:   item.ProductID,
				ProductName: pricing.Name,
				Price:       item.Price,
				Floor:       *pricing.MinSellingPrice,
			}
		}
	}

	saleID, createdAt, err := o.sales.InsertSale(ctx, cashierID, cashierName, subtotal, total)
	if err != nil {
		return nil, &SalePersistError{Err: err}
	}

	if err := o.sales.InsertSaleItems(ctx, saleID, items); err != nil {
		return nil, &LineItemPersistError{SaleID: saleID, Err: err}
	}

	for _, item := range items {
		stock, err := o.catalog.GetProductStock(ctx, item.ProductID)
		if err != nil {
			o.logger.Printf("checkout: fetch stock for product %s: %v", item.ProductID, err)
			continue
		}
		if err := o.catalog.UpdateProductStock(ctx, item.ProductID, stock-item.Quantity); err != nil {
			o.logger.Printf("checkout: update stock for product %s: %v", item.ProductID, err)
		}
	}

	snapshot := &domain.Sale{
		ID:        saleID,
		Items:     append([]domain.CartItem(nil), items...),
		Subtotal:  subtotal,
		Total:     total,
		CashierID: cashierID,
		Cashier:   cashierName,
		Timestamp: createdAt,
	}
	return snapshot, nil
}
