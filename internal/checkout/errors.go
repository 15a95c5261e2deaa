package checkout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCart rejects a checkout with no lines before any write.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidTotal rejects a cart whose computed total is not strictly
	// positive, guarding against all-zero-price carts.
	ErrInvalidTotal = errors.New("sale total must be greater than zero")
)

// BelowMinimumPriceError names the first cart line priced under its
// product's selling floor. Validation is all-or-nothing: when returned,
// no writes have happened for the whole cart.
type BelowMinimumPriceError struct {
	ProductID   uuid.UUID
	ProductName string
	Price       float64
	Floor       float64
}

func (e *BelowMinimumPriceError) Error() string {
	return fmt.Sprintf("%s price (%.2f) is below minimum selling price (%.2f)",
		e.ProductName, e.Price, e.Floor)
}

// SalePersistError means the sale header insert failed. Nothing was
// committed; the checkout is safe to retry.
type SalePersistError struct {
	Err error
}

func (e *SalePersistError) Error() string { return fmt.Sprintf("persist sale: %v", e.Err) }
func (e *SalePersistError) Unwrap() error { return e.Err }

// LineItemPersistError means a line-item insert failed after the sale
// header was committed. The header is left orphaned with a missing or
// incomplete item set; retrying blindly would duplicate it.
type LineItemPersistError struct {
	SaleID uuid.UUID
	Err    error
}

func (e *LineItemPersistError) Error() string {
	return fmt.Sprintf("persist line items for sale %s: %v", e.SaleID, e.Err)
}

func (e *LineItemPersistError) Unwrap() error { return e.Err }
