package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Mimieamichy/handy-dashboard/internal/cart"
	"github.com/Mimieamichy/handy-dashboard/internal/checkout"
	"github.com/Mimieamichy/handy-dashboard/internal/domain"
	"github.com/Mimieamichy/handy-dashboard/internal/export"
	"github.com/Mimieamichy/handy-dashboard/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence surface the service needs. *repository.Repository
// satisfies it; tests substitute fakes.
type Store interface {
	checkout.Catalog
	checkout.SaleStore

	ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, input repository.ProductCreateInput) (domain.Product, error)

	GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	ListSaleExportRows(ctx context.Context, from, to *time.Time) ([]repository.SaleExportRow, error)

	InsertPurchaseRecord(ctx context.Context, input repository.PurchaseInput) (uuid.UUID, error)
	ApplyPurchaseToProduct(ctx context.Context, productID uuid.UUID, newStock int, input repository.PurchaseInput) error
	ListPurchaseRecords(ctx context.Context, limit int) ([]domain.PurchaseRecord, error)

	GetCashierByEmail(ctx context.Context, email string) (*repository.CashierCredentials, error)
	GetCashierByID(ctx context.Context, id uuid.UUID) (*domain.Cashier, error)
	CreateCashier(ctx context.Context, fullName, email, passwordHash, role string) (domain.Cashier, error)
	ListCashiers(ctx context.Context) ([]domain.Cashier, error)

	GetSalesSummary(ctx context.Context, lowStockThreshold int) (domain.SalesSummary, error)
	GetDailySales(ctx context.Context, days int) ([]domain.DailySales, error)
	GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryBreakdown, error)
}

// lowStockThreshold matches the dashboard's "low stock" cutoff.
const lowStockThreshold = 10

type Service struct {
	store        Store
	carts        *cart.Registry
	orchestrator *checkout.Orchestrator

	mu           sync.Mutex
	currentSales map[uuid.UUID]*domain.Sale
}

func New(store Store, logger *log.Logger) *Service {
	return &Service{
		store:        store,
		carts:        cart.NewRegistry(),
		orchestrator: checkout.New(store, store, logger),
		currentSales: make(map[uuid.UUID]*domain.Sale),
	}
}

func (s *Service) ListProducts(ctx context.Context, search string, inStock bool) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, repository.ProductListFilter{Search: search, InStock: inStock})
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, input repository.ProductCreateInput) (domain.Product, error) {
	return s.store.CreateProduct(ctx, input)
}

// CartView is what the cart endpoints return.
type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

func (s *Service) Cart(cashierID uuid.UUID) CartView {
	c := s.carts.For(cashierID)
	return CartView{Items: c.Items(), Total: c.Total()}
}

// AddToCart snapshots the product name at add time. Re-adding the same
// product merges quantities and keeps the price already on the line.
func (s *Service) AddToCart(ctx context.Context, cashierID, productID uuid.UUID, price float64, quantity int) (CartView, error) {
	if quantity <= 0 {
		return CartView{}, fmt.Errorf("quantity must be positive")
	}
	if price <= 0 {
		return CartView{}, fmt.Errorf("price must be positive")
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return CartView{}, err
	}

	c := s.carts.For(cashierID)
	c.Add(domain.CartItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       price,
		Quantity:    quantity,
	})
	return CartView{Items: c.Items(), Total: c.Total()}, nil
}

// UpdateCartItem merges price and/or quantity edits into a line. A quantity
// of zero or less removes the line; a negative price is ignored. Editing a
// product that is not in the cart is a no-op.
func (s *Service) UpdateCartItem(cashierID, productID uuid.UUID, price *float64, quantity *int) CartView {
	c := s.carts.For(cashierID)

	if quantity != nil && *quantity <= 0 {
		c.Remove(productID)
		return CartView{Items: c.Items(), Total: c.Total()}
	}

	update := cart.ItemUpdate{Quantity: quantity}
	if price != nil && *price >= 0 {
		update.Price = price
	}
	c.Update(productID, update)
	return CartView{Items: c.Items(), Total: c.Total()}
}

func (s *Service) RemoveFromCart(cashierID, productID uuid.UUID) CartView {
	c := s.carts.For(cashierID)
	c.Remove(productID)
	return CartView{Items: c.Items(), Total: c.Total()}
}

func (s *Service) ClearCart(cashierID uuid.UUID) {
	s.carts.For(cashierID).Clear()
}

// CompleteSale runs the checkout workflow over the caller's cart. On
// success the cart is cleared and the snapshot becomes the caller's current
// sale, overwriting the previous one.
func (s *Service) CompleteSale(ctx context.Context, cashierID uuid.UUID, cashierName string) (*domain.Sale, error) {
	c := s.carts.For(cashierID)

	sale, err := s.orchestrator.CompleteSale(ctx, cashierID, cashierName, c.Items())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.currentSales[cashierID] = sale
	s.mu.Unlock()
	c.Clear()
	return sale, nil
}

// CurrentSale returns the caller's receipt handoff slot, or nil when no
// sale has completed this session.
func (s *Service) CurrentSale(cashierID uuid.UUID) *domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSales[cashierID]
}

func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	return s.store.GetSale(ctx, id)
}

type PurchaseRequest struct {
	ProductID            uuid.UUID
	PurchaseDate         time.Time
	QuantityPurchased    int
	PurchasePricePerUnit float64
	MinSellingPrice      float64
	CreatedBy            uuid.UUID
}

// RecordPurchase appends a purchase-history row, then raises the product's
// stock and refreshes its purchase metadata. The two writes are independent
// commits: if the product update fails the history row remains.
func (s *Service) RecordPurchase(ctx context.Context, req PurchaseRequest) (*domain.Product, error) {
	if req.QuantityPurchased <= 0 {
		return nil, fmt.Errorf("quantity_purchased must be positive")
	}
	if req.PurchasePricePerUnit <= 0 {
		return nil, fmt.Errorf("purchase_price_per_unit must be positive")
	}
	if req.MinSellingPrice <= 0 {
		return nil, fmt.Errorf("min_selling_price must be positive")
	}
	if req.PurchaseDate.IsZero() {
		req.PurchaseDate = time.Now()
	}

	input := repository.PurchaseInput{
		ProductID:            req.ProductID,
		PurchaseDate:         req.PurchaseDate,
		QuantityPurchased:    req.QuantityPurchased,
		PurchasePricePerUnit: req.PurchasePricePerUnit,
		MinSellingPrice:      req.MinSellingPrice,
		CreatedBy:            req.CreatedBy,
	}

	if _, err := s.store.InsertPurchaseRecord(ctx, input); err != nil {
		return nil, err
	}

	stock, err := s.store.GetProductStock(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.store.ApplyPurchaseToProduct(ctx, req.ProductID, stock+req.QuantityPurchased, input); err != nil {
		return nil, err
	}

	return s.store.GetProduct(ctx, req.ProductID)
}

func (s *Service) ListPurchases(ctx context.Context, limit int) ([]domain.PurchaseRecord, error) {
	return s.store.ListPurchaseRecords(ctx, limit)
}

// EnsureDefaultAdmin seeds an admin account with the given credentials when
// no cashier uses that email yet. Without it a fresh database has no account
// that could pass the admin gate to create the first cashier.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	_, err := s.store.GetCashierByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check default admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}
	if _, err := s.store.CreateCashier(ctx, "Administrator", email, string(hash), "admin"); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}
	return nil
}

// Authenticate returns the cashier when the credentials match, and nil for
// both an unknown email and a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Cashier, error) {
	creds, err := s.store.GetCashierByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	cashier := creds.Cashier
	return &cashier, nil
}

func (s *Service) CreateCashier(ctx context.Context, fullName, email, password, role string) (domain.Cashier, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if len(fullName) < 2 {
		return domain.Cashier{}, fmt.Errorf("full_name must be at least 2 characters")
	}
	if email == "" {
		return domain.Cashier{}, fmt.Errorf("email is required")
	}
	if len(password) < 6 {
		return domain.Cashier{}, fmt.Errorf("password must be at least 6 characters")
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = "cashier"
	}
	if role != "admin" && role != "cashier" {
		return domain.Cashier{}, fmt.Errorf("role must be admin or cashier")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Cashier{}, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateCashier(ctx, fullName, email, string(hash), role)
}

func (s *Service) GetCashier(ctx context.Context, id uuid.UUID) (*domain.Cashier, error) {
	return s.store.GetCashierByID(ctx, id)
}

func (s *Service) ListCashiers(ctx context.Context) ([]domain.Cashier, error) {
	return s.store.ListCashiers(ctx)
}

func (s *Service) SalesSummary(ctx context.Context) (domain.SalesSummary, error) {
	return s.store.GetSalesSummary(ctx, lowStockThreshold)
}

func (s *Service) DailySales(ctx context.Context, days int) ([]domain.DailySales, error) {
	return s.store.GetDailySales(ctx, days)
}

func (s *Service) CategoryBreakdown(ctx context.Context) ([]domain.CategoryBreakdown, error) {
	return s.store.GetCategoryBreakdown(ctx)
}

func (s *Service) SalesExport(ctx context.Context, from, to *time.Time) (*excelize.File, error) {
	rows, err := s.store.ListSaleExportRows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return export.SalesWorkbook(rows)
}
