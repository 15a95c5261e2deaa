package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mimieamichy/handy-dashboard/internal/auth"
	"github.com/Mimieamichy/handy-dashboard/internal/domain"
	"github.com/Mimieamichy/handy-dashboard/internal/repository"
	"github.com/Mimieamichy/handy-dashboard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	products map[uuid.UUID]*domain.Product
	creds    map[string]*repository.CashierCredentials
	sales    map[uuid.UUID]*domain.Sale
	saleID   uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]*domain.Product),
		creds:    make(map[string]*repository.CashierCredentials),
		sales:    make(map[uuid.UUID]*domain.Sale),
		saleID:   uuid.New(),
	}
}

func (f *fakeStore) ListProducts(context.Context, repository.ProductListFilter) ([]domain.Product, error) {
	items := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		items = append(items, *p)
	}
	return items, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, input repository.ProductCreateInput) (domain.Product, error) {
	p := domain.Product{ID: uuid.New(), Name: input.Name, Category: input.Category, Stock: input.Stock, Price: input.Price}
	f.products[p.ID] = &p
	return p, nil
}

func (f *fakeStore) GetProductPricing(_ context.Context, id uuid.UUID) (repository.ProductPricing, error) {
	p, ok := f.products[id]
	if !ok {
		return repository.ProductPricing{}, repository.ErrNotFound
	}
	return repository.ProductPricing{Name: p.Name, MinSellingPrice: p.MinSellingPrice}, nil
}

func (f *fakeStore) GetProductStock(_ context.Context, id uuid.UUID) (int, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return p.Stock, nil
}

func (f *fakeStore) UpdateProductStock(_ context.Context, id uuid.UUID, newStock int) error {
	p, ok := f.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock = newStock
	return nil
}

func (f *fakeStore) InsertSale(_ context.Context, cashierID uuid.UUID, cashierName string, subtotal, total float64) (uuid.UUID, time.Time, error) {
	createdAt := time.Now()
	f.sales[f.saleID] = &domain.Sale{
		ID: f.saleID, CashierID: cashierID, Cashier: cashierName,
		Subtotal: subtotal, Total: total, Timestamp: createdAt,
		Items: []domain.CartItem{},
	}
	return f.saleID, createdAt, nil
}

func (f *fakeStore) InsertSaleItems(_ context.Context, saleID uuid.UUID, items []domain.CartItem) error {
	if sale, ok := f.sales[saleID]; ok {
		sale.Items = append(sale.Items, items...)
	}
	return nil
}

func (f *fakeStore) GetSale(_ context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return sale, nil
}

func (f *fakeStore) ListSaleExportRows(context.Context, *time.Time, *time.Time) ([]repository.SaleExportRow, error) {
	return nil, nil
}

func (f *fakeStore) InsertPurchaseRecord(context.Context, repository.PurchaseInput) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeStore) ApplyPurchaseToProduct(_ context.Context, productID uuid.UUID, newStock int, _ repository.PurchaseInput) error {
	if p, ok := f.products[productID]; ok {
		p.Stock = newStock
	}
	return nil
}

func (f *fakeStore) ListPurchaseRecords(context.Context, int) ([]domain.PurchaseRecord, error) {
	return []domain.PurchaseRecord{}, nil
}

func (f *fakeStore) GetCashierByEmail(_ context.Context, email string) (*repository.CashierCredentials, error) {
	creds, ok := f.creds[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return creds, nil
}

func (f *fakeStore) CreateCashier(_ context.Context, fullName, email, passwordHash, role string) (domain.Cashier, error) {
	cashier := domain.Cashier{ID: uuid.New(), FullName: fullName, Email: email, Role: role, CreatedAt: time.Now()}
	f.creds[email] = &repository.CashierCredentials{Cashier: cashier, PasswordHash: passwordHash}
	return cashier, nil
}

func (f *fakeStore) GetCashierByID(_ context.Context, id uuid.UUID) (*domain.Cashier, error) {
	for _, creds := range f.creds {
		if creds.Cashier.ID == id {
			cashier := creds.Cashier
			return &cashier, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListCashiers(context.Context) ([]domain.Cashier, error) {
	return []domain.Cashier{}, nil
}

func (f *fakeStore) GetSalesSummary(context.Context, int) (domain.SalesSummary, error) {
	return domain.SalesSummary{TotalRevenue: 100, Transactions: 4, AverageTransaction: 25}, nil
}

func (f *fakeStore) GetDailySales(context.Context, int) ([]domain.DailySales, error) {
	return []domain.DailySales{}, nil
}

func (f *fakeStore) GetCategoryBreakdown(context.Context) ([]domain.CategoryBreakdown, error) {
	return []domain.CategoryBreakdown{}, nil
}

type fixture struct {
	store  *fakeStore
	svc    *service.Service
	router http.Handler
	tokens *auth.Tokens
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	svc := service.New(store, log.New(io.Discard, "", 0))
	tokens := auth.NewTokens("test-secret")
	router := NewRouter(NewHandler(svc, tokens), tokens)
	return &fixture{store: store, svc: svc, router: router, tokens: tokens}
}

func (f *fixture) addCashier(t *testing.T, role string) (domain.Cashier, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	cashier := domain.Cashier{ID: uuid.New(), FullName: "Dana Lee", Email: role + "@example.com", Role: role}
	f.store.creds[cashier.Email] = &repository.CashierCredentials{Cashier: cashier, PasswordHash: string(hash)}
	token, err := f.tokens.Issue(cashier)
	require.NoError(t, err)
	return cashier, token
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.addCashier(t, "cashier")

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "cashier@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])

	rec = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "cashier@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/cart", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectCashiers(t *testing.T) {
	f := newFixture(t)
	_, cashierToken := f.addCashier(t, "cashier")
	_, adminToken := f.addCashier(t, "admin")

	rec := f.do(t, http.MethodGet, "/api/v1/analytics/summary", cashierToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/analytics/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 100.0, body["total_revenue"])
}

func TestGetProductErrors(t *testing.T) {
	f := newFixture(t)
	_, token := f.addCashier(t, "cashier")

	rec := f.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/products/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartLifecycle(t *testing.T) {
	f := newFixture(t)
	_, token := f.addCashier(t, "cashier")
	product := &domain.Product{ID: uuid.New(), Name: "Coffee", Stock: 10}
	f.store.products[product.ID] = product

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]any{
		"product_id": product.ID, "price": 4.5, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 9.0, body["total"])

	rec = f.do(t, http.MethodDelete, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Empty(t, body["items"])
}

func TestCheckoutStatusMapping(t *testing.T) {
	f := newFixture(t)
	_, token := f.addCashier(t, "cashier")

	// empty cart
	rec := f.do(t, http.MethodPost, "/api/v1/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// price below the product's selling floor
	floor := 10.0
	product := &domain.Product{ID: uuid.New(), Name: "Coffee", Stock: 10, MinSellingPrice: &floor}
	f.store.products[product.ID] = product

	rec = f.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]any{
		"product_id": product.ID, "price": 5.0, "quantity": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/checkout", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Coffee")
}

func TestCheckoutSuccessAndReceipt(t *testing.T) {
	f := newFixture(t)
	cashier, token := f.addCashier(t, "cashier")
	product := &domain.Product{ID: uuid.New(), Name: "Coffee", Stock: 10}
	f.store.products[product.ID] = product

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]any{
		"product_id": product.ID, "price": 4.5, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 9.0, body["total"])
	assert.Equal(t, cashier.FullName, body["cashier"])
	assert.Equal(t, 8, f.store.products[product.ID].Stock)

	// the completed sale is available as the session's current sale
	rec = f.do(t, http.MethodGet, "/api/v1/sales/current", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/sales/"+f.store.saleID.String()+"/receipt", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Coffee")
	assert.Contains(t, rec.Body.String(), "Sales Receipt")
}

func TestCurrentSaleEmptySession(t *testing.T) {
	f := newFixture(t)
	_, token := f.addCashier(t, "cashier")

	rec := f.do(t, http.MethodGet, "/api/v1/sales/current", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCashierRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, cashierToken := f.addCashier(t, "cashier")
	_, adminToken := f.addCashier(t, "admin")

	payload := map[string]string{
		"full_name": "New Hire", "email": "new@example.com", "password": "secret1",
	}
	rec := f.do(t, http.MethodPost, "/api/v1/cashiers", cashierToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/cashiers", adminToken, payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "cashier", decodeBody(t, rec)["role"])
}

// On an empty database the seeded admin is the only way in: it must be able
// to sign in and then create the first real cashier.
func TestSeededAdminUnblocksEmptyDatabase(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.EnsureDefaultAdmin(context.Background(), "admin@pos.local", "admin123"))

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@pos.local", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok)

	rec = f.do(t, http.MethodPost, "/api/v1/cashiers", token, map[string]string{
		"full_name": "First Hire", "email": "first@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetCashierByID(t *testing.T) {
	f := newFixture(t)
	cashier, _ := f.addCashier(t, "cashier")
	_, adminToken := f.addCashier(t, "admin")

	rec := f.do(t, http.MethodGet, "/api/v1/cashiers/"+cashier.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cashier.FullName, decodeBody(t, rec)["full_name"])

	rec = f.do(t, http.MethodGet, "/api/v1/cashiers/"+uuid.NewString(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	f := newFixture(t)
	_, token := f.addCashier(t, "cashier")

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]any{
		"product_id": uuid.New(), "price": 1.0, "quantity": 1, "bogus": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
