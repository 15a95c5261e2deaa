package http

import (
	"net/http"

	"github.com/Mimieamichy/handy-dashboard/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler, tokens *auth.Tokens) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(tokens))

			r.Get("/products", handler.ListProducts)
			r.Get("/products/{id}", handler.GetProduct)

			r.Get("/cart", handler.GetCart)
			r.Post("/cart/items", handler.AddCartItem)
			r.Patch("/cart/items/{productId}", handler.UpdateCartItem)
			r.Delete("/cart/items/{productId}", handler.RemoveCartItem)
			r.Delete("/cart", handler.ClearCart)

			r.Post("/checkout", handler.Checkout)
			r.Get("/sales/current", handler.CurrentSale)
			r.Get("/sales/{id}", handler.GetSale)
			r.Get("/sales/{id}/receipt", handler.SaleReceipt)

			r.Get("/purchases", handler.ListPurchases)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(tokens))
			r.Use(RequireAdmin)

			r.Post("/products", handler.CreateProduct)
			r.Post("/purchases", handler.RecordPurchase)

			r.Get("/cashiers", handler.ListCashiers)
			r.Get("/cashiers/{id}", handler.GetCashier)
			r.Post("/cashiers", handler.CreateCashier)

			r.Get("/analytics/summary", handler.SalesSummary)
			r.Get("/analytics/daily", handler.DailySales)
			r.Get("/analytics/categories", handler.CategoryBreakdown)
			r.Get("/analytics/export", handler.ExportSales)
		})
	})

	return r
}
