package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the storefront API.
func NewRouter(products *ProductHandler, carts *CartHandler, orders *CheckoutHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", products.List)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.Get)
			r.Delete("/", carts.Clear)
			r.Post("/items", carts.AddItem)
			r.Put("/items", carts.UpdateQuantity)
			r.Delete("/items/{productID}", carts.RemoveItem)
		})

		r.Post("/checkout", orders.Checkout)
	})

	return r
}
