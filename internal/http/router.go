package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/carts/{ownerKey}", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{itemId}", h.UpdateItem)
			r.Delete("/items/{itemId}", h.RemoveItem)
			r.Get("/price", h.PricePreview)
			r.Post("/orders", h.PlaceOrder)
		})

		r.Get("/orders/{orderId}", h.GetOrder)
		r.Get("/orders", h.ListOrders)

		r.Put("/variants/{sku}/stock", h.SetStock)
		r.Post("/coupons", h.CreateCoupon)
	})

	return r
}
