package handler

import (
	"net/http"

	"sewa-be/internal/middleware"
	"sewa-be/internal/order"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the /api/v1 tree. The auth and product routes are public;
// everything else requires a caller.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.ListCart)
			r.Post("/", h.AddCartLine)
			r.Post("/checkout", h.Checkout)
			r.Get("/{id}", h.GetCartLine)
			r.Patch("/{id}", h.UpdateCartLine)
			r.Delete("/{id}", h.RemoveCartLine)
		})

		r.Route("/order", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Post("/{id}/request_cancel", h.TransitionOrder(order.ActionRequestCancel))
			r.Post("/{id}/confirm_received", h.TransitionOrder(order.ActionConfirmReceived))
			r.Post("/{id}/approve", h.TransitionOrder(order.ActionApprove))
			r.Post("/{id}/ship", h.TransitionOrder(order.ActionShip))
			r.Post("/{id}/mark_returning", h.TransitionOrder(order.ActionMarkReturning))
			r.Post("/{id}/complete", h.TransitionOrder(order.ActionComplete))
		})

		r.Route("/shipping", func(r chi.Router) {
			r.Get("/", h.ListShippings)
			r.Post("/", h.CreateShipping)
			r.Get("/{order_id}", h.GetShipping)
		})

		r.Route("/seller-requests", func(r chi.Router) {
			r.Get("/", h.ListSellerRequests)
			r.Post("/", h.SubmitSellerRequest)
			r.Get("/{id}", h.GetSellerRequest)
			r.Patch("/{id}", h.ReviewSellerRequest)
		})
	})

	return r
}
