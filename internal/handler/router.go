package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/imagine/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса Imagine.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.GzipMiddleware)

	r.Post("/prebook", h.Prebook)
	r.Get("/prebook/quote", h.Quote)
	r.Post("/users/redeem", h.RedeemStub)

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", h.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Post("/logout", h.AdminLogout)
			r.Get("/me", h.AdminMe)

			r.Get("/dashboard", h.Dashboard)
			r.Get("/dashboard/export", h.DashboardExport)

			r.Get("/rewards", h.Rewards)
			r.Get("/rewards/export", h.RewardsExport)
			r.Post("/rewards/redeem", h.AdminRedeem)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
