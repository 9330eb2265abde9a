package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/novaasia/ordering-service/internal/handler"
)

type Handlers struct {
	Order    *handler.OrderHandler
	Discount *handler.DiscountHandler
	Settings *handler.SettingsHandler
	Review   *handler.ReviewHandler
	Events   *handler.EventsHandler
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		h.Order.RegisterRoutes(api)
		h.Discount.RegisterRoutes(api)
		h.Settings.RegisterRoutes(api)
		h.Review.RegisterRoutes(api)
		h.Events.RegisterRoutes(api)
	})

	return r
}
