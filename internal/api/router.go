package api

import (
	_ "fxdeals/docs"
	"fxdeals/internal/deal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(dealHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(AccessLog)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Route("/api/v1/deals", func(r chi.Router) {
		r.Post("/", dealHandler.CreateDeal)
		r.Post("/import", dealHandler.ImportDeals)
		r.Get("/imports/{id}", dealHandler.GetImportRun)
		r.Get("/{dealUniqueID}", dealHandler.GetDeal)
	})
	return router
}
