package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	incHnd "incentive-service/internal/incentive/handler"
	"incentive-service/internal/middleware"
	"incentive-service/server/http/handlers"
)

func NewRouter(d incHnd.Deps, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(d.Cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(d.Cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Post("/incentives/parse", incHnd.Parse(d))
	r.Post("/incentives/report", incHnd.Report(d))

	return r
}
