package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/balance"
	"github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/ledger"
	"github.com/MrJamesThe3rd/tally/internal/http/recurring"
)

type Options struct {
	Auth           *auth.Manager
	AllowedOrigins []string
	Timeout        time.Duration
	Gatherer       prometheus.Gatherer
}

func New(
	opts Options,
	ledgerV1 *ledger.Handler,
	balanceV1 *balance.Handler,
	recurringV1 *recurring.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(opts.Auth.Middleware)

		r.Route("/groups/{groupID}", func(r chi.Router) {
			balanceV1.Routes(r)
			exportV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json", "multipart/form-data"))
				ledgerV1.Routes(r)
				recurringV1.GroupRoutes(r)
			})
		})

		r.Route("/recurring", recurringV1.Routes)
		r.Route("/scheduler", recurringV1.SchedulerRoutes)
	})

	return router
}
