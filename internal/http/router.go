package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/estoque/internal/http/export"
	"github.com/MrJamesThe3rd/estoque/internal/http/health"
	"github.com/MrJamesThe3rd/estoque/internal/http/image"
	"github.com/MrJamesThe3rd/estoque/internal/http/invoice"
	"github.com/MrJamesThe3rd/estoque/internal/http/product"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	opts Options,
	healthH *health.Handler,
	productsV1 *product.Handler,
	imagesV1 *image.Handler,
	invoicesV1 *invoice.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/health", healthH.Check)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			productsV1.Routes(r)
		})

		r.Route("/images", imagesV1.Routes)

		r.Route("/invoices", invoicesV1.Routes)

		r.Route("/export", exportV1.Routes)
	})

	return router
}
