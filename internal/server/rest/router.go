package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the policy knobs of the HTTP surface.
type RouterOptions struct {
	APIToken    string
	JWTSecret   string
	CORSOrigins []string
	RateCounter RateCounter
	RateLimit   int
	RateWindow  time.Duration
}

func NewRouter(h *Handler, opts RouterOptions, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(log))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if opts.RateCounter != nil && opts.RateLimit > 0 {
			r.Use(RateLimit(opts.RateCounter, opts.RateLimit, opts.RateWindow, "ratelimit:api", log))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(opts.JWTSecret, common.RoleAdmin))
			r.Post("/donations/{id}/freeze", h.FreezeDonation)
			r.Put("/ngos/{id}/verification", h.SetNGOVerification)
			r.Get("/reconciliation", h.Reconcile)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAPIToken(opts.APIToken))

			r.Post("/donations", h.CreateDonation)
			r.Get("/donations", h.ListDonations)
			r.Put("/donations/{id}/location", h.SetRecipientLocation)
			r.Put("/donations/{id}/evidence", h.AttachEvidence)
			r.Post("/verify-impact", h.VerifyImpact)
			r.Post("/tx-status/{hash}", h.TxStatus)

			r.Post("/ngos", h.CreateNGO)
			r.Get("/ngos", h.ListNGOs)

			r.With(requireBearerWhen(opts.JWTSecret != "")).Post("/projects", h.CreateProject)
			r.Get("/projects", h.ListProjects)

			r.Route("/evidence", func(r chi.Router) {
				r.Post("/", h.PinEvidence)
				r.Post("/upload", h.UploadEvidence)
				r.Post("/presign", h.PresignEvidence)
				r.Get("/retrieve/{cid}", h.RetrieveEvidence)
				r.Get("/health", h.EvidenceHealth)
			})
		})
	})

	return r
}
