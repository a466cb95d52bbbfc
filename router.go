package main

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"farmledger/notify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.yaml
var openapiYAML []byte

// routes wires middlewares and endpoints.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", a.handleHealth)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		_, _ = w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Route("/crops", func(cr chi.Router) {
				cr.Get("/", a.handleListCrops)
				cr.Post("/", a.handleCreateCrop)
				cr.Get("/{id}", a.handleGetCrop)
				cr.Put("/{id}", a.handleUpdateCrop)
				cr.Delete("/{id}", a.handleDeleteCrop)
			})

			pr.Route("/resources", func(rr chi.Router) {
				rr.Get("/", a.handleListResources)
				rr.Post("/", a.handleCreateResource)
				rr.Get("/{id}", a.handleGetResource)
				rr.Put("/{id}", a.handleUpdateResource)
				rr.Delete("/{id}", a.handleDeleteResource)
			})

			pr.Route("/user", func(ur chi.Router) {
				ur.Get("/profile", a.handleGetProfile)
				ur.Post("/profile", a.handleCreateProfile)
				ur.Put("/profile", a.handleUpdateProfile)
				ur.Get("/prediction-history", a.handlePredictionHistory)
				ur.Delete("/prediction-history", a.handlePredictionHistory)
			})

			pr.Post("/predict/{kind}", a.handlePredict)
			pr.Post("/reports/{kind}", a.handleReport)
			pr.Get("/schemes", a.handleSchemes)
			pr.Get("/schemes/*", a.handleSchemes)

			pr.Post("/notifications/sms", a.handleSendSMS)
		})
	})

	return r
}

// handleHealth pings the ledger store.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResp{Status: "ok", Store: "memory", Upstream: a.upstream != nil, SMS: gatewayName(a.sms)}
	if a.mongo != nil {
		resp.Store = "mongo"
	}
	if err := a.crops.Ping(ctx); err != nil {
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, envelope{Data: resp, Error: "store unreachable", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: resp})
}

func gatewayName(g notify.Gateway) string {
	switch g.(type) {
	case notify.Disabled:
		return "disabled"
	case notify.DryRun:
		return "dry-run"
	case *notify.Twilio:
		return "twilio"
	}
	return fmt.Sprintf("%T", g)
}
