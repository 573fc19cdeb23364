package proxy

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// Handler returns the route tree.
func (p *Proxy) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(p.requestID)
	r.Use(middleware.RealIP)
	r.Use(p.accessLog)
	r.Use(middleware.Recoverer)

	if len(p.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: p.origins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/connect", p.handleGatewayConnect)
		r.Get("/example-prompts", p.handleExamplePrompts)

		r.Route("/instances/{name}", func(r chi.Router) {
			r.Get("/connect", p.instanceAction(http.MethodGet, "/connect", "Failed to initiate connection"))
			r.Get("/state", p.instanceAction(http.MethodGet, "/state", "Failed to fetch instance state"))
			r.Post("/webhook", p.instanceAction(http.MethodPost, "/webhook", "Failed to configure webhook"))
			r.Delete("/delete", p.instanceAction(http.MethodDelete, "", "Failed to delete instance"))
		})

		r.Route("/sub-users", func(r chi.Router) {
			r.Get("/", p.passthrough(http.MethodGet, "/sub-users", http.StatusOK))
			r.Post("/", p.passthrough(http.MethodPost, "/sub-users", http.StatusCreated))
			r.Get("/instances", p.passthrough(http.MethodGet, "/sub-users/instances", http.StatusOK))
		})
	})

	return r
}

// requestID tags each request with the caller's X-Request-ID or a fresh
// UUID, under chi's request id key so upstream calls can reuse it.
func (p *Proxy) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (p *Proxy) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		p.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
