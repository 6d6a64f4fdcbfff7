package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig selects what the server exposes. Nil services are not mounted.
type RouterConfig struct {
	WS      *WSHandler
	Content ContentAPI
	Results ResultsAPI
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if cfg.WS != nil {
		r.Get("/ws", cfg.WS.ServeWS)
		r.Get("/ws/activity", cfg.WS.ServeActivity)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		if cfg.Content != nil {
			h := contentHandlers{content: cfg.Content}
			r.Get("/catalogs/{quizID}", h.getCatalog)
			r.Post("/catalogs/{quizID}/items/{itemID}/check", h.checkAnswer)
		}
		if cfg.Results != nil {
			h := resultsHandlers{results: cfg.Results}
			r.Post("/results", h.submit)
			r.Get("/results/{sessionID}", h.get)
			r.Get("/learners/{learnerID}/results", h.listByLearner)
		}
	})

	return r
}

// loggingMiddleware logs HTTP requests using slog.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
