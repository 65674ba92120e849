package router

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"carechat-backend/internal/handlers"
	"carechat-backend/internal/middleware"
)

func New(
	relayHandler *handlers.RelayHandler,
	relayLimiter *middleware.RateLimiter,
	static fs.FS,
	corsOrigins []string,
	log *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestLogger(&chimiddleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(log.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(corsOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Relay Routes ────
	r.Group(func(r chi.Router) {
		if relayLimiter != nil {
			r.Use(relayLimiter.Middleware)
		}
		r.Post("/api/gemini", relayHandler.Relay)
		r.Post("/api/v1/relay", relayHandler.Relay)
	})

	// ──── Chat Widget ────
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}
