package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	mux  *chi.Mux
	cors func(http.Handler) http.Handler
}

// New builds the router. origins feeds the CORS policy of the browser-facing routes.
func New(origins []string) *Server {
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)           // chi's built-in recover
	m.Use(Timeout(30 * time.Second)) // timeout wrapper
	m.Use(BodyLimit(1 << 20))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey", "If-None-Match"},
		ExposedHeaders: []string{"ETag", "X-Request-Id", "X-Synthetic-Data"},
		MaxAge:         300,
	})

	return &Server{mux: m, cors: c}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
