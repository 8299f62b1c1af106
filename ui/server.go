package ui

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"autolyze/app"
	"autolyze/ports"
)

// Server exposes profiling runs over a JSON API
type Server struct {
	router    *chi.Mux
	service   *app.ProfileService
	runs      ports.RunRepository
	port      string
	outputDir string
}

// Config holds server configuration
type Config struct {
	Port      string
	OutputDir string
}

// NewServer creates the API server and mounts its routes
func NewServer(config Config, service *app.ProfileService, runs ports.RunRepository) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		service:   service,
		runs:      runs,
		port:      config.Port,
		outputDir: config.OutputDir,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/profile", s.handleProfile)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return s
}

// Start blocks serving HTTP on the configured port
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.port)
	log.Printf("[Server] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router exposes the mux for tests
func (s *Server) Router() http.Handler {
	return s.router
}
