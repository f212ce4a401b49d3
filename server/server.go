package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server represents the HTTP server with chi router
type Server struct {
	router *chi.Mux
	addr   string
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(addr string) *Server {
	router := chi.NewRouter()

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		router: router,
		addr:   addr,
		server: server,
	}
}

// GetRouter returns the chi router for module registration
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// RegisterModule registers a module's API endpoints
func (s *Server) RegisterModule(module ModuleRegistrar) error {
	return module.RegisterRoutes(s.router)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("🚀 Starting server on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// SetupBasicRoutes sets up basic server routes
func (s *Server) SetupBasicRoutes() {
	// Health check endpoint
	s.router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "timestamp": "%s"}`, time.Now().Format(time.RFC3339))
	})
}
