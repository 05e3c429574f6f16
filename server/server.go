// Package server is the HTTP surface: the chat relay, itinerary
// generation, listing search, and the server-hosted conversation flow.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-travel-agent/assistant"
	"ai-travel-agent/config"
	"ai-travel-agent/listings"
	"ai-travel-agent/logger"
	"ai-travel-agent/session"

	"github.com/gorilla/mux"
)

// Server hosts the travel agent API.
type Server struct {
	cfg        *config.Config
	assistant  *assistant.Client
	listings   *listings.Service
	planner    *session.Planner
	router     *mux.Router
	httpServer *http.Server
}

// New creates a server around its collaborators.
func New(cfg *config.Config, ai *assistant.Client, ls *listings.Service, planner *session.Planner) *Server {
	s := &Server{
		cfg:       cfg,
		assistant: ai,
		listings:  ls,
		planner:   planner,
		router:    mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/health-check", s.handleHealthCheck).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chat", s.handleChat).Methods("POST", "OPTIONS")
	api.HandleFunc("/itinerary/generate", s.handleGenerateItinerary).Methods("POST", "OPTIONS")
	api.HandleFunc("/listings", s.handleGetListings).Methods("GET")
	api.HandleFunc("/listings", s.handleSearchListings).Methods("POST", "OPTIONS")
	api.HandleFunc("/conversation", s.handleStartConversation).Methods("POST", "OPTIONS")
	api.HandleFunc("/conversation/{id}", s.handleConversationTurn).Methods("POST", "OPTIONS")
	api.HandleFunc("/conversation/{id}", s.handleGetConversation).Methods("GET")
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until SIGINT or SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-stop
		logger.Info("shutting down", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "addr", addr, "frontend", s.cfg.Server.FrontendURL)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware allows the configured frontend origin only.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.Server.FrontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
