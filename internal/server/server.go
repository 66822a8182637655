// Package server exposes the agent's health and Prometheus metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Prescott-Data/nextdoor/bridge"
	"github.com/Prescott-Data/nextdoor/bridge/telemetry"
)

// Status tracks the bridge connection through its hooks.
type Status struct {
	mu           sync.RWMutex
	connectionID string
	connected    bool
	since        time.Time
	lastError    string
}

func NewStatus(connectionID string) *Status {
	return &Status{connectionID: connectionID, since: time.Now()}
}

// OnConnect is a bridge.ConnectHook.
func (s *Status) OnConnect(bridge.SendFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	s.since = time.Now()
	s.lastError = ""
}

// OnDisconnect is a bridge.DisconnectHook.
func (s *Status) OnDisconnect(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.since = time.Now()
	if err != nil {
		s.lastError = err.Error()
	}
}

type healthResponse struct {
	Status       string    `json:"status"`
	ConnectionID string    `json:"connection_id"`
	Since        time.Time `json:"since"`
	LastError    string    `json:"last_error,omitempty"`
}

func (s *Status) snapshot() healthResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := "disconnected"
	if s.connected {
		status = "healthy"
	}
	return healthResponse{Status: status, ConnectionID: s.connectionID, Since: s.since, LastError: s.lastError}
}

type Server struct {
	mux    *chi.Mux
	status *Status
	http   *http.Server
}

func New(addr string, status *Status) *Server {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(30 * time.Second))
	mux.Use(middleware.RealIP)

	s := &Server{mux: mux, status: status}
	s.http = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		res := s.status.snapshot()
		w.Header().Set("Content-Type", "application/json")
		if res.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(res)
	})

	// Prometheus metrics
	s.mux.Handle("/metrics", telemetry.Handler(nil))
}

// Handler is the routed mux, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
