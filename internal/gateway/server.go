// Package gateway hosts the analysis function and its local API.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/gateway/ws"
	"github.com/dohr-michael/promptdna/internal/storage"
)

const maxRequestBody = 1 << 20

// Server is the analysis function HTTP server.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	service    *Service
	metrics    *Metrics
	function   string
	provider   string
}

// NewServer creates the server. function is the name the analysis is
// invoked under, provider the default provider reported by health.
func NewServer(cfg config.GatewayConfig, function, provider string, svc *Service, bus *events.Bus, metrics *Metrics) *Server {
	hub := ws.NewHub(bus, svc)
	hub.OnClientsChanged = metrics.SetWSClients

	s := &Server{
		hub:      hub,
		bus:      bus,
		service:  svc,
		metrics:  metrics,
		function: function,
		provider: provider,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Browser clients call the function cross-origin with an apikey header.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SetHeader("Access-Control-Allow-Origin", "*"))
		r.Use(middleware.SetHeader("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type"))
		r.Options("/functions/v1/{function}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/functions/v1/{function}", s.handleFunction)
	})

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/analyses", s.handleAnalyses)
	r.Get("/api/analyses/{id}", s.handleAnalysis)
	r.Get("/api/ws", hub.ServeWS)
	if metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("analysis service listening", "addr", ln.Addr().String(), "function", s.function, "provider", s.provider)
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

type functionRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	if name := chi.URLParam(r, "function"); name != s.function {
		writeError(w, http.StatusNotFound, fmt.Sprintf("function %q not found", name))
		return
	}

	var req functionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.service.Analyze(r.Context(), req.Text, req.Model)
	switch {
	case errors.Is(err, ErrEmptyText):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("X-Analysis-Id", rec.ID)
	writeJSON(w, http.StatusOK, rec.Profile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"function":   s.function,
		"provider":   s.provider,
		"ws_clients": s.hub.ClientCount(),
		"slots":      s.service.Slots(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	history := s.bus.History(queryLimit(r, 50))
	if history == nil {
		history = []events.Event{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	recs, err := s.service.Recent(queryLimit(r, storage.DefaultListLimit))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func queryLimit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
