// Package api exposes the controller over HTTP: a read-only status endpoint
// and the narrow command surface (setpoints, mode, enable).
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"smartclimate/internal/controller"
	"smartclimate/internal/engine"

	"go.uber.org/zap"
)

// Server provides the HTTP API for the climate controller
type Server struct {
	ctrl   *controller.Controller
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a new API server
func NewServer(ctrl *controller.Controller, logger *zap.Logger, port int) *Server {
	s := &Server{
		ctrl:   ctrl,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleSitemap)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/setpoint", s.handleSetpoint)
	mux.HandleFunc("/api/mode", s.handleMode)
	mux.HandleFunc("/api/enabled", s.handleEnabled)
	mux.HandleFunc("/api/reset", s.handleReset)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// handleStatus returns the controller snapshot as JSON
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.ctrl.Snapshot()); err != nil {
		s.logger.Error("Failed to encode status", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.logger.Debug("Status request served", zap.String("remote_addr", r.RemoteAddr))
}

// SetpointRequest is the body of POST /api/setpoint
type SetpointRequest struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

func (s *Server) handleSetpoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SetpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := s.ctrl.SetSetpoint(req.Kind, req.Value); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.writeOK(w)
}

// ModeRequest is the body of POST /api/mode
type ModeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	mode, err := engine.ParseOperatingMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.ctrl.SetMode(mode); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.writeOK(w)
}

// EnabledRequest is the body of POST /api/enabled
type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EnabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	s.ctrl.SetEnabled(req.Enabled)
	s.writeOK(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.ctrl.ResetTemperatures()
	s.writeOK(w)
}

func (s *Server) writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleHealth returns a simple health check response
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Endpoint represents an API endpoint with its documentation
type Endpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// handleSitemap returns a list of all available API endpoints
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	endpoints := []Endpoint{
		{"/", "GET", "This sitemap - lists all available API endpoints"},
		{"/health", "GET", "Health check endpoint - returns {\"status\": \"ok\"}"},
		{"/api/status", "GET", "Current controller state, decision and sensor readings"},
		{"/api/setpoint", "POST", "Set a setpoint: {\"kind\": \"comfort|eco|boost|cooling\", \"value\": 20.5}"},
		{"/api/mode", "POST", "Set operating mode: {\"mode\": \"auto|force_comfort|force_eco|force_cooling|manual_override\"}"},
		{"/api/enabled", "POST", "Enable or disable control: {\"enabled\": true}"},
		{"/api/reset", "POST", "Reset setpoints to configured defaults"},
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Smart Climate Control API\n")
	fmt.Fprintf(w, "=========================\n\n")
	fmt.Fprintf(w, "Available endpoints:\n\n")
	for _, ep := range endpoints {
		fmt.Fprintf(w, "  %-6s %-16s %s\n", ep.Method, ep.Path, ep.Description)
	}
	fmt.Fprintf(w, "\nExamples:\n\n")
	fmt.Fprintf(w, "  curl http://localhost%s/api/status | jq\n", s.server.Addr)
	fmt.Fprintf(w, "  curl -X POST -d '{\"kind\":\"comfort\",\"value\":21}' http://localhost%s/api/setpoint\n\n", s.server.Addr)

	s.logger.Debug("Sitemap request served", zap.String("remote_addr", r.RemoteAddr))
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP API server", zap.String("addr", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping HTTP API server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
