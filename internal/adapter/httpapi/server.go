// Package httpapi exposes the prediction use cases over JSON HTTP along with
// health, readiness, and metrics endpoints. Field names in request and
// response bodies are bit-exact contracts with API consumers.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beaconx/disaster-predict/internal/domain"
	"github.com/beaconx/disaster-predict/internal/predictor"
)

const serviceVersion = "1.0.0"

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the prediction API.
type Server struct {
	httpServer     *http.Server
	predictor      *predictor.Predictor
	ready          ReadinessChecker
	requestTimeout time.Duration
	clock          clockwork.Clock
	logger         *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, p *predictor.Predictor, requestTimeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor:      p,
		ready:          p,
		requestTimeout: requestTimeout,
		clock:          clock,
		logger:         logger,
	}

	mux.HandleFunc("GET /", s.handleInfo)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/earthquake/predict", s.handleEarthquakeSeverity)
	mux.HandleFunc("POST /api/v1/cyclone/predict-path", s.handleCyclonePath)
	mux.HandleFunc("POST /api/v1/cyclone/predict-kinematics", s.handleCycloneKinematics)
	mux.HandleFunc("POST /api/v1/cyclone/classify-severity", s.handleCycloneSeverity)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "disaster prediction service",
		"version": serviceVersion,
		"status":  "running",
		"endpoints": map[string]string{
			"earthquake":         "/api/v1/earthquake/predict",
			"cyclone_path":       "/api/v1/cyclone/predict-path",
			"cyclone_kinematics": "/api/v1/cyclone/predict-kinematics",
			"cyclone_severity":   "/api/v1/cyclone/classify-severity",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// earthquakeRequest mirrors the earthquake wire contract. Pointer fields
// distinguish missing keys from zero values.
type earthquakeRequest struct {
	Magnitude *float64 `json:"magnitude"`
	Depth     *float64 `json:"depth"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// cyclonePoint mirrors one cyclone track point on the wire.
type cyclonePoint struct {
	ISOTime    *string  `json:"ISO_TIME"`
	Lat        *float64 `json:"LAT"`
	Lon        *float64 `json:"LON"`
	StormSpeed *float64 `json:"STORM_SPEED"`
	StormDir   *float64 `json:"STORM_DIR"`
}

// cycloneRequest is a current track point plus optional prior observations,
// oldest first.
type cycloneRequest struct {
	cyclonePoint
	History []cyclonePoint `json:"HISTORY"`
}

func (s *Server) handleEarthquakeSeverity(w http.ResponseWriter, r *http.Request) {
	var req earthquakeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Magnitude == nil || req.Depth == nil || req.Latitude == nil || req.Longitude == nil {
		s.writeError(w, fmt.Errorf("%w: magnitude, depth, latitude, and longitude are required", domain.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.predictor.PredictEarthquakeSeverity(ctx, domain.EarthquakeInput{
		Magnitude: *req.Magnitude,
		Depth:     *req.Depth,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"severity": result.Severity.String()})
}

func (s *Server) handleCyclonePath(w http.ResponseWriter, r *http.Request) {
	history, current, err := decodeCyclone(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.predictor.PredictCyclonePath(ctx, history, current)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCycloneKinematics(w http.ResponseWriter, r *http.Request) {
	history, current, err := decodeCyclone(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.predictor.PredictCycloneKinematics(ctx, history, current)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCycloneSeverity(w http.ResponseWriter, r *http.Request) {
	// Severity classifies the current point only; history is accepted for
	// payload symmetry with the other cyclone endpoints.
	_, current, err := decodeCyclone(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.predictor.ClassifyCycloneSeverity(ctx, current)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"severity": result.Severity.String()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrValidation, err)
	}
	return nil
}

func decodeCyclone(r *http.Request) ([]domain.CycloneObservation, domain.CycloneObservation, error) {
	var req cycloneRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, domain.CycloneObservation{}, err
	}

	current, err := req.cyclonePoint.toObservation()
	if err != nil {
		return nil, domain.CycloneObservation{}, err
	}

	history := make([]domain.CycloneObservation, 0, len(req.History))
	for i, p := range req.History {
		obs, err := p.toObservation()
		if err != nil {
			return nil, domain.CycloneObservation{}, fmt.Errorf("HISTORY[%d]: %w", i, err)
		}
		history = append(history, obs)
	}
	return history, current, nil
}

func (p cyclonePoint) toObservation() (domain.CycloneObservation, error) {
	if p.ISOTime == nil || p.Lat == nil || p.Lon == nil || p.StormSpeed == nil || p.StormDir == nil {
		return domain.CycloneObservation{}, fmt.Errorf("%w: ISO_TIME, LAT, LON, STORM_SPEED, and STORM_DIR are required", domain.ErrValidation)
	}
	ts, err := time.Parse(time.RFC3339, *p.ISOTime)
	if err != nil {
		return domain.CycloneObservation{}, fmt.Errorf("%w: ISO_TIME must be a valid RFC 3339 timestamp: %v", domain.ErrValidation, err)
	}
	return domain.CycloneObservation{
		Time:      ts,
		Lat:       *p.Lat,
		Lon:       *p.Lon,
		Speed:     *p.StormSpeed,
		Direction: *p.StormDir,
	}, nil
}

// writeError maps the error taxonomy to status codes: client faults to 400,
// model store faults to 503, everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientHistory):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrModelNotFound), errors.Is(err, domain.ErrModelLoad), errors.Is(err, domain.ErrModelContract):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	default:
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
