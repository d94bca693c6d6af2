// Package server exposes live graph sessions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/TFMV/edgesketch/engine"
	"github.com/TFMV/edgesketch/ingest"
	"github.com/TFMV/edgesketch/models"
	"github.com/TFMV/edgesketch/physics"
	"github.com/TFMV/edgesketch/render"
)

const (
	// MaxFramesPerRequest bounds the work a single frames call can request.
	MaxFramesPerRequest = 600
	maxBodyBytes        = 1 << 20
	maxUploadBytes      = 10 << 20
)

// Config for the server
type Config struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	DefaultWidth  float64
	DefaultHeight float64
	Params        physics.Params
	Render        render.OutputOptions
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   120 * time.Second,
		DefaultWidth:  800,
		DefaultHeight: 600,
		Params:        physics.DefaultParams(),
		Render:        *render.NewDefaultOptions("svg"),
	}
}

// Server routes HTTP requests to sessions
type Server struct {
	config Config
	store  *Store
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a server; a nil logger uses slog.Default()
func New(config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config: config,
		store:  NewStore(),
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/sessions", s.handleCreate)
	s.mux.HandleFunc("POST /api/sessions/upload", s.handleUpload)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.withSession(s.handleScene))
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)
	s.mux.HandleFunc("PUT /api/sessions/{id}/source", s.withSession(s.handleSource))
	s.mux.HandleFunc("POST /api/sessions/{id}/frames", s.withSession(s.handleFrames))
	s.mux.HandleFunc("POST /api/sessions/{id}/pointer", s.withSession(s.handlePointer))
	s.mux.HandleFunc("POST /api/sessions/{id}/zoom", s.withSession(s.handleZoom))
	s.mux.HandleFunc("POST /api/sessions/{id}/refresh", s.withSession(s.handleRefresh))
	s.mux.HandleFunc("GET /api/sessions/{id}/render", s.withSession(s.handleRender))
}

// Handler returns the root handler with request logging
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// Store returns the session store
func (s *Server) Store() *Store {
	return s.store
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *Session)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.store.Get(r.PathValue("id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		h(w, r, sess)
	}
}

type createRequest struct {
	Source         string  `json:"source"`
	FixedCountMode bool    `json:"fixedCountMode"`
	FixedCount     int     `json:"fixedCount"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Seed           *uint64 `json:"seed"`
	Sample         bool    `json:"sample"`
}

type createResponse struct {
	ID          string              `json:"id"`
	Diagnostics []models.Diagnostic `json:"diagnostics"`
	Dropped     int                 `json:"dropped,omitempty"`
}

type diagnosticsResponse struct {
	Diagnostics []models.Diagnostic `json:"diagnostics"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	source := req.Source
	if req.Sample {
		source = SampleSource
	}
	s.createSession(w, req, source, 0)
}

// handleUpload creates a session from a multipart "dataFile" in any format
// the ingest package can convert.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("dataFile")
	if err != nil {
		s.writeError(w, badRequest("error retrieving file: %v", err))
		return
	}
	defer file.Close()

	processor, err := ingest.ProcessorFor(header.Filename)
	if err != nil {
		s.writeError(w, badRequest("%v", err))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, badRequest("error reading file: %v", err))
		return
	}
	edges, err := processor.ProcessData(data)
	if err != nil {
		s.writeError(w, badRequest("error processing file: %v", err))
		return
	}

	s.createSession(w, createRequest{}, edges.Text, edges.Dropped)
}

func (s *Server) createSession(w http.ResponseWriter, req createRequest, source string, dropped int) {
	width, height := req.Width, req.Height
	if width <= 0 || height <= 0 {
		width, height = s.config.DefaultWidth, s.config.DefaultHeight
	}
	seed := uint64(time.Now().UnixNano())
	if req.Seed != nil {
		seed = *req.Seed
	}

	loop := engine.New(engine.Options{
		Width:          width,
		Height:         height,
		Seed:           seed,
		FixedCountMode: req.FixedCountMode,
		FixedCount:     req.FixedCount,
		Params:         s.config.Params,
		Logger:         s.logger,
	})
	diags := loop.SetSource(source)
	sess := s.store.Create(loop)

	s.logger.Info("session created", "id", sess.ID, "warnings", len(diags))
	writeJSON(w, http.StatusCreated, createResponse{ID: sess.ID, Diagnostics: diags, Dropped: dropped})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request, sess *Session) {
	writeJSON(w, http.StatusOK, sess.Loop.Snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sourceRequest struct {
	Source         string `json:"source"`
	FixedCountMode *bool  `json:"fixedCountMode"`
	FixedCount     int    `json:"fixedCount"`
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request, sess *Session) {
	var req sourceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var diags []models.Diagnostic
	if req.FixedCountMode != nil {
		diags = sess.Loop.Configure(req.Source, *req.FixedCountMode, req.FixedCount)
	} else {
		diags = sess.Loop.SetSource(req.Source)
	}
	writeJSON(w, http.StatusOK, diagnosticsResponse{Diagnostics: diags})
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request, sess *Session) {
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxFramesPerRequest {
			s.writeError(w, badRequest("n must be an integer in [1, %d]", MaxFramesPerRequest))
			return
		}
		n = v
	}

	sess.Loop.Frames(n)
	writeJSON(w, http.StatusOK, sess.Loop.Snapshot())
}

type pointerRequest struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request, sess *Session) {
	var req pointerRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	switch req.Type {
	case "down":
		sess.Loop.PointerDown(req.X, req.Y)
	case "move":
		sess.Loop.PointerMove(req.X, req.Y)
	case "up":
		sess.Loop.PointerUp()
	case "leave":
		sess.Loop.PointerLeave()
	case "wheel":
		sess.Loop.Wheel(req.DeltaY)
	default:
		s.writeError(w, badRequest("unknown pointer event type %q", req.Type))
		return
	}
	writeJSON(w, http.StatusOK, sess.Loop.Snapshot())
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request, sess *Session) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var state models.ViewState
	switch req.Direction {
	case "in":
		state = sess.Loop.ZoomIn()
	case "out":
		state = sess.Loop.ZoomOut()
	case "reset":
		sess.Loop.ResetView()
		state = sess.Loop.View()
	default:
		s.writeError(w, badRequest("direction must be in, out or reset"))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request, sess *Session) {
	writeJSON(w, http.StatusOK, diagnosticsResponse{Diagnostics: sess.Loop.Refresh()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request, sess *Session) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "svg"
	}

	renderer, err := render.GetRenderer(format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	options := s.config.Render
	options.Format = format
	if raw := q.Get("directed"); raw != "" {
		directed, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, badRequest("directed must be a boolean"))
			return
		}
		options.Directed = directed
	}
	if raw := q.Get("noise"); raw != "" {
		noise, err := strconv.ParseFloat(raw, 64)
		if err != nil || noise < 0 || noise > 1 {
			s.writeError(w, badRequest("noise must be a number in [0, 1]"))
			return
		}
		options.NoiseIntensity = noise
	}

	scene := sess.Loop.Snapshot()
	output, err := renderer.Render(&scene, &options)
	if err != nil {
		s.logger.Error("render failed", "session", sess.ID, "format", format, "error", err)
		http.Error(w, "Error generating visualization: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Write(output)
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("malformed JSON body: %v", err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, render.ErrUnsupportedFormat), errors.As(err, &reqErr):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(v)
}
