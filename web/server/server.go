package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-sphere-raytracer/pkg/log"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// renderTimeout bounds a single render request
const renderTimeout = 2 * time.Minute

// Server handles web requests for the raytracer
type Server struct {
	port        int
	logger      *log.Logger
	sceneConfig *scene.Config
}

// NewServer creates a web server rendering the given scene config. A nil
// config serves the reference scene.
func NewServer(port int, sceneConfig *scene.Config, logger *log.Logger) *Server {
	if sceneConfig == nil {
		sceneConfig = scene.DefaultConfig()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Server{port: port, logger: logger, sceneConfig: sceneConfig}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Width   int    // Image width
	Samples int    // Samples per pixel
	Seed    int64  // Random seed
	Workers int    // Parallel scanline workers
	Format  string // ppm or png
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/render", s.handleRender)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", log.String("addr", "http://localhost"+addr))
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender renders the scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(log.String("request_id", uuid.NewString()))

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cfg := *s.sceneConfig
	cfg.Image.Width = req.Width
	cfg.Image.SamplesPerPixel = req.Samples
	sceneObj, err := cfg.Build()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rt, err := renderer.NewRaytracer(sceneObj, renderer.Config{
		SamplesPerPixel: req.Samples,
		Workers:         req.Workers,
		Seed:            req.Seed,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Encode into memory so a failed render can still report an error status
	var buf bytes.Buffer
	enc, err := output.NewWriter(req.Format, &buf)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	stats, err := rt.Render(ctx, enc)
	if err == nil {
		err = enc.Close()
	}
	if err != nil {
		logger.Error("render failed", log.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	logger.Info("render completed",
		log.Int("width", stats.Width),
		log.Int("height", stats.Height),
		log.Int("samples", stats.SamplesPerPixel),
		log.Duration("elapsed", stats.Duration),
	)

	w.Header().Set("Content-Type", output.ContentType(req.Format))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("response write failed", log.Err(err))
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Format: "png"}

	if format := query.Get("format"); format != "" {
		if format != "png" && format != "ppm" {
			return nil, fmt.Errorf("format must be png or ppm, got: %s", format)
		}
		req.Format = format
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", s.sceneConfig.Image.Width, 2, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", s.sceneConfig.Image.SamplesPerPixel, 1, 10000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 4, 1, 64); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", int(renderer.DefaultSeed), 1, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	if req.Width*req.Samples > 2000*500 {
		s.logger.Warn("large render requested", log.Int("width", req.Width), log.Int("samples", req.Samples))
	}
	return req, nil
}

func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
