package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits shared by every endpoint that builds a scene
const (
	minSize, maxSize       = 16, 2000
	minSamples, maxSamples = 1, 64
	minDepth, maxDepth     = 0, 16
	minGrid, maxGrid       = 1, 16
)

// Server handles web requests for the ray tracer
type Server struct {
	port      int
	scenesDir string
	logger    zerolog.Logger
}

// NewServer creates a new web server. Scene files are discovered in scenesDir.
func NewServer(port int, scenesDir string, logger zerolog.Logger) *Server {
	return &Server{port: port, scenesDir: scenesDir, logger: logger}
}

// RenderRequest holds the scene parameters common to render and inspect requests
type RenderRequest struct {
	Scene      string `json:"scene"`      // Built-in id or scene file name
	Width      int    `json:"width"`      // Image width
	Height     int    `json:"height"`     // Image height
	Samples    int    `json:"samples"`    // Primary rays per pixel
	MaxDepth   int    `json:"maxDepth"`   // Reflection/refraction depth
	ShadowGrid int    `json:"shadowGrid"` // N for the N×N shadow grid
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/scenes", s.handleScenes).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/scene-config", s.handleSceneConfig).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/render", s.handleRender).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/inspect", s.handleInspect).Methods(http.MethodGet, http.MethodOptions)

	r.Use(s.logMiddleware, corsMiddleware)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msgf("Starting web server on http://localhost%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleSceneConfig returns the default render settings of a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "cornell"
	}

	sceneObj, err := scene.Lookup(sceneName, s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cfg := sceneObj.Config
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":      cfg.Width,
			"height":     cfg.Height,
			"samples":    cfg.PixelSamples,
			"maxDepth":   cfg.MaxDepth,
			"shadowGrid": cfg.ShadowGridSize,
			"fresnel":    cfg.Fresnel,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minSize, "max": maxSize},
			"height":     map[string]int{"min": minSize, "max": maxSize},
			"samples":    map[string]int{"min": minSamples, "max": maxSamples},
			"maxDepth":   map[string]int{"min": minDepth, "max": maxDepth},
			"shadowGrid": map[string]int{"min": minGrid, "max": maxGrid},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// parseSceneRequest parses the scene parameters. Missing values fall back
// to the scene's own settings.
func (s *Server) parseSceneRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	values := r.URL.Query()
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	sceneObj, err := scene.Lookup(req.Scene, s.scenesDir)
	if err != nil {
		return nil, nil, err
	}
	cfg := sceneObj.Config

	if req.Width, err = parseIntParam(values, "width", cfg.Width, minSize, maxSize); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(values, "height", cfg.Height, minSize, maxSize); err != nil {
		return nil, nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", cfg.PixelSamples, minSamples, maxSamples); err != nil {
		return nil, nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", cfg.MaxDepth, minDepth, maxDepth); err != nil {
		return nil, nil, err
	}
	if req.ShadowGrid, err = parseIntParam(values, "shadowGrid", cfg.ShadowGridSize, minGrid, maxGrid); err != nil {
		return nil, nil, err
	}

	sceneObj.SetSize(req.Width, req.Height)
	sceneObj.SetPixelSamples(req.Samples)
	sceneObj.SetMaxDepth(req.MaxDepth)
	sceneObj.SetShadowGrid(req.ShadowGrid)

	if req.Width*req.Height > 800*600 && req.Samples*req.ShadowGrid*req.ShadowGrid > 64 {
		s.logger.Warn().Str("scene", req.Scene).Msg("Large image with many samples may render slowly")
	}
	return req, sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
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

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware enables CORS for browser clients
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// logMiddleware logs each request once it completes
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}
