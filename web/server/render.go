package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Tiles finished so far (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// CompleteUpdate is the final SSE event of a successful render
type CompleteUpdate struct {
	RenderID      string  `json:"renderId"`
	ImageData     string  `json:"imageData"` // Base64 encoded PNG of the whole frame
	ElapsedMs     int64   `json:"elapsedMs"`
	TotalPixels   int     `json:"totalPixels"`
	PrimaryRays   int     `json:"primaryRays"`
	TotalRays     int64   `json:"totalRays"`
	RaysPerPixel  float64 `json:"raysPerPixel"`
	MeanLuminance float64 `json:"meanLuminance"`
	StdLuminance  float64 `json:"stdLuminance"`
	ShapeCount    int     `json:"shapeCount"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

type renderResult struct {
	frame *renderer.Frame
	stats renderer.RenderStats
	err   error
}

// handleRender renders a scene and streams finished tiles via SSE. Every
// write to the response happens on the handler goroutine.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	ctx := r.Context()

	req, sceneObj, err := s.parseSceneRequest(r)
	if err != nil {
		writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	renderID := uuid.NewString()
	consoleChan := make(chan ConsoleMessage, 50)
	renderLogger := zerolog.New(NewConsoleWriter(renderID, consoleChan)).Level(zerolog.InfoLevel)

	tileChan := make(chan SSEEvent, 100)
	rt := renderer.NewRaytracer(sceneObj,
		renderer.WithTileSize(renderer.DefaultTileSize),
		renderer.WithLogger(renderLogger),
		renderer.WithProgress(func(p renderer.TileProgress) {
			event, err := tileEvent(p)
			if err != nil {
				s.logger.Error().Err(err).Int("tile", p.Tile.ID).Msg("Encoding tile failed")
				return
			}
			select {
			case tileChan <- event:
			case <-ctx.Done():
			}
		}),
	)

	s.logger.Info().
		Str("render_id", renderID).
		Str("scene", req.Scene).
		Int("width", req.Width).
		Int("height", req.Height).
		Msg("Render requested")

	start := time.Now()
	done := make(chan renderResult, 1)
	go func() {
		frame, stats, err := rt.Render(ctx)
		done <- renderResult{frame: frame, stats: stats, err: err}
	}()

	for {
		select {
		case event := <-tileChan:
			writeSSEEvent(w, event)

		case msg := <-consoleChan:
			if data, err := json.Marshal(msg); err == nil {
				writeSSEEvent(w, SSEEvent{Type: "console", Data: string(data)})
			}

		case result := <-done:
			// Progress callbacks have all returned; flush what they queued
			for len(tileChan) > 0 {
				writeSSEEvent(w, <-tileChan)
			}
			if result.err != nil {
				writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", result.err)})
				return
			}

			event, err := completeEvent(renderID, result, sceneObj.ShapeCount(), time.Since(start))
			if err != nil {
				writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
				return
			}
			writeSSEEvent(w, event)
			return

		case <-ctx.Done():
			// Client disconnected; the render stops on the same context
			<-done
			return
		}
	}
}

func tileEvent(p renderer.TileProgress) (SSEEvent, error) {
	imageData, err := imageToBase64PNG(p.Frame.SubImage(p.Tile.Bounds))
	if err != nil {
		return SSEEvent{}, err
	}
	data, err := json.Marshal(TileUpdate{
		TileX:      p.Tile.Bounds.Min.X,
		TileY:      p.Tile.Bounds.Min.Y,
		ImageData:  imageData,
		TileNumber: p.Completed,
		TotalTiles: p.Total,
	})
	if err != nil {
		return SSEEvent{}, err
	}
	return SSEEvent{Type: "tile", Data: string(data)}, nil
}

func completeEvent(renderID string, result renderResult, shapes int, elapsed time.Duration) (SSEEvent, error) {
	imageData, err := imageToBase64PNG(result.frame.ToImage())
	if err != nil {
		return SSEEvent{}, fmt.Errorf("failed to encode image: %w", err)
	}
	stats := result.stats
	data, err := json.Marshal(CompleteUpdate{
		RenderID:      renderID,
		ImageData:     imageData,
		ElapsedMs:     elapsed.Milliseconds(),
		TotalPixels:   stats.TotalPixels,
		PrimaryRays:   stats.PrimaryRays,
		TotalRays:     stats.TotalRays,
		RaysPerPixel:  stats.RaysPerPixel(),
		MeanLuminance: stats.MeanLuminance,
		StdLuminance:  stats.StdLuminance,
		ShapeCount:    shapes,
	})
	if err != nil {
		return SSEEvent{}, err
	}
	return SSEEvent{Type: "complete", Data: string(data)}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// writeSSEEvent writes and flushes one event
func writeSSEEvent(w http.ResponseWriter, event SSEEvent) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *image.RGBA) (string, error) {
	var buf bytes.Buffer
	if err := gg.NewContextForRGBA(img).EncodePNG(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
