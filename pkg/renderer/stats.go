package renderer

import (
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	RunID         string        // Unique id of this render
	Scene         string        // Scene name
	Width         int           // Image width
	Height        int           // Image height
	TotalPixels   int           // Total number of pixels rendered
	PrimaryRays   int           // Camera rays cast
	TotalRays     int64         // Every ray cast, shadow rays included
	Tiles         int           // Number of tiles
	Workers       int           // Number of parallel workers
	MeanLuminance float64       // Mean pixel luminance in [0,1]
	StdLuminance  float64       // Standard deviation of pixel luminance
	Elapsed       time.Duration // Wall-clock render time
}

// RaysPerPixel returns the average number of rays cast per pixel
func (s RenderStats) RaysPerPixel() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalRays) / float64(s.TotalPixels)
}

// addTile folds the counters of one finished tile into the totals
func (s *RenderStats) addTile(tile TileStats) {
	s.TotalPixels += tile.Pixels
	s.PrimaryRays += tile.PrimaryRays
}

// finalize computes the luminance summary of the finished frame
func (s *RenderStats) finalize(frame *Frame, elapsed time.Duration) {
	s.MeanLuminance, s.StdLuminance = stat.MeanStdDev(frame.Luminances(), nil)
	if len(frame.Pixels) < 2 {
		s.StdLuminance = 0
	}
	s.Elapsed = elapsed
}

// MarshalZerologObject lets stats be logged as a structured object
func (s RenderStats) MarshalZerologObject(e *zerolog.Event) {
	e.Str("run_id", s.RunID).
		Str("scene", s.Scene).
		Int("width", s.Width).
		Int("height", s.Height).
		Int("pixels", s.TotalPixels).
		Int("primary_rays", s.PrimaryRays).
		Int64("total_rays", s.TotalRays).
		Float64("rays_per_pixel", s.RaysPerPixel()).
		Int("tiles", s.Tiles).
		Int("workers", s.Workers).
		Float64("mean_luminance", s.MeanLuminance).
		Float64("std_luminance", s.StdLuminance).
		Dur("elapsed", s.Elapsed)
}
