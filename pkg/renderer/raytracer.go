package renderer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultTileSize is the edge length of a square render tile
const DefaultTileSize = 32

// Raytracer renders a scene into a Frame
type Raytracer struct {
	scene    *scene.Scene
	workers  int
	tileSize int
	logger   zerolog.Logger
	progress func(TileProgress)
}

// TileProgress reports a finished tile. Frame pixels inside Tile.Bounds are final.
type TileProgress struct {
	Tile      *Tile
	Frame     *Frame
	Completed int
	Total     int
}

// Option configures a Raytracer
type Option func(*Raytracer)

// WithWorkers sets the number of parallel workers; <= 0 uses one per CPU
func WithWorkers(n int) Option {
	return func(rt *Raytracer) { rt.workers = n }
}

// WithTileSize sets the tile edge length in pixels
func WithTileSize(size int) Option {
	return func(rt *Raytracer) {
		if size > 0 {
			rt.tileSize = size
		}
	}
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger zerolog.Logger) Option {
	return func(rt *Raytracer) { rt.logger = logger }
}

// WithProgress registers a callback run on the worker goroutine after each
// tile; calls may be concurrent
func WithProgress(fn func(TileProgress)) Option {
	return func(rt *Raytracer) { rt.progress = fn }
}

// NewRaytracer creates a new raytracer for s
func NewRaytracer(s *scene.Scene, opts ...Option) *Raytracer {
	rt := &Raytracer{
		scene:    s,
		tileSize: DefaultTileSize,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Render traces every pixel of the scene. The scene must not be modified
// while rendering. The result does not depend on the number of workers.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	cfg := rt.scene.Config
	if err := cfg.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	start := time.Now()
	pool := NewWorkerPool(rt.workers)
	tiles := NewTileGrid(cfg.Width, cfg.Height, rt.tileSize, cfg.Seed)
	frame := NewFrame(cfg.Width, cfg.Height)

	stats := RenderStats{
		RunID:   uuid.NewString(),
		Scene:   rt.scene.Name,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Tiles:   len(tiles),
		Workers: pool.NumWorkers(),
	}

	log := rt.logger.With().Str("run_id", stats.RunID).Str("scene", stats.Scene).Logger()
	log.Info().
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("shapes", rt.scene.ShapeCount()).
		Int("tiles", len(tiles)).
		Int("workers", pool.NumWorkers()).
		Msg("Starting render")

	var rays atomic.Int64
	whitted := integrator.NewWhitted(rt.scene,
		integrator.WithLogger(log),
		integrator.WithObserver(func(integrator.RayKind, int) { rays.Add(1) }),
	)
	tileRenderer := NewTileRenderer(NewCamera(cfg), whitted)

	var mu sync.Mutex
	var done int
	err := pool.Run(ctx, tiles, func(_ context.Context, tile *Tile) error {
		tileStats := tileRenderer.RenderTile(tile, frame)

		mu.Lock()
		stats.addTile(tileStats)
		done++
		completed := done
		mu.Unlock()

		log.Debug().
			Int("tile", tile.ID).
			Int("completed", completed).
			Int("total", len(tiles)).
			Msg("Tile rendered")

		if rt.progress != nil {
			rt.progress(TileProgress{Tile: tile, Frame: frame, Completed: completed, Total: len(tiles)})
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Int("completed", done).Msg("Render stopped")
		return nil, stats, err
	}

	stats.TotalRays = rays.Load()
	stats.finalize(frame, time.Since(start))
	log.Info().Object("stats", stats).Msg("Render completed")

	return frame, stats, nil
}
