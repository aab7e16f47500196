package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestRenderStats_Finalize(t *testing.T) {
	frame := NewFrame(2, 1)
	frame.Set(0, 0, core.Black)
	frame.Set(1, 0, core.White)

	var stats RenderStats
	stats.addTile(TileStats{Pixels: 2, PrimaryRays: 4})
	stats.TotalRays = 10
	stats.finalize(frame, time.Second)

	assert.Equal(t, 2, stats.TotalPixels)
	assert.Equal(t, 4, stats.PrimaryRays)
	assert.Equal(t, 5.0, stats.RaysPerPixel())
	assert.InDelta(t, 0.5, stats.MeanLuminance, 1e-9)
	// Sample standard deviation of {0, 1}
	assert.InDelta(t, 0.7071, stats.StdLuminance, 1e-4)
	assert.Equal(t, time.Second, stats.Elapsed)
}

func TestRenderStats_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	stats := RenderStats{RunID: "abc", Scene: "cornell", TotalPixels: 4, TotalRays: 8}
	logger.Info().Object("stats", stats).Msg("done")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	fields := entry["stats"].(map[string]any)
	assert.Equal(t, "abc", fields["run_id"])
	assert.Equal(t, "cornell", fields["scene"])
	assert.Equal(t, 2.0, fields["rays_per_pixel"])
}

func TestWorkerPool_RunsEveryTile(t *testing.T) {
	tiles := NewTileGrid(100, 100, 10, 0)
	pool := NewWorkerPool(3)
	assert.Equal(t, 3, pool.NumWorkers())

	var count atomic.Int32
	err := pool.Run(context.Background(), tiles, func(_ context.Context, _ *Tile) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(len(tiles)), count.Load())
}

func TestWorkerPool_StopsOnError(t *testing.T) {
	tiles := NewTileGrid(100, 100, 10, 0)
	boom := errors.New("boom")

	err := NewWorkerPool(1).Run(context.Background(), tiles, func(_ context.Context, tile *Tile) error {
		if tile.ID == 5 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	assert.Positive(t, NewWorkerPool(0).NumWorkers())
}
