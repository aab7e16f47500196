package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)
	path := defaultOutputPath("output", sceneSlug("scenes/prism.yaml"), "0f8e6c1a-1234-5678-9abc-def012345678", now)
	assert.Equal(t, filepath.Join("output", "prism", "render_20240305_143015_0f8e6c1a.png"), path)
	assert.Equal(t, "cornell", sceneSlug("cornell"))
}

func TestRunRender(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene = "cornell"
	cfg.Render.Width = 32
	cfg.Render.Height = 24
	cfg.Render.ShadowGrid = 1
	cfg.Output.Dir = t.TempDir()

	path, err := runRender(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, filepath.Join(cfg.Output.Dir, "cornell")))

	img, err := loaders.LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Width)
	assert.Equal(t, 24, img.Height)
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	output := filepath.Join(t.TempDir(), "out.png")

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"render", "--scene", "glass", "--width", "16", "--height", "12", "--depth", "1", "--output", output, "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), output)
	img, err := loaders.LoadImage(output)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Width)
}

func TestScenesCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"scenes"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "Built-in Scenes:")
	assert.Contains(t, out, "cornell")
	assert.Contains(t, out, "prism.yaml")
}

func TestShutdownSignals(t *testing.T) {
	assert.ElementsMatch(t, []os.Signal{os.Interrupt, syscall.SIGTERM}, shutdownSignals)
}
