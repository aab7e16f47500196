package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

// shutdownSignals cancel a running render or stop the server gracefully
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "raytracer",
		Short: "Whitted ray tracer",
		Long: `A recursive ray tracer rendering spheres, walls and triangles with
diffuse and specular shading, reflection, refraction and soft shadows.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./raytracer.yaml or $HOME/.raytracer/raytracer.yaml)")

	rootCmd.AddCommand(
		renderCmd(v, &cfgFile),
		scenesCmd(v, &cfgFile),
		serveCmd(v, &cfgFile),
	)
	return rootCmd
}

func renderCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	defaults := config.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		Example: `  raytracer render --scene cornell
  raytracer render --scene scenes/prism.yaml --samples 4 --output prism.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
			defer stop()

			path, err := runRender(ctx, cfg, cfg.SetupLogging())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("scene", defaults.Scene, "built-in scene id, scene name in the scenes directory, or .yaml path")
	flags.StringP("output", "o", defaults.Output.File, "output image path (default output/<scene>/render_<timestamp>_<run>.png)")
	flags.Int("width", defaults.Render.Width, "image width, 0 keeps the scene's")
	flags.Int("height", defaults.Render.Height, "image height, 0 keeps the scene's")
	flags.Int("samples", defaults.Render.Samples, "primary rays per pixel, 0 keeps the scene's")
	flags.Int("depth", defaults.Render.MaxDepth, "reflection/refraction depth, -1 keeps the scene's")
	flags.Int("shadow-grid", defaults.Render.ShadowGrid, "soft shadow grid size N (N×N rays), 0 keeps the scene's")
	flags.Int("workers", defaults.Render.Workers, "parallel workers, 0 uses one per CPU")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")

	for key, name := range map[string]string{
		"scene":              "scene",
		"output.file":        "output",
		"render.width":       "width",
		"render.height":      "height",
		"render.samples":     "samples",
		"render.max_depth":   "depth",
		"render.shadow_grid": "shadow-grid",
		"render.workers":     "workers",
		"log.level":          "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
	return cmd
}

func scenesCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in and discovered scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			cfg.SetupLogging()
			return listScenes(cmd.OutOrStdout(), cfg.Output.ScenesDir)
		},
	}
}

func serveCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API with live tile streaming",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
			defer stop()

			logger := cfg.SetupLogging()
			logger.Info().Msgf("Visit http://localhost:%d/api/scenes to list scenes", cfg.Server.Port)
			return server.NewServer(cfg.Server.Port, cfg.Output.ScenesDir, logger).Start(ctx)
		},
	}

	cmd.Flags().Int("port", config.DefaultConfig().Server.Port, "port to serve on")
	_ = v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

// runRender renders the configured scene and returns the written file path
func runRender(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (string, error) {
	s, err := scene.Lookup(cfg.Scene, cfg.Output.ScenesDir)
	if err != nil {
		return "", err
	}
	cfg.Apply(s)

	rt := renderer.NewRaytracer(s,
		renderer.WithWorkers(cfg.Render.Workers),
		renderer.WithTileSize(cfg.Render.TileSize),
		renderer.WithLogger(logger),
	)
	frame, stats, err := rt.Render(ctx)
	if err != nil {
		return "", err
	}

	path := cfg.Output.File
	if path == "" {
		path = defaultOutputPath(cfg.Output.Dir, sceneSlug(cfg.Scene), stats.RunID, time.Now())
	}
	if err := frame.Save(path); err != nil {
		return "", err
	}

	logger.Info().
		Str("file", path).
		Str("run_id", stats.RunID).
		Dur("elapsed", stats.Elapsed).
		Float64("rays_per_pixel", stats.RaysPerPixel()).
		Msg("Render saved")
	return path, nil
}

// sceneSlug names the output directory for a scene
func sceneSlug(nameOrPath string) string {
	base := filepath.Base(nameOrPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func defaultOutputPath(dir, slug, runID string, now time.Time) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	filename := fmt.Sprintf("render_%s_%s.png", now.Format("20060102_150405"), short)
	return filepath.Join(dir, slug, filename)
}

func listScenes(w io.Writer, scenesDir string) error {
	groups, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}

	for _, group := range groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			id := info.ID
			if info.FilePath != "" {
				id = info.FilePath
			}
			if info.Description != "" {
				fmt.Fprintf(w, "  %-24s %s - %s\n", id, info.DisplayName, info.Description)
			} else {
				fmt.Fprintf(w, "  %-24s %s\n", id, info.DisplayName)
			}
		}
	}
	return nil
}
