package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// FileName is the config file name searched for, without extension
const FileName = "raytracer"

// EnvPrefix prefixes every environment override, e.g. RAYTRACER_RENDER_WIDTH
const EnvPrefix = "RAYTRACER"

// Config represents the command line configuration
type Config struct {
	Scene  string       `yaml:"scene" mapstructure:"scene"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// RenderConfig overrides scene render settings. Zero values keep the
// scene's own setting; MaxDepth uses -1 for that.
type RenderConfig struct {
	Width      int    `yaml:"width" mapstructure:"width"`
	Height     int    `yaml:"height" mapstructure:"height"`
	Samples    int    `yaml:"samples" mapstructure:"samples"`
	MaxDepth   int    `yaml:"max_depth" mapstructure:"max_depth"`
	ShadowGrid int    `yaml:"shadow_grid" mapstructure:"shadow_grid"`
	Fresnel    string `yaml:"fresnel" mapstructure:"fresnel"`
	Seed       int64  `yaml:"seed" mapstructure:"seed"`
	Workers    int    `yaml:"workers" mapstructure:"workers"`
	TileSize   int    `yaml:"tile_size" mapstructure:"tile_size"`
}

// OutputConfig controls where renders are written
type OutputConfig struct {
	File      string `yaml:"file" mapstructure:"file"`
	Dir       string `yaml:"dir" mapstructure:"dir"`
	ScenesDir string `yaml:"scenes_dir" mapstructure:"scenes_dir"`
}

// ServerConfig controls the web server
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Scene: "default",
		Render: RenderConfig{
			MaxDepth: -1,
			TileSize: 32,
		},
		Output: OutputConfig{
			Dir:       "output",
			ScenesDir: "scenes",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// NewViper returns a viper instance seeded with the defaults, so every key
// is known to environment lookups and Unmarshal
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()

	v.SetDefault("scene", d.Scene)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.samples", d.Render.Samples)
	v.SetDefault("render.max_depth", d.Render.MaxDepth)
	v.SetDefault("render.shadow_grid", d.Render.ShadowGrid)
	v.SetDefault("render.fresnel", d.Render.Fresnel)
	v.SetDefault("render.seed", d.Render.Seed)
	v.SetDefault("render.workers", d.Render.Workers)
	v.SetDefault("render.tile_size", d.Render.TileSize)
	v.SetDefault("output.file", d.Output.File)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.scenes_dir", d.Output.ScenesDir)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into v. An explicit cfgFile must exist;
// otherwise raytracer.yaml is searched for in ., ./configs and
// $HOME/.raytracer and a missing file falls back to defaults.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".raytracer"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errorsmod.Wrapf(core.ErrInvalidConfig, "reading config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errorsmod.Wrapf(core.ErrInvalidConfig, "decoding config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Scene == "" {
		return errorsmod.Wrap(core.ErrInvalidConfig, "scene cannot be empty")
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "size %dx%d cannot be negative", c.Render.Width, c.Render.Height)
	}
	if c.Render.Samples < 0 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "samples %d cannot be negative", c.Render.Samples)
	}
	if c.Render.MaxDepth < -1 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "max depth %d must be -1 or more", c.Render.MaxDepth)
	}
	if c.Render.ShadowGrid < 0 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "shadow grid %d cannot be negative", c.Render.ShadowGrid)
	}
	if c.Render.TileSize <= 0 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "tile size %d must be positive", c.Render.TileSize)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "port %d out of range", c.Server.Port)
	}
	switch scene.FresnelModel(c.Render.Fresnel) {
	case "", scene.FresnelExact, scene.FresnelSchlick:
	default:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "unknown fresnel model %q", c.Render.Fresnel)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "log level: %v", err)
	}
	return nil
}

// Apply overrides the scene's render settings with every value set here
func (c *Config) Apply(s *scene.Scene) {
	width, height := s.Config.Width, s.Config.Height
	if c.Render.Width > 0 {
		width = c.Render.Width
	}
	if c.Render.Height > 0 {
		height = c.Render.Height
	}
	if width != s.Config.Width || height != s.Config.Height {
		s.SetSize(width, height)
	}

	if c.Render.Samples > 0 {
		s.SetPixelSamples(c.Render.Samples)
	}
	if c.Render.MaxDepth >= 0 {
		s.SetMaxDepth(c.Render.MaxDepth)
	}
	if c.Render.ShadowGrid > 0 {
		s.SetShadowGrid(c.Render.ShadowGrid)
	}
	if c.Render.Fresnel != "" {
		s.Config.Fresnel = scene.FresnelModel(c.Render.Fresnel)
	}
	if c.Render.Seed != 0 {
		s.Config.Seed = c.Render.Seed
	}
}

// Logger builds the root logger. Console output unless JSON is set.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if c.Log.JSON {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// SetupLogging builds the root logger and installs it as the global
// zerolog logger used by packages that log through zerolog/log
func (c *Config) SetupLogging() zerolog.Logger {
	logger := c.Logger()
	log.Logger = logger
	return logger
}

// Save writes the configuration as YAML to path
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "creating config directory: %v", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "encoding config: %v", err)
	}
	return os.WriteFile(path, data, 0644)
}
