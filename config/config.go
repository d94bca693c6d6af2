// Package config loads edgesketch settings from a file and the environment.
package config

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/TFMV/edgesketch/engine"
	"github.com/TFMV/edgesketch/physics"
	"github.com/TFMV/edgesketch/render"
	"github.com/TFMV/edgesketch/server"
)

// EnvPrefix prefixes every environment override, e.g. EDGESKETCH_SIM_SEED.
const EnvPrefix = "EDGESKETCH"

// Config holds all application configuration.
type Config struct {
	Viewport ViewportConfig `mapstructure:"viewport" toml:"viewport"`
	Sim      SimConfig      `mapstructure:"sim" toml:"sim"`
	Sync     SyncConfig     `mapstructure:"sync" toml:"sync"`
	Render   RenderConfig   `mapstructure:"render" toml:"render"`
	Server   ServerConfig   `mapstructure:"server" toml:"server"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

type ViewportConfig struct {
	Width  float64 `mapstructure:"width" toml:"width"`
	Height float64 `mapstructure:"height" toml:"height"`
}

type SimConfig struct {
	Repulsion        float64 `mapstructure:"repulsion" toml:"repulsion"`
	Stiffness        float64 `mapstructure:"stiffness" toml:"stiffness"`
	Damping          float64 `mapstructure:"damping" toml:"damping"`
	LengthAdjustRate float64 `mapstructure:"length_adjust_rate" toml:"length_adjust_rate"`
	SubSteps         int     `mapstructure:"sub_steps" toml:"sub_steps"`
	FPS              int     `mapstructure:"fps" toml:"fps"`
	Seed             uint64  `mapstructure:"seed" toml:"seed"`
	// SettleFrames caps the frames run before a one-shot render
	SettleFrames int     `mapstructure:"settle_frames" toml:"settle_frames"`
	Threshold    float64 `mapstructure:"threshold" toml:"threshold"`
}

type SyncConfig struct {
	FixedCountMode bool `mapstructure:"fixed_count_mode" toml:"fixed_count_mode"`
	FixedCount     int  `mapstructure:"fixed_count" toml:"fixed_count"`
}

type RenderConfig struct {
	Format         string  `mapstructure:"format" toml:"format"`
	Directed       bool    `mapstructure:"directed" toml:"directed"`
	Noise          float64 `mapstructure:"noise" toml:"noise"`
	NoiseSeed      int64   `mapstructure:"noise_seed" toml:"noise_seed"`
	ColorScheme    string  `mapstructure:"color_scheme" toml:"color_scheme"`
	Quality        string  `mapstructure:"quality" toml:"quality"`
	ShowLabels     bool    `mapstructure:"show_labels" toml:"show_labels"`
	ShowEdgeLabels bool    `mapstructure:"show_edge_labels" toml:"show_edge_labels"`
	FontSize       float64 `mapstructure:"font_size" toml:"font_size"`
	EdgeWidth      float64 `mapstructure:"edge_width" toml:"edge_width"`
	Timestamp      bool    `mapstructure:"timestamp" toml:"timestamp"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr" toml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" toml:"idle_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

func setDefaults(v *viper.Viper) {
	params := physics.DefaultParams()
	srv := server.DefaultConfig()
	out := render.NewDefaultOptions("svg")

	v.SetDefault("viewport.width", srv.DefaultWidth)
	v.SetDefault("viewport.height", srv.DefaultHeight)

	v.SetDefault("sim.repulsion", params.Repulsion)
	v.SetDefault("sim.stiffness", params.Stiffness)
	v.SetDefault("sim.damping", params.Damping)
	v.SetDefault("sim.length_adjust_rate", params.LengthAdjustRate)
	v.SetDefault("sim.sub_steps", params.SubSteps)
	v.SetDefault("sim.fps", 60)
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.settle_frames", 2000)
	v.SetDefault("sim.threshold", 1e-3)

	v.SetDefault("sync.fixed_count_mode", false)
	v.SetDefault("sync.fixed_count", 0)

	v.SetDefault("render.format", out.Format)
	v.SetDefault("render.directed", false)
	v.SetDefault("render.noise", out.NoiseIntensity)
	v.SetDefault("render.noise_seed", 0)
	v.SetDefault("render.color_scheme", out.ColorScheme)
	v.SetDefault("render.quality", out.Quality)
	v.SetDefault("render.show_labels", out.ShowLabels)
	v.SetDefault("render.show_edge_labels", out.ShowEdgeLabels)
	v.SetDefault("render.font_size", out.FontSize)
	v.SetDefault("render.edge_width", out.EdgeWidth)
	v.SetDefault("render.timestamp", out.Timestamp)

	v.SetDefault("server.addr", srv.Addr)
	v.SetDefault("server.read_timeout", srv.ReadTimeout)
	v.SetDefault("server.write_timeout", srv.WriteTimeout)
	v.SetDefault("server.idle_timeout", srv.IdleTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg, err := load(viper.New(), "")
	if err != nil {
		panic("config: invalid defaults: " + err.Error())
	}
	return cfg
}

// Load reads configuration from path, if given, and the environment.
func Load(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// WriteTOML writes the configuration in a form Load can read back.
func (c *Config) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		warnings = append(warnings, fmt.Sprintf("viewport %gx%g is not positive", c.Viewport.Width, c.Viewport.Height))
	}

	if c.Sim.SubSteps < 1 {
		warnings = append(warnings, fmt.Sprintf("sim sub_steps %d is less than 1", c.Sim.SubSteps))
	}
	if c.Sim.Damping <= 0 || c.Sim.Damping > 1 {
		warnings = append(warnings, fmt.Sprintf("sim damping %.2f is outside (0, 1]", c.Sim.Damping))
	}
	if c.Sim.FPS < 1 || c.Sim.FPS > 240 {
		warnings = append(warnings, fmt.Sprintf("sim fps %d is outside [1, 240]", c.Sim.FPS))
	}

	if c.Sync.FixedCount < 0 {
		warnings = append(warnings, fmt.Sprintf("sync fixed_count %d is negative", c.Sync.FixedCount))
	}

	if c.Render.Noise < 0 || c.Render.Noise > 1 {
		warnings = append(warnings, fmt.Sprintf("render noise %.2f is outside [0, 1]", c.Render.Noise))
	}
	if _, err := render.GetRenderer(c.Render.Format); err != nil {
		warnings = append(warnings, fmt.Sprintf("render format %q is not one of %s", c.Render.Format, strings.Join(render.Formats(), ", ")))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		warnings = append(warnings, fmt.Sprintf("log level %q is unknown", c.Log.Level))
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Log.Format)) {
		warnings = append(warnings, fmt.Sprintf("log format %q is unknown", c.Log.Format))
	}

	return warnings
}

// Params returns the simulation constants
func (c *Config) Params() physics.Params {
	return physics.Params{
		Repulsion:        c.Sim.Repulsion,
		Stiffness:        c.Sim.Stiffness,
		Damping:          c.Sim.Damping,
		LengthAdjustRate: c.Sim.LengthAdjustRate,
		SubSteps:         c.Sim.SubSteps,
	}
}

// EngineOptions returns the options for a new engine.Loop
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Width:          c.Viewport.Width,
		Height:         c.Viewport.Height,
		Seed:           c.Sim.Seed,
		FixedCountMode: c.Sync.FixedCountMode,
		FixedCount:     c.Sync.FixedCount,
		Params:         c.Params(),
	}
}

// OutputOptions returns the render options for the configured format
func (c *Config) OutputOptions() *render.OutputOptions {
	return &render.OutputOptions{
		Format:         c.Render.Format,
		Directed:       c.Render.Directed,
		NoiseIntensity: c.Render.Noise,
		NoiseSeed:      c.Render.NoiseSeed,
		Timestamp:      c.Render.Timestamp,
		EdgeWidth:      c.Render.EdgeWidth,
		FontSize:       c.Render.FontSize,
		ShowLabels:     c.Render.ShowLabels,
		ShowEdgeLabels: c.Render.ShowEdgeLabels,
		ColorScheme:    c.Render.ColorScheme,
		Quality:        c.Render.Quality,
	}
}

// ServerConfig returns the HTTP server settings
func (c *Config) ServerConfig() server.Config {
	return server.Config{
		Addr:          c.Server.Addr,
		ReadTimeout:   c.Server.ReadTimeout,
		WriteTimeout:  c.Server.WriteTimeout,
		IdleTimeout:   c.Server.IdleTimeout,
		DefaultWidth:  c.Viewport.Width,
		DefaultHeight: c.Viewport.Height,
		Params:        c.Params(),
		Render:        *c.OutputOptions(),
	}
}
