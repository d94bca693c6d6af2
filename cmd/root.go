// Package cmd implements the edgesketch command line.
package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TFMV/edgesketch/config"
)

var version = "0.3.0"

var (
	configPath string
	logLevel   string
	logFormat  string
	width      float64
	height     float64
	seed       uint64
	fixedCount int
	directed   bool

	cfg    *config.Config
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "edgesketch",
		Short: "Live force-directed layouts from edge-list text",
		Long: Brand.Sprint("edgesketch") + " turns lines of \"source target [label]\" into a live spring layout\n" +
			Subtle.Sprint("Check, lay out, explore in the terminal, or serve sessions over HTTP"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, loaded)

			for _, warning := range loaded.Validate() {
				Warn.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
			}

			cfg = loaded
			logger = newLogger(cmd.ErrOrStderr(), cfg.Log)
			slog.SetDefault(logger)
			return nil
		},
	}
	root.SetVersionTemplate("edgesketch {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file path (yaml, json or toml)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	flags.Float64Var(&width, "width", 0, "Viewport width in pixels")
	flags.Float64Var(&height, "height", 0, "Viewport height in pixels")
	flags.Uint64Var(&seed, "seed", 0, "Seed for node placement")
	flags.IntVar(&fixedCount, "fixed-count", 0, "Use exactly this many nodes named 1..N")
	flags.BoolVar(&directed, "directed", false, "Draw arrowheads on edges")

	root.AddCommand(
		checkCmd(),
		layoutCmd(),
		viewCmd(),
		serveCmd(),
		configCmd(),
	)
	return root
}

// applyFlags overrides loaded settings with flags the user set explicitly
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		c.Log.Format = logFormat
	}
	if flags.Changed("width") {
		c.Viewport.Width = width
	}
	if flags.Changed("height") {
		c.Viewport.Height = height
	}
	if flags.Changed("seed") {
		c.Sim.Seed = seed
	}
	if flags.Changed("fixed-count") {
		c.Sync.FixedCountMode = true
		c.Sync.FixedCount = fixedCount
	}
	if flags.Changed("directed") {
		c.Render.Directed = directed
	}
}

func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Execute runs the root command.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		Bad.Fprintf(os.Stderr, "edgesketch: %v\n", err)
	}
	return err
}
