package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/edgesketch/render"
)

func layoutCmd() *cobra.Command {
	var (
		output    string
		format    string
		frames    int
		threshold float64
		noise     float64
	)

	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Run the simulation until it settles and render one frame",
		Long: `Build the graph, run physics frames until the layout comes to rest
and write a single rendering.

  edgesketch layout graph.txt                      # writes output.svg
  edgesketch layout --format png -o g.png graph.csv
  edgesketch layout --format ascii -o - graph.txt  # print to stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("format") {
				cfg.Render.Format = format
			}
			if flags.Changed("noise") {
				cfg.Render.Noise = noise
			}
			if flags.Changed("frames") {
				cfg.Sim.SettleFrames = frames
			}
			if flags.Changed("threshold") {
				cfg.Sim.Threshold = threshold
			}

			renderer, err := render.GetRenderer(cfg.Render.Format)
			if err != nil {
				return err
			}

			edges, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loop := newLoop()
			for _, d := range loop.SetSource(edges.Text) {
				logger.Warn("diagnostic", "line", d.Line, "message", d.Message)
			}

			n, settled, err := loop.Settle(ctx, cfg.Sim.SettleFrames, cfg.Sim.Threshold)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if settled {
				logger.Info("layout settled", "frames", n)
			} else {
				logger.Warn("layout did not settle, rendering the last frame", "frames", n)
			}

			scene := loop.Snapshot()
			data, err := renderer.Render(&scene, cfg.OutputOptions())
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}

			if output == "" {
				output = "output." + render.Extension(cfg.Render.Format)
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			logger.Info("output written", "file", output, "format", cfg.Render.Format, "bytes", len(data))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Output file, - for stdout (default output.<format>)")
	flags.StringVarP(&format, "format", "f", "svg", "Output format: svg, png, ascii, json, dot")
	flags.IntVar(&frames, "frames", 2000, "Maximum frames to simulate")
	flags.Float64Var(&threshold, "threshold", 1e-3, "Mean kinetic energy per node below which the layout counts as settled")
	flags.Float64Var(&noise, "noise", 0, "Displacement noise applied to the rendering (0.0-1.0)")
	return cmd
}
