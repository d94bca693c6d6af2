package cmd

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/edgesketch/tui"
)

func viewCmd() *cobra.Command {
	var (
		fps     int
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Explore a live layout in the terminal",
		Long: `Open an interactive terminal view of the graph.

Drag nodes or the background with the mouse, scroll to zoom.
Keys: + and - zoom, 0 resets the view, r re-reads FILE, d toggles arrows,
space pauses, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			// The terminal belongs to the viewer; logs go to a file or nowhere
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger = newLogger(w, cfg.Log)
			slog.SetDefault(logger)

			edges, err := readSource(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			loop := newLoop()
			loop.SetSource(edges.Text)

			reload := func() (string, error) {
				edges, err := readSource(path, cmd.InOrStdin())
				if err != nil {
					return "", err
				}
				return edges.Text, nil
			}
			if path == "-" {
				reload = nil
			}

			if !cmd.Flags().Changed("fps") {
				fps = cfg.Sim.FPS
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tui.Run(ctx, loop, tui.Options{
				FPS:      fps,
				Directed: cfg.Render.Directed,
				Reload:   reload,
				Logger:   logger,
			})
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 60, "Frames per second")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the viewer runs")
	return cmd
}
