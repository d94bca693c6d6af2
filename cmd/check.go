package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errWarnings = errors.New("source has warnings")

func checkCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Reconcile a graph file and report diagnostics",
		Long: `Read a graph file, build the graph once and print every diagnostic.

  edgesketch check graph.txt
  edgesketch check --fixed-count 10 graph.txt
  cat graph.txt | edgesketch check -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edges, err := readSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			loop := newLoop()
			diagnostics := loop.SetSource(edges.Text)
			scene := loop.Snapshot()
			out := cmd.OutOrStdout()

			for _, d := range diagnostics {
				Warn.Fprintf(out, "  line %d: %s\n", d.Line, d.Message)
			}
			summary := fmt.Sprintf("%s: %d nodes, %d edges", args[0], len(scene.Nodes), len(scene.Edges))
			if edges.Dropped > 0 {
				summary += fmt.Sprintf(", %d records dropped", edges.Dropped)
			}
			if len(diagnostics) == 0 {
				Good.Fprintf(out, "ok %s\n", summary)
				return nil
			}
			Warn.Fprintf(out, "%d warning(s) %s\n", len(diagnostics), summary)

			if strict {
				return errWarnings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when there are warnings")
	return cmd
}
