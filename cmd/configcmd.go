package cmd

import (
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration after defaults, the config file, EDGESKETCH_*
environment variables and flags are applied. The output is a valid config file.

  edgesketch config > edgesketch.toml
  edgesketch --seed 7 config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}
}
