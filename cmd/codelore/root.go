package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "codelore",
		Short: "Extract knowledge from codebases with a language-model oracle",
		Long: `codelore chunks a source tree, sends every chunk to a language-model
oracle, and merges the per-chunk findings into one JSON knowledge report.

Chunk analyses run concurrently; transient rate limits are retried with
exponential backoff. A chunk that ultimately fails is recorded in the
report instead of aborting the run.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (default ~/.codelore/config.toml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newAnalyzeCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
