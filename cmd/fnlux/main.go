package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fnlux",
		Short: "Reducer-driven state store with undo and async dispatch",
		Long: `fnlux runs a tally store built from a chain of reducers.

  replay   run a YAML script of applies, async dispatches and undos
  serve    expose the store over HTTP with a live event stream`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("env-file", "", "load variables from this .env file")

	rootCmd.AddCommand(
		replayCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fnlux %s (%s)\n", version, commit)
		},
	}
}
