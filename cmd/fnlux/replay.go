package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fnlux/internal/app"
	"github.com/dmitrymomot/fnlux/internal/script"
	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/logger"
)

func replayCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a script against a fresh store and print the final state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sc, err := script.Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			s := app.NewStore(cfg, log, sc.Initial, func(st tally.State) {
				log.Info("state changed",
					logger.Event("change"),
					slog.Int("sum", st.Sum),
					slog.Int("diff", st.Diff),
					slog.Int("count", st.Count),
					slog.Bool("last", st.Last),
				)
			})

			report, err := script.NewRunner(s, log).Run(cmd.Context(), sc)
			if err != nil {
				return err
			}

			for _, o := range report.Failed() {
				log.Warn("step failed", logger.Event(o.Op), slog.Int("step", o.Index), logger.Error(o.Err))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report.Final); err != nil {
				return err
			}

			if strict && len(report.Failed()) > 0 {
				return fmt.Errorf("%d of %d steps failed", len(report.Failed()), len(report.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any step fails")
	return cmd
}
