package main

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fnlux/internal/api"
	"github.com/dmitrymomot/fnlux/internal/app"
	"github.com/dmitrymomot/fnlux/internal/metrics"
	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/broadcast"
	"github.com/dmitrymomot/fnlux/pkg/httpserver"
)

// eventBuffer is the per-subscriber backlog of the event stream.
const eventBuffer = 16

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve a tally store over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			events := broadcast.NewMemory[tally.State](eventBuffer)
			defer events.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			var m *metrics.Metrics
			s := app.NewStore(cfg, log, tally.State{}, func(st tally.State) {
				m.StateChanged()
				events.Publish(st)
			})
			m = metrics.New(reg, s)

			handler := api.New(s, events, log, api.WithMetrics(m, reg))
			srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
			return srv.Run(ctx, handler.Routes())
		},
	}
}
