// Package httpserver runs an http.Handler with configurable timeouts and
// graceful shutdown.
//
// Run blocks until its context is cancelled or SIGINT/SIGTERM arrives, then
// calls http.Server.Shutdown bounded by the shutdown timeout. Request
// contexts derive from the Run context, so long-lived responses such as
// event streams end when the server stops.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler provides liveness and readiness endpoints.
package httpserver
