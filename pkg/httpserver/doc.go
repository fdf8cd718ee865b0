// Package httpserver runs an http.Handler until its context is cancelled and
// then drains in-flight requests within a shutdown deadline.
//
// Signal handling belongs to the caller: wrap the context with
// signal.NotifyContext and pass it to Run.
//
//	srv := httpserver.New(cfg, router, httpserver.WithLogger(log))
//	if err := srv.Run(ctx); err != nil {
//		log.Error("http server stopped", logger.Error(err))
//	}
//
// Health returns a JSON readiness handler built from named checks.
package httpserver
