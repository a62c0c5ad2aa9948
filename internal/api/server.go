// internal/api/server.go
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the ops server on addr until ctx is done.
// Access logs go to accessLog in Apache combined format.
func Serve(ctx context.Context, addr string, h http.Handler, accessLog io.Writer, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.CombinedLoggingHandler(accessLog, h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("ops api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return err
		}
		return nil
	}
}
