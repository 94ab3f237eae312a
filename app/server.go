package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// Serve runs the HTTP server and the socket hub until ctx is cancelled,
// then drains in-flight requests.
func (c *Container) Serve(ctx context.Context) error {
	if c.Hub != nil {
		go func() {
			if err := c.Hub.Serve(); err != nil {
				c.Logger.Error("socket hub stopped", zap.Error(err))
			}
		}()
	}

	server := &http.Server{
		Addr:              ":" + c.Config.Port,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("starting server", zap.String("port", c.Config.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
