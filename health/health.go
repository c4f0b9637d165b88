// Package health serves the liveness endpoint used by the hosting platform.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"car-scraper/utils"
)

// NewRouter returns a router answering GET / and GET /health with 200.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", text("Car Parser Bot is running!")).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/health", text("OK")).Methods(http.MethodGet, http.MethodHead)
	return r
}

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, logger *utils.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[health] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
