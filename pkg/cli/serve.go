package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/swaigcheck/swaigcheck/pkg/gradebook"
	"github.com/swaigcheck/swaigcheck/pkg/httpapi"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var dbPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded grading runs over a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := gradebook.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewRouter(store),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			fmt.Printf("Serving gradebook %s on %s\n", dbPath, addr)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("failed to shut down server: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "swaigcheck.db", "Gradebook database path")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}
