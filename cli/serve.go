// ABOUTME: HTTP server subcommand
// ABOUTME: Serves the storage and REST APIs until interrupted, then drains and flushes pending deletes
package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/fomo/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func addServe(topLevel *cobra.Command, opts *rootOptions) {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Example: `
fomo serve
fomo serve --port 3000
FOMO_STORAGE_TIER=database fomo serve
`,
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			if port == "" {
				port = rt.cfg.Server.Port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt, net.JoinHostPort("", port))
		}),
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default: server.port)")
	topLevel.AddCommand(cmd)
}

// serve runs the server until ctx is cancelled.
func serve(ctx context.Context, rt *runtime, addr string) error {
	server := web.NewServer(rt.cfg, rt.store, rt.log)
	httpServer := server.HTTPServer(addr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.log.Infow("server listening", "addr", addr, "tier", rt.cfg.Storage.Tier, "auth", rt.cfg.Auth.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		rt.log.Infow("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		server.Shutdown(shutdownCtx)
		return err
	})

	return g.Wait()
}
