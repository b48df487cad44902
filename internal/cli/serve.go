package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanlane/pkg/cache"
	"github.com/matzehuels/spanlane/pkg/config"
	"github.com/matzehuels/spanlane/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// serveCommand starts the HTTP viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an interactive trace viewer over HTTP",
		Long: `Serve an interactive trace viewer over HTTP.

The page at / lets you pick a model, switch the time axis and scale, and
resample the trace. The same artifacts are available directly:

  GET /api/models
  GET /api/models/{name}/trace.svg
  GET /api/models/{name}/layout.json
  GET /api/models/{name}/trace.otlp.json
  GET /api/models/{name}/tree.svg

Artifact routes accept seed, time_mode, scale, style and no_arrows query
parameters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, backend)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&backend, "cache", config.BackendMemory, "cache backend: memory, redis, file, none")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, backend string) error {
	cc, err := newCache(ctx, c.Config.Cache, backend)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "server:"), c.Logger)
	runner.Models = c.extraModels()
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, c.defaultOptions(), c.Logger).routes(),
		ReadHeaderTimeout: c.Config.Server.ReadTimeout.Duration,
		ReadTimeout:       c.Config.Server.ReadTimeout.Duration,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Info("serving", "addr", addr, "cache", backend)
	printInfo("Viewer at %s", StyleHighlight.Render("http://"+displayAddr(addr)+"/"))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	c.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	return net.JoinHostPort("localhost", port)
}
