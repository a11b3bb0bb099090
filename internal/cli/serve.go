package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/internal/metrics"
	"github.com/matzehuels/labyrinth/internal/server"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/session"
)

const (
	// cleanupInterval is how often expired sessions are swept.
	cleanupInterval = time.Minute

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		ttl         time.Duration
		maxSessions int
		noCache     bool
		noMetrics   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stepping API over HTTP",
		Long: `Serve stepping sessions over HTTP.

  POST   /sessions                   create a session from maze options
  GET    /sessions/{id}              search state
  POST   /sessions/{id}/step?n=1     expand up to n nodes
  GET    /sessions/{id}/frame.svg    latest frame (svg, png, pdf, dot, graph)
  DELETE /sessions/{id}              drop a session
  GET    /healthz                    liveness
  GET    /metrics                    Prometheus metrics`,
		Example: `  labyrinth serve --addr :9000
  curl -X POST localhost:9000/sessions -d '{"width":20,"height":20,"weave":30}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Server
			flags := cmd.Flags()
			if !flags.Changed("addr") && cfg.Addr != "" {
				addr = cfg.Addr
			}
			if !flags.Changed("session-ttl") {
				if d, _ := cfg.TTL(); d > 0 {
					ttl = d
				}
			}
			if !flags.Changed("max-sessions") && cfg.MaxSessions != 0 {
				maxSessions = cfg.MaxSessions
			}
			return c.runServe(cmd.Context(), addr, ttl, maxSessions, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", pipeline.DefaultServerAddr, "listen address")
	cmd.Flags().DurationVar(&ttl, "session-ttl", session.DefaultTTL, "idle lifetime of a session")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 1000, "maximum live sessions (0 = unbounded)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, ttl time.Duration, maxSessions int, noCache, withMetrics bool) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.WithoutCancel(ctx))

	sessions := session.NewMemoryStore(maxSessions)
	cfg := server.Config{
		Runner:   runner,
		Sessions: sessions,
		TTL:      ttl,
		Defaults: c.config.Options(),
		Logger:   logger,
	}
	if withMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)
		m.Register()
		defer observability.Reset()
		cfg.Metrics = m.Handler()
	}

	go sessions.RunCleanup(ctx, cleanupInterval, func(n int) {
		if n > 0 {
			logger.Debug("expired sessions removed", "count", n)
		}
		observability.HTTP().OnSessionCount(ctx, sessions.Len())
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
	printDetail("Session TTL %s, at most %d sessions", ttl, maxSessions)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
