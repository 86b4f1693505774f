package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taskcal/internal/instrumentation"
	"taskcal/internal/server"
	"taskcal/internal/store"
)

func newWatchCmd() *cobra.Command {
	var (
		interval       time.Duration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session alive and watch today's tasks",
		Long: `Run a refresh loop against the backend. Each tick re-fetches the task
list and reports changes to today's agenda. The session renews itself
on every expiry, so the loop runs until the refresh token dies or the
process is stopped.

When metrics are enabled, Prometheus metrics and health probes are
served on a dedicated port (/metrics, /healthz, /readyz). Readiness
fails once the session is terminated or blocked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, interval, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "Refresh interval")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runWatch(cmd *cobra.Command, interval time.Duration, metricsEnabled bool, metricsAddr string) error {
	// Graceful shutdown on interrupt.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if addr := os.Getenv("METRICS_ADDR"); addr != "" && metricsAddr == server.DefaultMetricsAddr {
		metricsAddr = addr
	}
	if os.Getenv("METRICS_ENABLED") == "false" {
		metricsEnabled = false
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer shutdownCancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error during instrumentation shutdown: %v\n", err)
		}
	}()

	app, err := newAppWithTelemetry(cmd.ErrOrStderr(), provider.Metrics(), provider.Tracer(instrumentation.TracerName))
	if err != nil {
		return err
	}
	user, err := app.requireUser()
	if err != nil {
		return err
	}

	metrics := provider.Metrics()
	metrics.IncrementActiveSessions(ctx)
	defer metrics.DecrementActiveSessions(context.Background())

	health := server.NewHealthChecker(app.session)

	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.PrometheusEnabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     metricsAddr,
			Provider: provider,
			Health:   health,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			fmt.Fprintf(cmd.ErrOrStderr(), "Metrics server started on %s\n", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer shutdownCancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error during metrics server shutdown: %v\n", err)
			}
		}()
	}

	st, err := app.taskStore(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching tasks for %s every %s\n", user.Username, interval)
	reportDay(out, st, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Shutting down")
			return app.save()

		case <-ticker.C:
			if err := st.Refresh(ctx); err != nil {
				if !app.session.Active() {
					// Renewal gave up; the session is gone for good.
					health.SetReady(false)
					return fmt.Errorf("session lost: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Refresh failed: %v\n", err)
				continue
			}
			reportDay(out, st, time.Now())

			// Persist renewed cookies so the next CLI invocation picks
			// up the fresh session.
			if err := app.save(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saving session failed: %v\n", err)
			}
		}
	}
}

// reportDay prints a one-line summary of the given day's tasks.
func reportDay(out io.Writer, st *store.Store, day time.Time) {
	tasks := st.TasksOn(day)
	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}
	fmt.Fprintf(out, "[%s] %s: %d tasks, %d pending (%s)\n",
		time.Now().Format("15:04:05"), day.Format("2006-01-02"), len(tasks), pending, st.Classify(day))
}
