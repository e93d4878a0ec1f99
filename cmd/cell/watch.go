package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/cell"
	cellifecycle "github.com/aretw0/cell/pkg/adapters/lifecycle"
	"github.com/aretw0/cell/pkg/adapters/metrics"
)

var (
	watchEvents  bool
	watchMetrics string
)

var watchCmd = &cobra.Command{
	Use:   "watch location|price",
	Short: "Stream every committed value until interrupted",
	Long: `Print the current record and then every commit as one JSON object per line.
External edits of the record file are reloaded and committed. With --events,
print one commit event per line instead. With --metrics, serve Prometheus
metrics on the given address.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: kinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		obs := metrics.NewObserver(reg)

		addr := watchMetrics
		if addr == "" {
			addr = conf.MetricsAddress
		}
		if addr != "" {
			serveMetrics(ctx, addr, reg)
		}

		opts := openOptions(cell.WithReload(true), cell.WithObserver(obs))
		out := cmd.OutOrStdout()

		switch args[0] {
		case "location":
			s, err := cell.OpenLocation(ctx, dir, opts...)
			if err != nil {
				return fmt.Errorf("failed to open location: %w", err)
			}
			return follow(ctx, out, s, watchEvents)
		default:
			s, err := cell.OpenPrice(ctx, dir, opts...)
			if err != nil {
				return fmt.Errorf("failed to open price: %w", err)
			}
			return follow(ctx, out, s, watchEvents)
		}
	},
}

// follow prints values (or commit events) from s until ctx is done.
func follow[T any](ctx context.Context, w io.Writer, s *cell.Store[T], events bool) error {
	if events {
		src := cellifecycle.NewSource(s)
		if err := src.Start(ctx); err != nil {
			return err
		}
		for e := range src.Events() {
			fmt.Fprintln(w, e.String())
		}
		return nil
	}

	values, err := s.Subscribe(ctx)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	for v := range values {
		if err := encoder.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server exited", "addr", addr, "error", err)
		}
	}()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	slog.Info("serving metrics", "addr", addr)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchEvents, "events", false, "Print commit events instead of values")
	watchCmd.Flags().StringVar(&watchMetrics, "metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}
