package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leonardcser/spc-cache/internal/cache"
	"github.com/leonardcser/spc-cache/internal/config"
	"github.com/leonardcser/spc-cache/internal/logger"
	"github.com/leonardcser/spc-cache/internal/metrics"
)

func main() {
	err := newRootCmd().Execute()
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "spc-cache-server",
		Short:        "Serve an spc-cache backend on a unix socket",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			if err := run(configPath); err != nil {
				logger.Errorf("cache daemon: %v", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("SPC_CACHE_CONFIG"), "path to a YAML config file")
	return cmd
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Log.File != "" {
		if err := logger.Init(cfg.Log.File); err != nil {
			return err
		}
	} else if err := logger.InitFromEnv(); err != nil {
		return err
	}
	logger.SetLevel(cfg.Log.Level)

	// Ensure socket dir exists and remove stale socket
	sock := cfg.Socket
	_ = os.MkdirAll(filepath.Dir(sock), 0o755)
	_ = os.Remove(sock)

	l, err := net.Listen("unix", sock)
	if err != nil {
		return err
	}
	_ = os.Chmod(sock, 0o600)

	// Clients own the value encoding; the daemon stores bytes as received.
	backend, err := config.OpenBackend(cfg, cache.RawCodec{})
	if err != nil {
		_ = l.Close()
		return err
	}
	defer backend.Close()

	reg := prometheus.NewRegistry()
	instrumented, err := metrics.Wrap(backend, reg)
	if err != nil {
		_ = l.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.Logger().With().Str("component", "cache-server").Logger()
	ctx = log.WithContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("serving %s backend on %s", cfg.Backend, sock)
		return cache.Serve(gctx, l, instrumented)
	})
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Infof("metrics on http://%s/metrics", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	_ = os.Remove(sock)
	logger.Infof("cache daemon stopped")
	return err
}
