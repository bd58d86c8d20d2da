package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pthm/rigor"
	rigorredis "github.com/pthm/rigor/adapters/redis"
	"github.com/pthm/rigor/internal/config"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo components over HTTP",
	Long: `Serve renders the demo components as markup, keeps a live in-memory
document that reacts to POST /live/click, relays POST /emit/{topic} to the
pub/sub capability and exposes Prometheus metrics on /metrics.

When redis.addr is configured, emits are relayed between every rigor
process subscribed to the same channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := buildServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		return listenAndServe(ctx, cfg.Listen, srv.routes(), logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (overrides the config)")
}

// buildServer wires renderers, metrics and the pub/sub backend. A
// configured Redis bridge runs until ctx is done.
func buildServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := rigor.NewMetrics(rigor.WithRegistry(registry))

	bus := rigor.NewBus()
	pubsub := rigor.PubsubPlugin(bus)
	emit := rigor.EmitFunc(bus.Emit)

	if cfg.Redis.Addr != "" {
		bridge, err := newBridge(cfg, bus, logger)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := bridge.Run(ctx); err != nil {
				logger.Error("redis bridge stopped", zap.Error(err))
			}
		}()
		pubsub = bridge.Plugin()
		emit = bridge.Emit
	}

	markupOpts, err := cfg.RendererOptions(logger)
	if err != nil {
		return nil, err
	}
	liveOpts, err := cfg.RendererOptions(logger, pubsub)
	if err != nil {
		return nil, err
	}

	live, err := newLiveSession(rigor.New(append(liveOpts, rigor.WithMetrics(metrics))...))
	if err != nil {
		return nil, err
	}

	return &server{
		markup:   rigor.New(append(markupOpts, rigor.WithMetrics(metrics))...),
		live:     live,
		emit:     emit,
		registry: registry,
		logger:   logger,
	}, nil
}

func newBridge(cfg config.Config, bus *rigor.Bus, logger *zap.Logger) (*rigorredis.Bridge, error) {
	key := []byte(cfg.SigningKey)
	if len(key) == 0 {
		if cfg.Redis.Sealed {
			return nil, fmt.Errorf("redis.sealed requires signing_key")
		}
		logger.Warn("no signing_key configured, using a random key; other processes will reject these messages")
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	enc, err := rigor.NewEncoder(key)
	if err != nil {
		return nil, err
	}

	opts := []rigorredis.Option{
		rigorredis.WithChannel(cfg.Redis.Channel),
		rigorredis.WithLogger(logger.Named("redis")),
	}
	if cfg.Redis.Sealed {
		opts = append(opts, rigorredis.WithSealed())
	}
	client := backend.NewClient(&backend.Options{Addr: cfg.Redis.Addr})
	return rigorredis.New(client, bus, enc, opts...), nil
}

// listenAndServe runs handler until ctx is done, then shuts down with a
// deadline for outstanding requests.
func listenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", zap.Error(err))
			return srv.Close()
		}
		return nil
	}
}
