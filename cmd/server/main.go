package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsDevelopment() && os.Getenv("JWT_SECRET") == "" {
		slog.Warn("JWT_SECRET not set, using the insecure development secret")
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage (runs migrations)
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	broker := events.NewBroker()
	if m != nil {
		broker.OnDrop = func(events.Event) { m.EventDropped() }
	}

	// The cache is evicted before watchers hear about a change, so a
	// watcher reloading the ledger never sees the old one.
	var publishers []events.Publisher
	var ledgers *service.LedgerCache
	if cfg.LedgerCacheTTL > 0 {
		ledgers = service.NewLedgerCache(cfg.LedgerCacheTTL)
		publishers = append(publishers, ledgers)
	}
	publishers = append(publishers, broker)

	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		slog.Info("Publishing changes to AMQP", "exchange", cfg.AMQPExchange)
	}
	ledgerStore := storage.WithNotifications(store, events.Multi(publishers...))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	var interceptors []connect.Interceptor
	var observer service.PlanObserver
	if m != nil {
		interceptors = append(interceptors, m.Interceptor())
		observer = m
	}
	interceptors = append(interceptors,
		middleware.RateLimit(
			rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
			api.GroupServiceCreateGroupProcedure,
			api.GroupServiceJoinGroupProcedure,
		),
		middleware.RequireAuth(jwtManager, api.PublicProcedures...),
		middleware.LoggingInterceptor(),
	)
	handlerOpts := connect.WithInterceptors(interceptors...)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(api.NewGroupServiceHandler(service.NewGroupService(ledgerStore, jwtManager, broker), handlerOpts))
	mux.Handle(api.NewLedgerServiceHandler(service.NewLedgerService(ledgerStore, observer, ledgers), handlerOpts))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	handler := h2c.NewHandler(middleware.HTTPLogging(middleware.CORS(mux)), &http2.Server{})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "url", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")

		// Ends WatchGroup streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Shutdown timeout reached", "error", err)
			return err
		}
		return nil
	})

	return g.Wait()
}
