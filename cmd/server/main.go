package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"cartegrise/internal/events"
	"cartegrise/internal/platform/config"
	"cartegrise/internal/platform/httpserver"
	"cartegrise/internal/platform/logger"
	"cartegrise/internal/platform/metrics"
	"cartegrise/internal/platform/middleware"
	platformredis "cartegrise/internal/platform/redis"
	"cartegrise/internal/registry/cache"
	"cartegrise/internal/registry/handler"
	registrymetrics "cartegrise/internal/registry/metrics"
	"cartegrise/internal/registry/service"
	"cartegrise/internal/registry/store"
	"cartegrise/internal/walletjwt"
	"cartegrise/pkg/domain"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the registry packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var bootstrapAdmin domain.Address
	if cfg.BootstrapAdmin != "" {
		parsed, err := domain.ParseAddress(cfg.BootstrapAdmin)
		if err != nil {
			log.Error("invalid bootstrap admin address", "error", err)
			os.Exit(1)
		}
		bootstrapAdmin = parsed
	}

	// Registry store: postgres when a DSN is configured, memory otherwise.
	var registryStore store.Store
	var eventStore events.Store
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("ensure registry schema", "error", err)
			os.Exit(1)
		}
		if err := pg.EnsureBootstrapAdmin(ctx, bootstrapAdmin); err != nil {
			log.Error("seed bootstrap admin", "error", err)
			os.Exit(1)
		}
		registryStore = pg

		pgEvents := events.NewPostgresStore(db)
		if err := pgEvents.EnsureSchema(ctx); err != nil {
			log.Error("ensure events schema", "error", err)
			os.Exit(1)
		}
		eventStore = pgEvents
	} else {
		registryStore = store.NewMemory(bootstrapAdmin)
		eventStore = events.NewInMemoryStore()
		log.Info("no postgres DSN configured, using in-memory stores")
	}

	// Optional record cache.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	var recordCache *cache.RecordCache
	if redisClient != nil {
		defer redisClient.Close()
		recordCache = cache.New(redisClient.Client, config.RecordCacheTTL)
		log.Info("record cache enabled", "ttl", config.RecordCacheTTL)
	}

	// Event publisher, with the Kafka sink when brokers are configured.
	publisherOpts := []events.Option{events.WithAsyncBuffer(256)}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := events.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		publisherOpts = append(publisherOpts, events.WithSink(sink))
		log.Info("kafka event sink enabled", "topic", cfg.Kafka.Topic)
	}
	publisher := events.NewPublisher(eventStore, publisherOpts...)
	defer publisher.Close()

	svc := service.New(registryStore,
		service.WithLogger(log),
		service.WithMetrics(registrymetrics.New()),
		service.WithCache(recordCache),
		service.WithEventPublisher(publisher),
	)

	jwtService := walletjwt.NewService(cfg.JWTSigningKey, "cartegrise", "cartegrise-api")
	httpMetrics := metrics.NewHTTP()
	registryHandler := handler.New(svc, log)

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Timeout(30*time.Second),
		middleware.Latency(httpMetrics),
	)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	// Read routes are open; mutations require a wallet session token.
	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Group(func(mutating chi.Router) {
			mutating.Use(middleware.RequireCaller(jwtService, log))
			registryHandler.RegisterProtected(mutating)
		})
		registryHandler.RegisterPublic(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		log.Info("starting cartegrise registry", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
