package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"shipflow/internal/archive"
	"shipflow/internal/catalog"
	"shipflow/internal/metrics"
	"shipflow/pkg/config"
	"shipflow/pkg/logging"
	"shipflow/pkg/queue"
	"shipflow/pkg/shutdown"
	"shipflow/pkg/tracing"
	"shipflow/pkg/workflow"

	bookapp "shipflow/internal/book/application"
	bookhttp "shipflow/internal/book/infrastructure/http"
	bookredis "shipflow/internal/book/infrastructure/redis"
	orderapp "shipflow/internal/order/application"
	orderhttp "shipflow/internal/order/infrastructure/http"
	orderredis "shipflow/internal/order/infrastructure/redis"
	transportapp "shipflow/internal/transport/application"
	transporthttp "shipflow/internal/transport/infrastructure/http"
	transportredis "shipflow/internal/transport/infrastructure/redis"
)

func main() {
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "shipflow", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	reg := metrics.NewRegistry()

	// Record store
	rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// Archive
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	archiveStore, err := archive.NewStore(ctx, log, pool, cfg.CallTimeout, reg.ArchiveWrites)
	if err != nil {
		log.Error("archive init failed", "err", err)
		os.Exit(1)
	}

	// Event publisher
	writer := queue.NewWriter(cfg.KafkaBrokers)
	defer writer.Close()
	publisher := queue.NewPublisher(log, writer, cfg.EventTopic, cfg.CallTimeout, reg.EventsPublished)

	// Catalog service
	catalogClient := catalog.NewClient(log, cfg.CatalogBaseURL, cfg.CallTimeout)
	inventory := catalog.NewInventoryUpdater(log, catalogClient, reg.StockDecrements)

	runner := workflow.NewRunner(log, workflow.WithObserver(reg.Observe))

	var enricher orderapp.Enricher = orderapp.SequentialEnricher{}
	if cfg.EnrichStrategy == config.EnrichConcurrent {
		enricher = orderapp.ConcurrentEnricher{}
	}

	orderSvc := orderapp.NewService(log, runner,
		catalogClient,
		orderredis.NewRepository(log, rdb, cfg.CallTimeout),
		publisher, archiveStore, enricher)
	transportSvc := transportapp.NewService(log, runner,
		transportredis.NewRepository(log, rdb, cfg.CallTimeout),
		publisher, archiveStore, inventory)
	bookSvc := bookapp.NewService(log,
		bookredis.NewRepository(log, rdb, cfg.CallTimeout))

	r := chi.NewRouter()
	r.Mount("/orders", orderhttp.NewHandler(log, orderSvc).Routes())
	r.Mount("/transports", transporthttp.NewHandler(log, transportSvc).Routes())
	r.Mount("/books", bookhttp.NewHandler(log, bookSvc).Routes())
	r.Handle("/metrics", reg.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("shipflow shutdown complete")
}
