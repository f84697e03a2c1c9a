package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blacktie/storefront/config"
	"github.com/blacktie/storefront/internal/bootstrap"
	"github.com/blacktie/storefront/internal/cache"
	"github.com/blacktie/storefront/internal/kafka"
	"github.com/blacktie/storefront/internal/logger"
	"github.com/blacktie/storefront/internal/repository"
	"github.com/blacktie/storefront/internal/service/booking"
	"github.com/blacktie/storefront/internal/service/catalog"
	"github.com/blacktie/storefront/internal/service/hero"
	"github.com/blacktie/storefront/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.Database.Enabled() {
		pool, err = pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			zl.Fatal("connect postgres", zap.Error(err))
		}
		defer pool.Close()
	}

	var events repository.EventRepository
	if pool != nil {
		events = repository.NewEventRepository(pool)
	} else {
		zl.Info("no database configured, serving the built-in event catalog")
		events = repository.NewStaticEventRepository(nil)
	}

	var eventCache catalog.EventCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.EventsCacheTTLSeconds)*time.Second)
		defer redisCache.Close()
		eventCache = redisCache
	}
	catalogService := catalog.NewCatalogService(events, eventCache, zl.Named("catalog"))

	store, err := storage.Open(ctx, cfg, pool)
	if err != nil {
		zl.Fatal("open hero storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer store.Close()

	heroOpts := []hero.Option{hero.WithLimit(cfg.Hero.HistoryLimit)}
	var publisher booking.OrderPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, cfg.Kafka.HeroTopic, zl.Named("kafka"))
		defer producer.Close()
		publisher = producer
		heroOpts = append(heroOpts, hero.WithNotifier(producer))
	}

	heroStore := hero.NewRevisionStore(
		repository.NewHeroRepository(store, zl.Named("hero_repo")),
		zl.Named("hero"),
		heroOpts...,
	)

	bookingService := booking.NewBookingService(
		catalogService,
		publisher,
		zl.Named("booking"),
		booking.WithRequiredFields(cfg.Booking.RequireFields),
		booking.WithIdleTTL(time.Duration(cfg.Booking.SessionIdleTTLMinutes)*time.Minute),
	)

	dispatchDone := make(chan struct{})
	go func() {
		bookingService.Run(ctx)
		close(dispatchDone)
	}()
	go bookingService.RunSweeper(ctx, time.Duration(cfg.Booking.SweepIntervalSeconds)*time.Second)

	err = bootstrap.Run(ctx, cfg, zl, bootstrap.Services{
		Catalog: catalogService,
		Booking: bookingService,
		Hero:    heroStore,
	})
	stop()
	<-dispatchDone
	if err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
