package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/blacktie/storefront/config"
	"github.com/blacktie/storefront/internal/kafka"
	"github.com/blacktie/storefront/internal/logger"
	"github.com/blacktie/storefront/internal/receipt"
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

	if len(cfg.Kafka.Brokers) == 0 {
		zl.Fatal("worker needs kafka brokers")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orders := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic, zl.Named("orders"))
	defer orders.Close()

	heroEvents := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-hero", cfg.Kafka.HeroTopic, zl.Named("hero"))
	defer heroEvents.Close()

	sender := receipt.NewSender(zl.Named("receipt"))

	go func() {
		err := heroEvents.ConsumeHeroEvents(ctx, func(_ context.Context, event kafka.HeroEvent) error {
			zl.Info("hero media changed",
				zap.String("image_url", event.Current.ImageURL),
				zap.String("video_url", event.Current.VideoURL),
			)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			zl.Error("hero consumer stopped", zap.Error(err))
		}
	}()

	err = orders.ConsumeOrders(ctx, sender.Send)
	if err != nil && ctx.Err() == nil {
		zl.Error("order consumer stopped", zap.Error(err))
	}
	zl.Info("worker shutting down")
}
