package main

import (
	"context"
	"errors"

	apartmenthandler "domus/internal/apartments/handler"
	"domus/internal/identity/cache"
	identityrepo "domus/internal/identity/repository"
	"domus/internal/notifications/consumer"
	"domus/internal/notifications/feed"
	"domus/internal/notifications/handler"
	"domus/pkg/app"
	"domus/pkg/client"
	"domus/pkg/config"
	"domus/pkg/kafka"
	kafka_config "domus/pkg/kafka/config"
	kafka_middleware "domus/pkg/kafka/middleware"
	"domus/pkg/model"
)

const (
	ServiceName   = "notifications"
	ConsumerGroup = "notifications-feed"
)

// bookingSource adapts the bookings service HTTP client to the feed's
// loading contract.
type bookingSource struct {
	client *client.BookingClient
}

func (s *bookingSource) ListBySeller(ctx context.Context, sellerID string) ([]*model.Booking, error) {
	return s.client.GetBySeller(ctx, sellerID)
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Notifications service")

	bookingClient := client.NewBookingClient(cfg.BookingServiceURL)
	registry := initRegistry(cfg, bookingClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventConsumer := initConsumer(cfg, registry)
	go func() {
		if err := eventConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Kafka consumer stopped", "error", err)
		}
	}()
	defer func() {
		if err := eventConsumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	notificationHandler := handler.NewNotificationHandler(registry, bookingClient.Decide, cfg.Log)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		notificationHandler,
		apartmenthandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initRegistry(cfg *config.Config, bookingClient *client.BookingClient) *feed.Registry {
	userRepo := identityrepo.NewMongoUserRepository(cfg)
	resolver := cache.NewCachedResolver(userRepo, cfg.Client.Redis, cfg.IdentityCacheTTL, cfg.Log)
	registry := feed.NewRegistry(&bookingSource{client: bookingClient}, resolver, cfg.Log)

	cfg.Log.Info("Notification feed registry initialized",
		"booking_service_url", cfg.BookingServiceURL,
		"identity_cache_ttl", cfg.IdentityCacheTTL,
	)
	return registry
}

func initConsumer(cfg *config.Config, registry *feed.Registry) *kafka.Consumer {
	kafkaCfg := kafka_config.Load()
	eventConsumer, err := kafka.NewConsumer(
		kafkaCfg,
		model.TopicBookingEvents,
		ConsumerGroup,
		model.TopicBookingEventsDLQ,
		consumer.NewBookingEventHandler(registry, cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	eventConsumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka consumer initialized",
		"topic", model.TopicBookingEvents,
		"group", ConsumerGroup,
	)
	return eventConsumer
}
