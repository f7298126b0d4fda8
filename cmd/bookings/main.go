package main

import (
	apartmenthandler "domus/internal/apartments/handler"
	"domus/internal/bookings/events"
	"domus/internal/bookings/handler"
	"domus/internal/bookings/repository"
	"domus/internal/bookings/service"
	"domus/internal/bookings/validator"
	"domus/pkg/app"
	"domus/pkg/config"
	"domus/pkg/kafka"
	kafka_config "domus/pkg/kafka/config"
	kafka_middleware "domus/pkg/kafka/middleware"
	"domus/pkg/model"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	bookingService := initServices(cfg, producer)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		apartmenthandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, model.TopicBookingEvents, model.TopicBookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka producer initialized", "topic", model.TopicBookingEvents)
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	notifRepo := repository.NewMongoNotificationRepository(cfg)
	publisher := events.NewKafkaPublisher(producer, ServiceName)
	bookingService := service.NewBookingService(
		bookingRepo,
		notifRepo,
		publisher,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
