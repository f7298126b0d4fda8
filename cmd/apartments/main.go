package main

import (
	"time"

	"domus/internal/apartments/calendar"
	"domus/internal/apartments/handler"
	"domus/internal/apartments/repository"
	"domus/internal/apartments/service"
	"domus/internal/apartments/validator"
	"domus/pkg/app"
	"domus/pkg/config"
)

const ServiceName = "apartments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Apartments service")
	apartmentService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewApartmentHandler(apartmentService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ApartmentService {
	apartmentValidator := validator.NewApartmentValidator(cfg.Log)
	apartmentRepo := repository.NewMongoApartmentRepository(cfg)
	cal := calendar.New(cfg.WindowDays, cfg.MaxSlotsPerDay, time.Now)
	apartmentService := service.NewApartmentService(
		apartmentRepo,
		apartmentValidator,
		cal,
		cfg,
	)

	cfg.Log.Info("Apartment service initialized", "database", cfg.MongoDatabaseName)
	return apartmentService
}
