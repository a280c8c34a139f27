package main

import (
	adminshandler "drively/internal/admins/handler"
	adminsrepository "drively/internal/admins/repository"
	adminsservice "drively/internal/admins/service"
	bookingshandler "drively/internal/bookings/handler"
	bookingsrepository "drively/internal/bookings/repository"
	bookingsservice "drively/internal/bookings/service"
	bookingsvalidator "drively/internal/bookings/validator"
	cataloghandler "drively/internal/catalog/handler"
	catalogrepository "drively/internal/catalog/repository"
	catalogservice "drively/internal/catalog/service"
	catalogvalidator "drively/internal/catalog/validator"
	contacthandler "drively/internal/contact/handler"
	contactrepository "drively/internal/contact/repository"
	contactservice "drively/internal/contact/service"
	healthhandler "drively/internal/health/handler"
	usershandler "drively/internal/users/handler"
	usersrepository "drively/internal/users/repository"
	usersservice "drively/internal/users/service"
	usersvalidator "drively/internal/users/validator"
	"drively/pkg/app"
	"drively/pkg/auth"
	"drively/pkg/config"
	"drively/pkg/kafka"
	kafka_config "drively/pkg/kafka/config"
	"drively/pkg/middleware"
)

const serviceName = "api"

func main() {
	cfg := config.Load(serviceName)
	cfg.SetMongo()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	authn := middleware.NewAuthenticator(tokens, cfg.Log)

	carRepo := catalogrepository.NewMongoCarRepository(cfg)
	catalogSvc := catalogservice.NewCatalogService(carRepo, catalogvalidator.NewCarValidator(), cfg)

	var events bookingsservice.EventPublisher
	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			cfg.Log.Fatal("Failed to load Kafka configuration", "error", err)
		}
		producer, err = kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		events = producer
	}

	bookingSvc := bookingsservice.NewBookingService(
		bookingsrepository.NewMongoBookingRepository(cfg),
		bookingsrepository.NewBookingLockRepository(cfg),
		catalogSvc,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		events,
		cfg,
	)

	userSvc := usersservice.NewUserService(
		usersrepository.NewMongoUserRepository(cfg),
		usersvalidator.NewUserValidator(),
		tokens,
		cfg,
	)

	adminSvc := adminsservice.NewAdminService(adminsrepository.NewMongoAdminRepository(cfg), tokens, cfg)
	contactSvc := contactservice.NewContactService(contactrepository.NewMongoContactRepository(cfg), cfg)

	application := app.NewApplication(cfg)
	application.RegisterHandlers(
		healthhandler.NewHealthHandler(cfg),
		bookingshandler.NewBookingHandler(bookingSvc, authn, cfg.Log),
		cataloghandler.NewCarHandler(catalogSvc, authn, cfg.Log),
		usershandler.NewUserHandler(userSvc, authn, cfg.Log),
		adminshandler.NewAdminHandler(adminSvc, cfg.Log),
		contacthandler.NewContactHandler(contactSvc, authn, cfg.Log),
	)

	if producer != nil {
		application.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	}

	application.Run()
}
