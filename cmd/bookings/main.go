package main

import (
	"github.com/zermoser/mos-e-form/internal/bookings/handler"
	"github.com/zermoser/mos-e-form/internal/bookings/repository"
	"github.com/zermoser/mos-e-form/internal/bookings/service"
	"github.com/zermoser/mos-e-form/internal/bookings/validator"
	"github.com/zermoser/mos-e-form/pkg/app"
	"github.com/zermoser/mos-e-form/pkg/config"
	"github.com/zermoser/mos-e-form/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Bookings service")

	if cfg.UsesMongo() {
		cfg.SetMongo()
	}

	bookingService, producer := initServices(cfg)
	if producer != nil {
		defer producer.Close()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, *kafka.Producer) {
	var bookingRepo repository.BookingRepository
	var lockRepo repository.SlotLockRepository
	if cfg.UsesMongo() {
		bookingRepo = repository.NewMongoBookingRepository(cfg)
		lockRepo = repository.NewMongoSlotLockRepository(cfg)
	} else {
		bookingRepo = repository.NewMemoryBookingRepository()
		lockRepo = repository.NewMemorySlotLockRepository()
	}

	var publisher service.EventPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, cfg.BookingEventTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		publisher = producer
		cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventTopic)
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		validator.NewBookingValidator(cfg),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "backend", cfg.StoreBackend)
	return bookingService, producer
}
