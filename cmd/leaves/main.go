package main

import (
	"github.com/zermoser/mos-e-form/internal/leaves/handler"
	"github.com/zermoser/mos-e-form/internal/leaves/repository"
	"github.com/zermoser/mos-e-form/internal/leaves/service"
	"github.com/zermoser/mos-e-form/internal/leaves/validator"
	"github.com/zermoser/mos-e-form/pkg/app"
	"github.com/zermoser/mos-e-form/pkg/config"
	"github.com/zermoser/mos-e-form/pkg/kafka"
)

const ServiceName = "leaves"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Leaves service")

	if cfg.UsesMongo() {
		cfg.SetMongo()
	}

	leaveService, producer := initServices(cfg)
	if producer != nil {
		defer producer.Close()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewLeaveHandler(leaveService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.LeaveService, *kafka.Producer) {
	var leaveRepo repository.LeaveRepository
	if cfg.UsesMongo() {
		leaveRepo = repository.NewMongoLeaveRepository(cfg)
	} else {
		leaveRepo = repository.NewMemoryLeaveRepository()
	}

	var publisher service.EventPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, cfg.LeaveEventTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		publisher = producer
		cfg.Log.Info("Kafka producer initialized", "topic", cfg.LeaveEventTopic)
	}

	leaveService := service.NewLeaveService(
		leaveRepo,
		validator.NewLeaveValidator(),
		publisher,
		cfg,
	)

	cfg.Log.Info("Leave service initialized", "backend", cfg.StoreBackend)
	return leaveService, producer
}
