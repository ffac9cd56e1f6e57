package main

import (
	"github.com/zermoser/mos-e-form/internal/attendance/handler"
	"github.com/zermoser/mos-e-form/internal/attendance/repository"
	"github.com/zermoser/mos-e-form/internal/attendance/service"
	"github.com/zermoser/mos-e-form/internal/attendance/validator"
	"github.com/zermoser/mos-e-form/pkg/app"
	"github.com/zermoser/mos-e-form/pkg/config"
)

const ServiceName = "attendance"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Attendance service")

	if cfg.UsesMongo() {
		cfg.SetMongo()
	}

	attendanceService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAttendanceHandler(attendanceService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AttendanceService {
	var attendanceRepo repository.AttendanceRepository
	if cfg.UsesMongo() {
		attendanceRepo = repository.NewMongoAttendanceRepository(cfg)
	} else {
		attendanceRepo = repository.NewMemoryAttendanceRepository()
	}

	attendanceService := service.NewAttendanceService(
		attendanceRepo,
		validator.NewAttendanceValidator(),
		cfg,
	)

	cfg.Log.Info("Attendance service initialized", "backend", cfg.StoreBackend)
	return attendanceService
}
