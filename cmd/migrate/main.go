package main

import (
	"context"
	"time"

	migrations "github.com/zermoser/mos-e-form/internal/migrations/mongo"
	"github.com/zermoser/mos-e-form/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if !cfg.UsesMongo() {
		cfg.Log.Info("Memory backend selected, nothing to migrate")
		return
	}

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job")
	if err := migrations.RunMigration(ctx, cfg); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
