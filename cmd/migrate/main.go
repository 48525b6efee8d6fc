package main

import (
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Bootstrap().WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg)

	db, err := database.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Migration failed")
	}
	log.WithField("driver", cfg.DBDriver).Info("Migrations applied")
}
