package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jusmonitor/process-tracker/internal/cache"
	"github.com/jusmonitor/process-tracker/internal/config"
	"github.com/jusmonitor/process-tracker/internal/database"
	"github.com/jusmonitor/process-tracker/internal/server"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

func main() {
	var migrate bool
	var seed bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.BoolVar(&seed, "seed", false, "Seed the default court catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := database.RunMigrations(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	if seed {
		if err := database.SeedCourts(db); err != nil {
			log.Fatal("Failed to seed courts", "error", err)
		}
		log.Info("Court catalog seeded successfully")
		return
	}

	processCache := cache.NewCache(cfg.CacheSize, cfg.CacheTTL)

	srv := server.New(cfg, db, processCache, log)

	log.Info("Starting judicial process tracker",
		"host", cfg.Host,
		"port", cfg.Port,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
