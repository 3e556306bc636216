package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/database"
	"github.com/vidshare/backend/internal/history"
	"github.com/vidshare/backend/internal/seed"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Parse command
	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev":
		run("🌱 Seeding development database...", func(s *seed.Seeder) error {
			return s.SeedDev(context.Background(), seed.DefaultSizes)
		})
	case "test":
		run("🧪 Seeding test database...", func(s *seed.Seeder) error {
			return s.SeedTest(context.Background())
		})
	case "clean":
		run("🧹 Cleaning seed data...", func(s *seed.Seeder) error {
			return s.Clean()
		})
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with minimal data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}
}

func run(banner string, fn func(*seed.Seeder) error) {
	log.Println(banner)

	cfg, err := config.Load(config.NewViper())
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Initialize database connection
	if err := database.Initialize(cfg.Database, false); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	seeder := seed.NewSeeder(database.DB, history.Config{
		Capacity:      cfg.History.Capacity,
		RecordTimeout: cfg.Views.RecordTimeout,
	})
	if err := fn(seeder); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✅ Done!")
}
