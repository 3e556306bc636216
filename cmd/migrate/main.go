package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Parse command
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		runMigrationsUp()
	default:
		fmt.Println("Usage: migrate [up]")
		fmt.Println("  up     - Create or update all tables and indexes")
		os.Exit(1)
	}
}

func runMigrationsUp() {
	cfg, err := config.Load(config.NewViper())
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	log.Println("🔄 Connecting to database...")
	if err := database.Initialize(cfg.Database, cfg.IsDevelopment()); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("📈 Running migrations...")
	if err := database.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ All migrations completed successfully!")
}
