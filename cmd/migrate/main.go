package main

import (
	"log"
	"os"

	"chat-relay-be/internal/model"
	"chat-relay-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. AutoMigrate All Models
	models := []interface{}{
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.UploadedFile{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Migration completed: %d tables up to date", len(models))
}
