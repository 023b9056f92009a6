package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"classifieds-core/config"
	"classifieds-core/internal/domain/conversation"
	"classifieds-core/internal/domain/listing"
	"classifieds-core/internal/domain/message"
	"classifieds-core/internal/domain/notification"
	"classifieds-core/internal/domain/outbox"
	"classifieds-core/internal/domain/report"
	"classifieds-core/pkg/database"
)

const usage = `
Classifieds Core - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Create or update all tables (GORM AutoMigrate)
  status      Show database connection status and table row counts

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
`

// models lists every table owned by this service, plus the shared listings table.
var models = []interface{}{
	&listing.Listing{},
	&conversation.Conversation{},
	&message.Message{},
	&report.Report{},
	&report.HistoryEntry{},
	&notification.Notification{},
	&outbox.OutboxEvent{},
}

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp()
	case "status":
		showStatus()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp() {
	log.Println("🚀 Running migrations UP...")

	if err := database.Migrate(models...); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func showStatus() {
	log.Println("🔍 Checking database status...")

	if err := database.HealthCheck(); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	for _, model := range models {
		table, err := database.TableName(model)
		if err != nil {
			log.Printf("⚠️  Error resolving table for %T: %v", model, err)
			continue
		}
		if !database.DB.Migrator().HasTable(model) {
			log.Printf("❌ Table %-20s does not exist", table)
			continue
		}
		var count int64
		if err := database.DB.Model(model).Count(&count).Error; err != nil {
			log.Printf("⚠️  Error counting table %s: %v", table, err)
			continue
		}
		log.Printf("✅ Table %-20s exists (%d rows)", table, count)
	}
}
