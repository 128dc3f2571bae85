package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/reydisse/Wordcloud/config"
	"github.com/reydisse/Wordcloud/internal/auth"
	"github.com/reydisse/Wordcloud/internal/cloud"
	"github.com/reydisse/Wordcloud/internal/database"
	"github.com/reydisse/Wordcloud/internal/server"
	"github.com/reydisse/Wordcloud/internal/session"
	"github.com/reydisse/Wordcloud/internal/watch"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🚀 Word Cloud Server Starting...")

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context cancelled on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create tables
	if err := db.CreateTables(ctx); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✅ Database connected and ready")

	// Create repositories
	sessionRepo := database.NewSessionRepository(db)
	responseRepo := database.NewResponseRepository(db)

	// Create session service and aggregation core
	sessionService := session.NewService(sessionRepo, responseRepo, session.NewCodeGenerator())
	aggregator := cloud.NewAggregator()

	// Create live response watcher
	watcher := watch.NewWatcher(db, responseRepo)
	go watcher.Run(ctx)

	// Create identity verifier
	verifier := auth.NewGoogleVerifier(cfg.GoogleClientID)

	// Create API server
	apiServer := server.NewServer(sessionService, watcher, aggregator, verifier)

	// Start API server in a goroutine
	go func() {
		if err := apiServer.Start(cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Println("✅ System initialized successfully")
	log.Println("📊 Database: Connected and ready")
	log.Println("☁️ Aggregator: Live word cloud ready")
	log.Println("👀 Watcher: Listening for response changes")
	log.Println("")
	log.Println("Server is running. Press Ctrl+C to stop...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
}
