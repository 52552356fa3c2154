package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teleponi/rls-buddy/internal/tracking"
	"github.com/teleponi/rls-buddy/pkg/config"
	"github.com/teleponi/rls-buddy/pkg/postgres"
	"github.com/teleponi/rls-buddy/pkg/rabbitmq"

	_ "github.com/teleponi/rls-buddy/docs/tracking"
)

// @title           RLS-Buddy Tracking Service API
// @version         1.0
// @description     Symptom, trigger and sleep/day tracking. Consumes USER_DELETED events to cascade deletions.
// @host            localhost:8002
// @BasePath        /
// @schemes         http
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[Tracking] Starting tracking-service...")

	cfg := config.LoadForService("TRACKING")

	// Connect to PostgreSQL
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Tracking] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, "tracking"); err != nil {
		log.Fatalf("[Tracking] Failed to run migrations: %v", err)
	}

	// Connect to RabbitMQ. Without the consumer the cascade breaks
	// silently, so a dead broker is a startup failure.
	rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[Tracking] Failed to connect to RabbitMQ: %v", err)
	}
	defer rmqConn.Close()

	store := tracking.NewStore(db)

	// Start the event consumer beside the HTTP listener
	consumer := tracking.NewConsumer(store)
	if err := rabbitmq.SetupConsumer(rmqConn, "tracking-consumer", consumer.HandleMessage); err != nil {
		log.Fatalf("[Tracking] Failed to setup consumer: %v", err)
	}
	log.Println("[Tracking] Consumer is running. Waiting for messages...")

	// Setup handlers and router
	verifier := tracking.NewHTTPVerifier(cfg.UserServiceURL)
	handler := tracking.NewHandler(store, verifier)
	router := tracking.NewRouter(handler)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.TrackingPort,
		Handler: router,
	}

	go func() {
		log.Printf("[Tracking] Listening on port %s", cfg.TrackingPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Tracking] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Tracking] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[Tracking] Server forced to shutdown: %v", err)
	}
	log.Println("[Tracking] Server exited gracefully")
}
