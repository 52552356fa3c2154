package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teleponi/rls-buddy/internal/user"
	"github.com/teleponi/rls-buddy/pkg/config"
	"github.com/teleponi/rls-buddy/pkg/postgres"
	"github.com/teleponi/rls-buddy/pkg/rabbitmq"

	_ "github.com/teleponi/rls-buddy/docs/user"
)

// @title           RLS-Buddy User Service API
// @version         1.0
// @description     User accounts, authentication and token validation. Publishes USER_DELETED events to RabbitMQ.
// @host            localhost:8001
// @BasePath        /
// @schemes         http
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[User] Starting user-service...")

	cfg := config.LoadForService("USER")

	// Connect to PostgreSQL
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[User] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, "user"); err != nil {
		log.Fatalf("[User] Failed to run migrations: %v", err)
	}

	// The publisher dials per publish; nothing to connect here.
	publisher := rabbitmq.NewPublisher(cfg.RabbitMQURL)

	// Setup handlers and router
	handler := user.NewHandler(user.NewStore(db), user.NewAuthenticator(cfg.SecretKey), publisher)
	router := user.NewRouter(handler)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.UserPort,
		Handler: router,
	}

	go func() {
		log.Printf("[User] Listening on port %s", cfg.UserPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[User] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[User] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[User] Server forced to shutdown: %v", err)
	}
	log.Println("[User] Server exited gracefully")
}
