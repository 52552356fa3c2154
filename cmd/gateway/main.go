package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teleponi/rls-buddy/internal/gateway"
	"github.com/teleponi/rls-buddy/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[Gateway] Starting gateway...")

	cfg := config.Load()

	reg := prometheus.NewRegistry()
	proxy := gateway.NewProxy(cfg.UserServiceURL, cfg.TrackingServiceURL, gateway.NewMetrics(reg))
	router := gateway.NewRouter(proxy, reg)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.GatewayPort,
		Handler: router,
	}

	go func() {
		log.Printf("[Gateway] Listening on port %s", cfg.GatewayPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Gateway] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Gateway] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[Gateway] Server forced to shutdown: %v", err)
	}
	log.Println("[Gateway] Server exited gracefully")
}
