package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maitred/internal/api"
	"maitred/internal/config"
	"maitred/internal/database"
	"maitred/internal/events"
	"maitred/internal/kitchen"
	"maitred/internal/monitoring"
	"maitred/internal/pos"

	"github.com/gin-gonic/gin"
)

var configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Event sinks: always the WebSocket hub, plus RabbitMQ when configured
	hub := events.NewHub()
	bus := events.Fanout{hub}
	if cfg.AMQPURL != "" {
		bus = append(bus, events.NewAMQPPublisher(cfg.AMQPURL))
	}

	monitor := monitoring.NewMonitor()
	coordinator := pos.NewCoordinator(db, bus, monitor)

	server := api.NewServer(api.Options{
		Coordinator: coordinator,
		Registry:    pos.NewTableRegistry(db),
		Catalog:     pos.NewCatalog(db),
		Staff:       pos.NewStaff(db),
		Reporter:    pos.NewReporter(db),
		Queue:       kitchen.NewQueue(coordinator),
		Hub:         hub,
		Monitor:     monitor,
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenTTL:    time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
	})

	// Start metrics server
	go startMetricsServer(cfg.Server.MetricsPort, monitor)

	// Start API server
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, monitor *monitoring.Monitor) {
	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(monitor.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
