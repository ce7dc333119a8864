package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/ultraselfai/primebet-sub001/cache"
	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/events"
	"github.com/ultraselfai/primebet-sub001/jobs"
	"github.com/ultraselfai/primebet-sub001/metrics"
	"github.com/ultraselfai/primebet-sub001/providers"
	"github.com/ultraselfai/primebet-sub001/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment")
	}

	database.Connect()
	cache.Setup(os.Getenv("REDIS_ADDR"))
	events.Setup(os.Getenv("KAFKA_BROKERS"), os.Getenv("KAFKA_TOPIC"))
	providers.Setup()

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		metricsPort = "9100"
	}
	metricsSrv := metrics.StartServer(metricsPort, func(ctx context.Context) error {
		sqlDB, err := database.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	app := fiber.New()
	routes.Setup(app)
	jobs.StartYieldScheduler()
	jobs.StartSessionPruner()

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Println("Server running at", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	_ = metricsSrv.Shutdown(context.Background())
	events.Close()
	log.Println("Server exited cleanly")
}
