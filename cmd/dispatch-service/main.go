package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-dispatch/internal/duty/api"
	"fleet-dispatch/internal/duty/app"
	"fleet-dispatch/internal/duty/repo"
	"fleet-dispatch/internal/shared/config"
	"fleet-dispatch/internal/shared/db"
	"fleet-dispatch/internal/shared/health"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
	"fleet-dispatch/internal/shared/mq"
	"fleet-dispatch/internal/shared/push"
)

func main() {
	Run()
}

func Run() {
	log := logger.New("dispatch-service")
	defer log.Sync()

	log.Info("DispatchService", "Starting service initialization...")

	cfg := config.Load()
	log.OK("Config", "Configuration loaded successfully")

	database, err := db.ConnectToDB(&cfg.Database)
	if err != nil {
		log.Fatal("Database", err)
	}
	defer database.Close()
	log.OK("Database", "Connected successfully")

	if err := db.RunMigrations(cfg); err != nil {
		log.Fatal("Migrations", err)
	}
	log.OK("Migrations", "Schema is up to date")

	rmqConn, rmqCh, err := mq.ConnectToRMQ(&cfg.RabbitMQ)
	if err != nil {
		log.Fatal("RabbitMQ", err)
	}
	defer rmqConn.Close()
	defer rmqCh.Close()
	log.OK("RabbitMQ", "Connected successfully")

	if err := mq.DeclareFleetExchange(rmqCh); err != nil {
		log.Fatal("RabbitMQ", err)
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	publisher := mq.NewPublisher(rmqCh)
	notifier := push.NewClient(cfg.Push.Endpoint, log)

	repository := repo.NewDutyRepo(database)
	service := app.NewDutyService(repository, publisher, notifier, log)
	handler := api.NewHandler(service, log)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, jwtManager)
	mux.HandleFunc("/health", health.Handler("dispatch-service", database, rmqConn))

	server := &http.Server{
		Addr:    ":" + cfg.Ports.Dispatch,
		Handler: middleware.RequestID(mux),
	}

	go func() {
		log.OK("HTTP", "dispatch-service running on :"+cfg.Ports.Dispatch)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("DispatchService", "Shutting down dispatch-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", err)
	} else {
		log.OK("HTTP", "Server stopped gracefully")
	}

	log.Info("DispatchService", "Shutdown complete")
}
