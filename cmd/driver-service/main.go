package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-dispatch/internal/driver/adapter/handlers"
	"fleet-dispatch/internal/driver/adapter/psql"
	"fleet-dispatch/internal/driver/app/usecase"
	"fleet-dispatch/internal/driver/consumer"
	"fleet-dispatch/internal/shared/config"
	"fleet-dispatch/internal/shared/db"
	"fleet-dispatch/internal/shared/health"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
	"fleet-dispatch/internal/shared/mq"
	"fleet-dispatch/internal/shared/ws"
)

func main() {
	Run()
}

func Run() {
	log := logger.New("driver-service")
	defer log.Sync()

	log.Info("DriverService", "Starting service initialization...")

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
	wsManager := ws.NewManager()

	repository := psql.New(database)
	broker := mq.NewPublisher(rmqCh)
	service := usecase.NewService(repository, broker)
	handler := handlers.NewHandler(service, wsManager, jwtManager, log)

	assignments := consumer.NewAssignmentConsumer(rmqCh, wsManager, log)
	if err := assignments.Start(); err != nil {
		log.Fatal("AssignmentConsumer", err)
	}
	log.OK("AssignmentConsumer", "Started successfully")

	mux := handler.Router()
	mux.HandleFunc("/health", health.Handler("driver-service", database, rmqConn))

	server := &http.Server{
		Addr:    ":" + cfg.Ports.Driver,
		Handler: middleware.RequestID(mux),
	}

	go func() {
		log.OK("HTTP", "driver-service running on :"+cfg.Ports.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("DriverService", "Shutting down driver-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", err)
	} else {
		log.OK("HTTP", "Server stopped gracefully")
	}

	log.Info("DriverService", "Shutdown complete")
}
