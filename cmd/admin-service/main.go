package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-dispatch/internal/admin/api"
	"fleet-dispatch/internal/admin/app"
	"fleet-dispatch/internal/admin/consumer"
	"fleet-dispatch/internal/admin/repo"
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
	log := logger.New("admin-service")
	defer log.Sync()

	log.Info("AdminService", "Starting service initialization...")

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

	repository := repo.NewAdminRepo(database)
	service := app.NewAdminService(repository, log)
	handler := api.NewHandler(service, wsManager, jwtManager, log)

	feed := consumer.NewFeedConsumer(rmqCh, wsManager, log)
	if err := feed.Start(); err != nil {
		log.Fatal("FeedConsumer", err)
	}
	log.OK("FeedConsumer", "Started successfully")

	mux := handler.RegisterRoutes()
	mux.HandleFunc("/health", health.Handler("admin-service", database, rmqConn))

	server := &http.Server{
		Addr:    ":" + cfg.Ports.Admin,
		Handler: middleware.RequestID(mux),
	}

	go func() {
		log.OK("HTTP", "admin-service running on :"+cfg.Ports.Admin)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("AdminService", "Shutting down admin-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", err)
	} else {
		log.OK("HTTP", "Server stopped gracefully")
	}

	log.Info("AdminService", "Shutdown complete")
}
