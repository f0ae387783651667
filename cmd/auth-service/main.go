package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-dispatch/internal/auth/api"
	"fleet-dispatch/internal/auth/app"
	"fleet-dispatch/internal/auth/repo"
	"fleet-dispatch/internal/shared/config"
	"fleet-dispatch/internal/shared/db"
	"fleet-dispatch/internal/shared/health"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
)

func main() {
	Run()
}

func Run() {
	log := logger.New("auth-service")
	defer log.Sync()

	log.Info("AuthService", "Starting service initialization...")

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

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)

	repository := repo.NewAuthRepo(database)
	service := app.NewAuthService(repository, jwtManager, log)
	handler := api.NewHandler(service, log)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, jwtManager)
	mux.HandleFunc("/health", health.HandlerWithoutRabbitMQ("auth-service", database))

	server := &http.Server{
		Addr:    ":" + cfg.Ports.Auth,
		Handler: middleware.RequestID(mux),
	}

	go func() {
		log.OK("HTTP", "auth-service running on :"+cfg.Ports.Auth)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("AuthService", "Shutting down auth-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", err)
	} else {
		log.OK("HTTP", "Server stopped gracefully")
	}

	log.Info("AuthService", "Shutdown complete")
}
