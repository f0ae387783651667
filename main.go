package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminApi "fleet-dispatch/internal/admin/api"
	adminApp "fleet-dispatch/internal/admin/app"
	adminConsumer "fleet-dispatch/internal/admin/consumer"
	adminRepo "fleet-dispatch/internal/admin/repo"
	authApi "fleet-dispatch/internal/auth/api"
	authApp "fleet-dispatch/internal/auth/app"
	authRepo "fleet-dispatch/internal/auth/repo"
	"fleet-dispatch/internal/driver/adapter/handlers"
	"fleet-dispatch/internal/driver/adapter/psql"
	"fleet-dispatch/internal/driver/app/usecase"
	driverConsumer "fleet-dispatch/internal/driver/consumer"
	dutyApi "fleet-dispatch/internal/duty/api"
	dutyApp "fleet-dispatch/internal/duty/app"
	dutyRepo "fleet-dispatch/internal/duty/repo"
	"fleet-dispatch/internal/shared/config"
	"fleet-dispatch/internal/shared/db"
	"fleet-dispatch/internal/shared/health"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
	"fleet-dispatch/internal/shared/models"
	"fleet-dispatch/internal/shared/mq"
	"fleet-dispatch/internal/shared/push"
	"fleet-dispatch/internal/shared/ws"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	service := flag.String("service", "", "Service to run: auth|dispatch|driver|admin")
	flag.Parse()

	if *service == "" {
		*service = os.Getenv("SERVICE")
	}

	switch *service {
	case "auth":
		runAuthService()
	case "dispatch":
		runDispatchService()
	case "driver":
		runDriverService()
	case "admin":
		runAdminService()
	default:
		fmt.Println("Usage: fleet-dispatch -service=[auth|dispatch|driver|admin]")
		fmt.Println("   or: SERVICE=dispatch fleet-dispatch")
		os.Exit(1)
	}
}

// boot performs the startup steps every service shares: config, logger,
// database and migrations.
func boot(serviceName string) (*logger.Logger, *models.Config, *pgxpool.Pool) {
	log := logger.New(serviceName)

	log.Info(serviceName, "Starting service initialization...")

	cfg := config.Load()
	log.OK("Config", "Configuration loaded successfully")

	database, err := db.ConnectToDB(&cfg.Database)
	if err != nil {
		log.Fatal("Database", err)
	}
	log.OK("Database", "Connected successfully")

	if err := db.RunMigrations(cfg); err != nil {
		log.Fatal("Migrations", err)
	}
	log.OK("Migrations", "Schema is up to date")

	return log, cfg, database
}

func connectRMQ(log *logger.Logger, cfg *models.Config) (*amqp.Connection, *amqp.Channel) {
	rmqConn, rmqCh, err := mq.ConnectToRMQ(&cfg.RabbitMQ)
	if err != nil {
		log.Fatal("RabbitMQ", err)
	}
	log.OK("RabbitMQ", "Connected successfully")

	if err := mq.DeclareFleetExchange(rmqCh); err != nil {
		log.Fatal("RabbitMQ", err)
	}
	return rmqConn, rmqCh
}

func serve(log *logger.Logger, serviceName, port string, mux *http.ServeMux) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: middleware.RequestID(mux),
	}

	go func() {
		log.OK("HTTP", serviceName+" running on :"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn(serviceName, "Shutting down "+serviceName+"...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", err)
	} else {
		log.OK("HTTP", "Server stopped gracefully")
	}

	log.Info(serviceName, "Shutdown complete")
}

func runAuthService() {
	log, cfg, database := boot("auth-service")
	defer log.Sync()
	defer database.Close()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)

	repository := authRepo.NewAuthRepo(database)
	service := authApp.NewAuthService(repository, jwtManager, log)
	handler := authApi.NewHandler(service, log)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, jwtManager)
	mux.HandleFunc("/health", health.HandlerWithoutRabbitMQ("auth-service", database))

	serve(log, "auth-service", cfg.Ports.Auth, mux)
}

func runDispatchService() {
	log, cfg, database := boot("dispatch-service")
	defer log.Sync()
	defer database.Close()

	rmqConn, rmqCh := connectRMQ(log, cfg)
	defer rmqConn.Close()
	defer rmqCh.Close()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	publisher := mq.NewPublisher(rmqCh)
	notifier := push.NewClient(cfg.Push.Endpoint, log)

	repository := dutyRepo.NewDutyRepo(database)
	service := dutyApp.NewDutyService(repository, publisher, notifier, log)
	handler := dutyApi.NewHandler(service, log)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, jwtManager)
	mux.HandleFunc("/health", health.Handler("dispatch-service", database, rmqConn))

	serve(log, "dispatch-service", cfg.Ports.Dispatch, mux)
}

func runDriverService() {
	log, cfg, database := boot("driver-service")
	defer log.Sync()
	defer database.Close()

	rmqConn, rmqCh := connectRMQ(log, cfg)
	defer rmqConn.Close()
	defer rmqCh.Close()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	wsManager := ws.NewManager()

	repository := psql.New(database)
	broker := mq.NewPublisher(rmqCh)
	service := usecase.NewService(repository, broker)
	handler := handlers.NewHandler(service, wsManager, jwtManager, log)

	assignments := driverConsumer.NewAssignmentConsumer(rmqCh, wsManager, log)
	if err := assignments.Start(); err != nil {
		log.Fatal("AssignmentConsumer", err)
	}
	log.OK("AssignmentConsumer", "Started successfully")

	mux := handler.Router()
	mux.HandleFunc("/health", health.Handler("driver-service", database, rmqConn))

	serve(log, "driver-service", cfg.Ports.Driver, mux)
}

func runAdminService() {
	log, cfg, database := boot("admin-service")
	defer log.Sync()
	defer database.Close()

	rmqConn, rmqCh := connectRMQ(log, cfg)
	defer rmqConn.Close()
	defer rmqCh.Close()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	wsManager := ws.NewManager()

	repository := adminRepo.NewAdminRepo(database)
	service := adminApp.NewAdminService(repository, log)
	handler := adminApi.NewHandler(service, wsManager, jwtManager, log)

	feed := adminConsumer.NewFeedConsumer(rmqCh, wsManager, log)
	if err := feed.Start(); err != nil {
		log.Fatal("FeedConsumer", err)
	}
	log.OK("FeedConsumer", "Started successfully")

	mux := handler.RegisterRoutes()
	mux.HandleFunc("/health", health.Handler("admin-service", database, rmqConn))

	serve(log, "admin-service", cfg.Ports.Admin, mux)
}
