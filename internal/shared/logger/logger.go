package logger

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger tags every entry with the service name and the emitting
// instance (usually "Service.Method").
type Logger struct {
	zap *zap.Logger
}

func New(service string) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.InitialFields = map[string]interface{}{
		"service": service,
	}

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	return &Logger{zap: z}
}

func (l *Logger) Info(instance, message string) {
	l.zap.Info(message, zap.String("instance", instance))
}

func (l *Logger) OK(instance, message string) {
	l.zap.Info(message, zap.String("instance", instance), zap.String("status", "ok"))
}

func (l *Logger) Warn(instance, message string) {
	l.zap.Warn(message, zap.String("instance", instance))
}

func (l *Logger) Error(instance string, err error) {
	l.zap.Error(err.Error(), zap.String("instance", instance))
}

func (l *Logger) Fatal(instance string, err error) {
	l.zap.Fatal(err.Error(), zap.String("instance", instance))
}

// HTTP logs one served request in access-log form.
func (l *Logger) HTTP(status int, elapsed time.Duration, host, method, path string) {
	l.zap.Info(http.StatusText(status),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
		zap.String("host", host),
		zap.String("method", method),
		zap.String("path", path),
	)
}

func (l *Logger) Sync() {
	_ = l.zap.Sync()
}
