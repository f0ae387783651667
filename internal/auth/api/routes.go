package api

import (
	"net/http"

	"fleet-dispatch/internal/auth/app"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
)

type Handler struct {
	service *app.AuthService
	logger  *logger.Logger
}

func NewHandler(service *app.AuthService, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, jwtManager *jwt.Manager) {
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.Handle("POST /auth/push-token", middleware.Auth(jwtManager, "")(http.HandlerFunc(h.SavePushToken)))
}
