package handlers

import (
	"net/http"

	"fleet-dispatch/internal/driver/app/usecase"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
	"fleet-dispatch/internal/shared/ws"
)

type Handler struct {
	service    usecase.Service
	wsManager  *ws.Manager
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

func NewHandler(service usecase.Service, wsManager *ws.Manager, jwtManager *jwt.Manager, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		wsManager:  wsManager,
		jwtManager: jwtManager,
		logger:     log,
	}
}

func (h *Handler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.Auth(h.jwtManager, middleware.RoleDriver)

	mux.Handle("POST /drivers/{driver_id}/online", auth(http.HandlerFunc(h.GoOnline)))
	mux.Handle("POST /drivers/{driver_id}/offline", auth(http.HandlerFunc(h.GoOffline)))
	mux.Handle("POST /drivers/{driver_id}/location", auth(http.HandlerFunc(h.UpdateLocation)))
	mux.Handle("GET /drivers/{driver_id}/state", auth(http.HandlerFunc(h.GetState)))
	mux.HandleFunc("/ws/drivers/", h.HandleDriverWebSocket)

	return mux
}
