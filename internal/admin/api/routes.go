package api

import (
	"net/http"

	"fleet-dispatch/internal/admin/app"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
	"fleet-dispatch/internal/shared/ws"
)

type Handler struct {
	service    *app.AdminService
	wsManager  *ws.Manager
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

func NewHandler(service *app.AdminService, wsManager *ws.Manager, jwtManager *jwt.Manager, log *logger.Logger) *Handler {
	return &Handler{service: service, wsManager: wsManager, jwtManager: jwtManager, logger: log}
}

func (h *Handler) RegisterRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	adminOnly := middleware.Auth(h.jwtManager, middleware.RoleAdmin)

	mux.Handle("GET /admin/overview", adminOnly(http.HandlerFunc(h.GetOverview)))
	mux.Handle("GET /admin/duties", adminOnly(http.HandlerFunc(h.GetDutyRecords)))
	mux.Handle("GET /admin/reports/daywise", adminOnly(http.HandlerFunc(h.GetDaywiseReport)))
	mux.Handle("GET /admin/drivers", adminOnly(http.HandlerFunc(h.GetDrivers)))
	mux.HandleFunc("/ws/admin", h.HandleAdminWebSocket)

	return mux
}
