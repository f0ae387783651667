package api

import (
	"net/http"

	"fleet-dispatch/internal/duty/domain"
	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/logger"
	"fleet-dispatch/internal/shared/middleware"
)

type Handler struct {
	service domain.DutyService
	logger  *logger.Logger
}

func NewHandler(service domain.DutyService, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, jwtManager *jwt.Manager) {
	auth := middleware.Auth(jwtManager, "")

	mux.Handle("/duties", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.ListDutiesHandler(w, r)
			return
		}
		h.DispatchHandler(w, r)
	})))
	mux.Handle("/duties/stats", auth(http.HandlerFunc(h.DriverStatsHandler)))
	mux.Handle("/duties/", auth(http.HandlerFunc(h.DutyActionHandler)))
}
