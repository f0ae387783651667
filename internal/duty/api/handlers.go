package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fleet-dispatch/internal/duty/domain"
	"fleet-dispatch/internal/shared/middleware"
	"fleet-dispatch/internal/shared/util"
)

func (h *Handler) DispatchHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		util.WriteJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	role, _ := r.Context().Value("role").(string)
	if role != middleware.RoleAdmin {
		h.logger.Warn("DispatchHandler", "forbidden: non-admin tried to dispatch a duty")
		util.WriteJSONError(w, "forbidden: only admins can dispatch duties", http.StatusForbidden)
		return
	}

	var input domain.DispatchInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		h.logger.Error("DispatchHandler", err)
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.logger.Info("DispatchHandler", "dispatching duty to driver "+input.DriverID)
	duty, err := h.service.Dispatch(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDriverNotFound):
			util.WriteJSONError(w, "driver not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrDriverUnavailable):
			util.WriteJSONError(w, "driver is not available for dispatch", http.StatusConflict)
		default:
			h.logger.Error("DispatchHandler", err)
			util.ErrResponseInJson(w, err)
		}
		return
	}

	util.ResponseInJson(w, http.StatusCreated, dispatchResponse{
		TaskID:   duty.ID,
		DriverID: duty.DriverID,
		Status:   duty.Status,
		Message:  "Duty assigned successfully",
	})

	h.logger.OK("DispatchHandler", "duty dispatched: "+duty.ID)
	h.logger.HTTP(http.StatusCreated, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

// DutyActionHandler serves /duties/{id}/start, /duties/{id}/complete and
// DELETE /duties/{id}.
func (h *Handler) DutyActionHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 2 || pathParts[0] != "duties" {
		util.WriteJSONError(w, "invalid URL path", http.StatusBadRequest)
		return
	}
	dutyID := pathParts[1]

	switch {
	case r.Method == http.MethodDelete && len(pathParts) == 2:
		h.cancelDuty(w, r, dutyID, start)
	case r.Method == http.MethodPost && len(pathParts) == 3 && pathParts[2] == "start":
		h.startDuty(w, r, dutyID, start)
	case r.Method == http.MethodPost && len(pathParts) == 3 && pathParts[2] == "complete":
		h.completeDuty(w, r, dutyID, start)
	default:
		util.WriteJSONError(w, "invalid URL path", http.StatusBadRequest)
	}
}

func (h *Handler) startDuty(w http.ResponseWriter, r *http.Request, dutyID string, start time.Time) {
	driverID, ok := r.Context().Value("user_id").(string)
	if !ok || driverID == "" {
		util.WriteJSONError(w, "unauthorized: missing user_id", http.StatusUnauthorized)
		return
	}

	role, _ := r.Context().Value("role").(string)
	if role != middleware.RoleDriver {
		h.logger.Warn("StartDutyHandler", "forbidden: only drivers can start duties")
		util.WriteJSONError(w, "forbidden: only drivers can start duties", http.StatusForbidden)
		return
	}

	var body startDutyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("StartDutyHandler", err)
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.logger.Info("StartDutyHandler", "request to start duty "+dutyID)
	if err := h.service.StartDuty(ctx, dutyID, driverID, body.OpeningKm, body.Version); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			util.WriteJSONError(w, "duty not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			util.WriteJSONError(w, "this duty belongs to another driver", http.StatusForbidden)
		default:
			h.logger.Warn("StartDutyHandler", "start rejected: "+err.Error())
			util.ErrResponseInJson(w, err)
		}
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]string{
		"task_id": dutyID,
		"status":  string(domain.StatusInProgress),
		"message": "Duty started",
	})

	h.logger.OK("StartDutyHandler", "duty started: "+dutyID)
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) completeDuty(w http.ResponseWriter, r *http.Request, dutyID string, start time.Time) {
	driverID, ok := r.Context().Value("user_id").(string)
	if !ok || driverID == "" {
		util.WriteJSONError(w, "unauthorized: missing user_id", http.StatusUnauthorized)
		return
	}

	role, _ := r.Context().Value("role").(string)
	if role != middleware.RoleDriver {
		h.logger.Warn("CompleteDutyHandler", "forbidden: only drivers can complete duties")
		util.WriteJSONError(w, "forbidden: only drivers can complete duties", http.StatusForbidden)
		return
	}

	var body completeDutyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("CompleteDutyHandler", err)
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.logger.Info("CompleteDutyHandler", "request to complete duty "+dutyID)
	err := h.service.CompleteDuty(ctx, dutyID, driverID, body.ClosingKm, body.FuelQuantity, body.FuelAmount, body.Version)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			util.WriteJSONError(w, "duty not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			util.WriteJSONError(w, "this duty belongs to another driver", http.StatusForbidden)
		default:
			h.logger.Warn("CompleteDutyHandler", "completion rejected: "+err.Error())
			util.ErrResponseInJson(w, err)
		}
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]string{
		"task_id": dutyID,
		"status":  string(domain.StatusCompleted),
		"message": "Duty completed",
	})

	h.logger.OK("CompleteDutyHandler", "duty completed: "+dutyID)
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) cancelDuty(w http.ResponseWriter, r *http.Request, dutyID string, start time.Time) {
	role, _ := r.Context().Value("role").(string)
	if role != middleware.RoleAdmin {
		h.logger.Warn("CancelDutyHandler", "forbidden: non-admin tried to cancel a duty")
		util.WriteJSONError(w, "forbidden: only admins can cancel duties", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.logger.Info("CancelDutyHandler", "request to cancel duty "+dutyID)
	if err := h.service.CancelDispatch(ctx, dutyID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			util.WriteJSONError(w, "duty not found", http.StatusNotFound)
		default:
			h.logger.Warn("CancelDutyHandler", "cancellation rejected: "+err.Error())
			util.ErrResponseInJson(w, err)
		}
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]string{
		"task_id": dutyID,
		"message": "Duty cancelled, driver released",
	})

	h.logger.OK("CancelDutyHandler", "duty cancelled: "+dutyID)
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) ListDutiesHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		util.WriteJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	driverID, ok := r.Context().Value("user_id").(string)
	if !ok || driverID == "" {
		util.WriteJSONError(w, "unauthorized: missing user_id", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	duties, err := h.service.ListByDriver(ctx, driverID)
	if err != nil {
		h.logger.Error("ListDutiesHandler", err)
		util.WriteJSONError(w, "failed to load duties", http.StatusInternalServerError)
		return
	}
	if duties == nil {
		duties = []domain.Duty{}
	}

	util.ResponseInJson(w, http.StatusOK, listDutiesResponse{Duties: duties, Count: len(duties)})
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) DriverStatsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	driverID, ok := r.Context().Value("user_id").(string)
	if !ok || driverID == "" {
		util.WriteJSONError(w, "unauthorized: missing user_id", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.service.DriverStats(ctx, driverID)
	if err != nil {
		h.logger.Error("DriverStatsHandler", err)
		util.WriteJSONError(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	util.ResponseInJson(w, http.StatusOK, stats)
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}
