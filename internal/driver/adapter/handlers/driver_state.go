package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fleet-dispatch/internal/driver/models"
	"fleet-dispatch/internal/shared/util"
)

// ownDriverID resolves the path driver_id and rejects requests made on
// behalf of another driver.
func (h *Handler) ownDriverID(w http.ResponseWriter, r *http.Request) (string, bool) {
	driverID := r.PathValue("driver_id")
	userID, _ := r.Context().Value("user_id").(string)
	if driverID == "" || driverID != userID {
		util.WriteJSONError(w, "forbidden: token does not match driver_id", http.StatusForbidden)
		return "", false
	}
	return driverID, true
}

func (h *Handler) GoOnline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	driverID, ok := h.ownDriverID(w, r)
	if !ok {
		return
	}

	if err := h.service.GoOnline(ctx, driverID); err != nil {
		h.logger.Warn("GoOnline", "driver "+driverID+": "+err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]interface{}{
		"status":  models.DriverActive,
		"message": "You are now online and ready for duties",
	})
}

func (h *Handler) GoOffline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	driverID, ok := h.ownDriverID(w, r)
	if !ok {
		return
	}

	if err := h.service.GoOffline(ctx, driverID); err != nil {
		h.logger.Warn("GoOffline", "driver "+driverID+": "+err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]interface{}{
		"status":  models.DriverOffline,
		"message": "You are now offline",
	})
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	driverID, ok := h.ownDriverID(w, r)
	if !ok {
		return
	}

	location := models.Location{}
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	location.DriverID = driverID

	if err := h.service.UpdateLocation(ctx, location); err != nil {
		h.logger.Warn("UpdateLocation", "driver "+driverID+": "+err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]interface{}{
		"message": "location updated",
	})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	driverID, ok := h.ownDriverID(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetState(ctx, driverID)
	if err != nil {
		h.logger.Warn("GetState", "driver "+driverID+": "+err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	}

	util.ResponseInJson(w, http.StatusOK, state)
}
