package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fleet-dispatch/internal/auth/domain"
	"fleet-dispatch/internal/shared/util"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	h.logger.Info("RegisterHandler", "incoming register request")

	var req domain.RegisterRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("RegisterHandler", err)
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.Register(ctx, req)
	if err != nil {
		h.logger.Warn("RegisterHandler", "registration failed: "+err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	util.ResponseInJson(w, http.StatusCreated, map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    user.Role,
	})

	h.logger.OK("RegisterHandler", "user registered successfully: "+user.ID)
	h.logger.HTTP(http.StatusCreated, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	h.logger.Info("LoginHandler", "incoming login request")

	var req domain.LoginRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("LoginHandler", err)
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, user, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("LoginHandler", "login failed: "+err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"user": map[string]interface{}{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
		},
	})

	h.logger.OK("LoginHandler", "user logged in successfully: "+user.ID)
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) SavePushToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := r.Context().Value("user_id").(string)
	if !ok || userID == "" {
		util.WriteJSONError(w, "unauthorized: missing user_id", http.StatusUnauthorized)
		return
	}

	var req domain.PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.SavePushToken(ctx, userID, req.Token); err != nil {
		util.WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]string{"message": "push token saved"})
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}
