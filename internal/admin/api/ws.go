package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"fleet-dispatch/internal/shared/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type wsResponse struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// HandleAdminWebSocket upgrades /ws/admin and keeps the dashboard
// subscribed to the fleet change feed. The first message must be an
// auth message carrying an admin token.
func (h *Handler) HandleAdminWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("HandleAdminWebSocket", "upgrade failed: "+err.Error())
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var auth authMessage
	if err := json.Unmarshal(msg, &auth); err != nil || auth.Type != "auth" {
		_ = conn.WriteJSON(wsResponse{Type: "error", Message: "auth message expected"})
		return
	}

	claims, err := h.jwtManager.ParseToken(auth.Token)
	if err != nil || claims.Role != middleware.RoleAdmin {
		_ = conn.WriteJSON(wsResponse{Type: "error", Message: "invalid token or unauthorized"})
		return
	}
	_ = conn.WriteJSON(wsResponse{Type: "auth_success", Message: "authenticated"})

	sessionID := uuid.NewString()
	h.wsManager.Register(sessionID, conn)
	defer h.wsManager.Unregister(sessionID)

	h.logger.OK("HandleAdminWebSocket", "admin "+claims.UserID+" subscribed to fleet feed")

	conn.SetReadDeadline(time.Time{})
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Reads only to observe the close; the feed is push-only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
