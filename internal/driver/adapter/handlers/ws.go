package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"fleet-dispatch/internal/driver/models"
	"fleet-dispatch/internal/shared/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type WSResponse struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LocationUpdate struct {
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HandleDriverWebSocket upgrades /ws/drivers/{driver_id} and keeps the
// socket in the manager so duty assignments can be pushed to it. The
// client must authenticate over the socket before anything else.
func (h *Handler) HandleDriverWebSocket(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[1] != "drivers" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	driverID := parts[2]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("HandleDriverWebSocket", "upgrade failed: "+err.Error())
		return
	}
	defer conn.Close()

	h.logger.Info("HandleDriverWebSocket", "new connection from driver "+driverID)

	if !h.authenticateWithTimeout(conn, driverID) {
		h.logger.Warn("HandleDriverWebSocket", "driver "+driverID+" authentication failed or timed out")
		return
	}

	h.wsManager.Register(driverID, conn)
	defer func() {
		h.wsManager.Unregister(driverID)
		h.logger.Info("HandleDriverWebSocket", "driver "+driverID+" disconnected")
	}()

	h.logger.OK("HandleDriverWebSocket", "driver "+driverID+" authenticated and connected")

	stopPing := make(chan bool)
	go h.startPingPong(conn, stopPing)
	defer func() { stopPing <- true }()

	h.readMessages(conn, driverID)
}

// authenticateWithTimeout waits up to 5 seconds for an auth message
// carrying a bearer token for this driver.
func (h *Handler) authenticateWithTimeout(conn *websocket.Conn, driverID string) bool {
	authenticated := false
	authTimer := time.NewTimer(5 * time.Second)
	authChan := make(chan string, 1)

	go func() {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var authMsg AuthMessage
		if err := json.Unmarshal(msg, &authMsg); err != nil {
			return
		}

		if authMsg.Type == "auth" {
			authChan <- authMsg.Token
		}
	}()

	select {
	case tokenStr := <-authChan:
		if h.validateToken(tokenStr, driverID) {
			authenticated = true
			_ = conn.WriteJSON(WSResponse{Type: "auth_success", Message: "authenticated"})
		} else {
			_ = conn.WriteJSON(WSResponse{Type: "error", Message: "invalid token or unauthorized"})
		}
	case <-authTimer.C:
		_ = conn.WriteJSON(WSResponse{Type: "error", Message: "authentication timeout"})
	}

	return authenticated
}

func (h *Handler) validateToken(headerToken, driverID string) bool {
	tokenStr := headerToken
	if parts := strings.Split(headerToken, " "); len(parts) == 2 && parts[0] == "Bearer" {
		tokenStr = parts[1]
	}

	claims, err := h.jwtManager.ParseToken(tokenStr)
	if err != nil {
		return false
	}
	if claims.Role != middleware.RoleDriver {
		return false
	}
	return claims.UserID == driverID
}

// startPingPong keeps the socket alive, dropping it when the client
// stops answering pings.
func (h *Handler) startPingPong(conn *websocket.Conn, stop chan bool) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

func (h *Handler) readMessages(conn *websocket.Conn, driverID string) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("HandleDriverWebSocket", "read error: "+err.Error())
			}
			break
		}

		var baseMsg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &baseMsg); err != nil {
			continue
		}

		switch baseMsg.Type {
		case "location_update":
			h.handleLocationUpdate(msg, driverID)
		default:
			h.logger.Warn("HandleDriverWebSocket", "unknown message type: "+baseMsg.Type)
		}
	}
}

func (h *Handler) handleLocationUpdate(msg []byte, driverID string) {
	var update LocationUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		h.logger.Warn("handleLocationUpdate", "bad payload from driver "+driverID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.service.UpdateLocation(ctx, models.Location{
		DriverID:  driverID,
		Latitude:  update.Latitude,
		Longitude: update.Longitude,
	})
	if err != nil {
		h.logger.Warn("handleLocationUpdate", "driver "+driverID+": "+err.Error())
		_ = h.wsManager.SendTo(driverID, WSResponse{Type: "error", Message: err.Error()})
	}
}
