package handler

import (
	"log"
	"net/http"
	"strings"

	"quicknotes/internal/websocket"
	"quicknotes/pkg/token"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager  *websocket.Manager
	issuer   *token.Issuer
	upgrader ws.Upgrader
}

func NewWebSocketHandler(manager *websocket.Manager, issuer *token.Issuer) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		issuer:  issuer,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	if raw == "" {
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	identity, err := h.issuer.Resolve(raw)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("failed to upgrade websocket connection: %v", err)
		return
	}

	client := websocket.NewClient(uuid.New().String(), identity.UserID, conn, h.manager)
	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
