package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"triviabuzz/internal/wshub"

	"github.com/coder/websocket"
)

// handleWS upgrades the connection and runs its receive loop. The room and
// user must already exist; the transport only decodes frames and hands them
// to the hub.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("roomCode")))
	userID := r.URL.Query().Get("userId")
	if roomCode == "" || userID == "" {
		http.Error(w, "roomCode and userId are required", http.StatusBadRequest)
		return
	}

	if _, err := s.DB.GetRoomByCode(roomCode); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	user, err := s.DB.GetUser(userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := wshub.NewClient(conn, roomCode, user.ID, user.DisplayName, user.IsHost)
	go client.WritePump(ctx)

	s.Hub.HandleConnect(client)
	defer func() {
		s.Hub.HandleDisconnect(client)
		client.Close()
	}()

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		s.Hub.HandleMessage(client, data)
	}
}
