package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/wayfarer-travel/wayfarer-backend/internal/services"
)

// alertUpgrader is the shared upgrader for alert stream connections.
var alertUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// AlertStream pushes newly created alerts to the client as they happen.
// The optional minSeverity query parameter sets the client's severity floor.
func AlertStream(w http.ResponseWriter, r *http.Request) {
	minSeverity := 1
	if s := r.URL.Query().Get("minSeverity"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 1 {
			minSeverity = parsed
		}
	}

	conn, err := alertUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id := services.RegisterAlertStream(conn, minSeverity)
	defer services.UnregisterAlertStream(id)

	log.Printf("alert stream connected (minSeverity=%d)", minSeverity)

	// The stream is one-way; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
