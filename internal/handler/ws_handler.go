/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains HandleWebSocket, which upgrades the connection, assigns it a connection id,
registers the client with the manager and runs its pumps. Joining a room happens later, over
the socket, through the join event.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"roomrelay/internal/app/chat"
	"roomrelay/internal/pkg/logx"
	"roomrelay/internal/pkg/randx"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connectionID := randx.ConnectionID()
		client := chat.NewClient(deps.Manager, deps.Relay, conn, connectionID)

		if err := deps.Manager.Register(client); err != nil {
			logx.Warn("WebSocket connection refused: server shutting down", "connection_id", connectionID)
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second),
			)
			_ = conn.Close()
			return
		}

		go client.WritePump()

		logx.Info("WebSocket connection established and client registered", "connection_id", connectionID)

		client.ReadPump()
	}
}
