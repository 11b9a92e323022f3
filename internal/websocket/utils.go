package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// WriteEvent sends an enveloped frame over the WebSocket with a write
// deadline.
func WriteEvent(conn *websocket.Conn, event Event, data interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(Message{Event: event, Data: data})
}

// WriteRaw forwards a pre-serialized JSON payload as a text frame. Used for
// Pub/Sub messages that are already JSON.
func WriteRaw(conn *websocket.Conn, payload []byte) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// WriteError sends an ErrorMessage frame.
func WriteError(conn *websocket.Conn, errMsg string) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(ErrorMessage{Event: EventError, Error: errMsg})
}
