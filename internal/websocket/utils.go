package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// idleWait disconnects a client that sends nothing. Draft traffic
	// or pings are expected well within this.
	idleWait = 5 * time.Minute
)

// Send marshals v and writes it as one JSON frame.
func Send(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// SendError reports a client-visible failure as an error event.
func SendError(conn *websocket.Conn, errMsg string) error {
	return Send(conn, ErrorResponse{Event: EventError, Error: errMsg})
}

// Read decodes the next JSON frame into v, renewing the idle deadline.
func Read(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(idleWait))
	return conn.ReadJSON(v)
}
