package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Application close codes.
const (
	// CloseUnknownUser is sent before dropping a connection opened for an
	// unregistered user identifier.
	CloseUnknownUser = 4004
	// CloseSuperseded is sent to the previous connection when the same
	// user binds a new one.
	CloseSuperseded = 4000
)

const writeWait = time.Second

// Conn is the live push handle stored in the registry. *websocket.Conn
// satisfies it via gorillaConn; tests supply their own implementation.
type Conn interface {
	WriteJSON(v any) error
	WriteClose(code int, reason string) error
	Close() error
}

// gorillaConn adapts a gorilla websocket connection to Conn, serializing
// data writes: gorilla allows at most one concurrent writer.
type gorillaConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func newGorillaConn(ws *websocket.Conn) *gorillaConn {
	return &gorillaConn{ws: ws}
}

func (c *gorillaConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *gorillaConn) writeText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *gorillaConn) WriteClose(code int, reason string) error {
	// WriteControl is safe to call concurrently with other writes.
	msg := websocket.FormatCloseMessage(code, reason)
	return c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (c *gorillaConn) Close() error {
	return c.ws.Close()
}

func (c *gorillaConn) echo(data []byte) error {
	return c.writeText(fmt.Sprintf("Message received: %s", data))
}
