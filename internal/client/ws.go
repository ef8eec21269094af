package client

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// Dial connects to the recognition server.
func Dial(addr string, port int) (*websocket.Conn, error) {
	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", addr, port), Path: "/"}
	dialer := websocket.Dialer{
		Subprotocols:     []string{"binary"},
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", u.String(), err)
	}
	return conn, nil
}
