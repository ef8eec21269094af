package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Registry tracks live connections by socket id. It doubles as the
// worker's liveness set: the receive loops add and remove entries, the
// worker and the sender loop only read.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*conn
}

// conn serializes writes to one websocket; gorilla connections allow a
// single concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*conn)}
}

// Add registers a connection under its socket id.
func (r *Registry) Add(id string, ws *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &conn{ws: ws}
}

// Remove drops a connection. Queued tasks for it will be discarded by
// the worker's liveness check.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Has reports whether the socket id is still live.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) get(id string) *conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[id]
}
