package realtime

import (
	"sync"
)

// Hub tracks every open connection on the server, registered or not.
type Hub struct {
	mu    sync.RWMutex
	conns map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[Conn]struct{})}
}

func (h *Hub) Add(conn Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
	return len(h.conns)
}

func (h *Hub) Remove(conn Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	return len(h.conns)
}

// Broadcast sends msg to every open connection and returns how many accepted
// it. Failures on one connection do not affect the others.
func (h *Hub) Broadcast(msg []byte) int {
	// Snapshot under the lock, send outside it.
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range conns {
		if !c.IsOpen() {
			continue
		}
		if err := c.Send(msg); err == nil {
			sent++
		}
	}
	return sent
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CloseAll closes every tracked client. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if closer, ok := c.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}
