package realtime

import (
	"fmt"
	"sync"

	"github.com/marcos-nsantos/presence-socket/internal/domain"
)

// Registry maps a device id to its single current connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register stores conn under deviceID, replacing any previous connection.
// The displaced connection is returned but left open.
func (r *Registry) Register(deviceID string, conn Conn) (previous Conn, replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, replaced = r.conns[deviceID]
	r.conns[deviceID] = conn
	if replaced && previous == conn {
		return nil, false
	}
	return previous, replaced
}

func (r *Registry) Lookup(deviceID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[deviceID]
	return conn, ok
}

// RemoveConn deletes every entry held by conn and returns their device ids.
func (r *Registry) RemoveConn(conn Conn) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, c := range r.conns {
		if c == conn {
			delete(r.conns, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// SendTo delivers msg to the connection registered for deviceID.
func (r *Registry) SendTo(deviceID string, msg []byte) error {
	conn, ok := r.Lookup(deviceID)
	if !ok || !conn.IsOpen() {
		return fmt.Errorf("sending to %s: %w", deviceID, domain.ErrDeviceNotConnected)
	}
	if err := conn.Send(msg); err != nil {
		return fmt.Errorf("sending to %s: %w", deviceID, err)
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
