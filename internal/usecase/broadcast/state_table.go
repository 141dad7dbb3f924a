package broadcast

import (
	"sync"

	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
)

// StateTable remembers the last status the broadcaster saw per device. It is
// only used to detect edges; entries are never removed.
type StateTable struct {
	mu     sync.Mutex
	states map[string]entity.Status
}

func NewStateTable() *StateTable {
	return &StateTable{states: make(map[string]entity.Status)}
}

// Swap records status for deviceID and reports whether it differs from the
// previous value. The first observation of a device counts as a change.
func (t *StateTable) Swap(deviceID string, status entity.Status) (changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.states[deviceID]
	if ok && prev == status {
		return false
	}
	t.states[deviceID] = status
	return true
}

func (t *StateTable) Get(deviceID string) (entity.Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.states[deviceID]
	return status, ok
}

func (t *StateTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}
