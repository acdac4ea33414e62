package serverstate

import "sync/atomic"

// Server status values.
const (
	StatusNotReady = "not_ready"
	StatusReady    = "ready"
	StatusDraining = "draining"
	StatusUnknown  = "unknown"
)

// State holds the server status and draining flag. Both fields are stored
// together so callers always observe a consistent snapshot.
type State struct {
	Status   string `json:"status"`
	Draining bool   `json:"draining"`
}

// Store persists State. Implementations may keep it in memory or share it
// through an external service such as Redis.
type Store interface {
	Load() State
	Store(State)
}

type memoryStore struct {
	v atomic.Value
}

// NewMemoryStore returns a process-local Store initialized to not_ready.
func NewMemoryStore() Store {
	ms := &memoryStore{}
	ms.v.Store(State{Status: StatusNotReady})
	return ms
}

func (m *memoryStore) Load() State {
	if st, ok := m.v.Load().(State); ok {
		return st
	}
	return State{Status: StatusUnknown}
}

func (m *memoryStore) Store(s State) {
	m.v.Store(s)
}

// Tracker exposes status transitions on top of a Store.
type Tracker struct {
	store Store
}

// NewTracker wraps s; a nil Store selects the in-memory implementation.
func NewTracker(s Store) *Tracker {
	if s == nil {
		s = NewMemoryStore()
	}
	return &Tracker{store: s}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() State {
	return t.store.Load()
}

// SetStatus updates the status string. A draining server stays draining.
func (t *Tracker) SetStatus(status string) {
	st := t.store.Load()
	if st.Draining {
		return
	}
	st.Status = status
	t.store.Store(st)
}

// Status returns the current status string.
func (t *Tracker) Status() string {
	return t.store.Load().Status
}

// StartDrain marks the server as draining.
func (t *Tracker) StartDrain() {
	t.store.Store(State{Status: StatusDraining, Draining: true})
}

// IsDraining reports whether the server is draining.
func (t *Tracker) IsDraining() bool {
	return t.store.Load().Draining
}
