package store

import (
	"sync"
	"time"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16

// MemoryStore is an in-memory implementation of [Store].
//
// Only the latest snapshot is kept. Subscribers receive snapshots via
// buffered channels; sends are non-blocking, and a subscriber whose buffer
// is full loses its oldest pending snapshot so the newest always gets
// through.
type MemoryStore struct {
	mu      sync.RWMutex
	latest  Snapshot
	has     bool
	version uint64

	subscribers map[chan Snapshot]struct{}
	subMu       sync.Mutex

	now func() time.Time
}

// NewMemoryStore creates a new in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[chan Snapshot]struct{}),
		now:         time.Now,
	}
}

// Update stores snap as the latest snapshot, assigning its Version and
// UpdatedAt, and notifies all subscribers.
func (m *MemoryStore) Update(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.version++
	snap.Version = m.version
	snap.UpdatedAt = m.now()
	m.latest = snap
	m.has = true

	// notify under mu so subscribers see versions in order
	m.notifySubscribers(snap)
}

// Latest returns the most recent snapshot. The second result is false
// before the first Update.
func (m *MemoryStore) Latest() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.has
}

// Subscribe creates a new subscription and returns a channel for receiving
// snapshots.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers never blocks: a full buffer drops its oldest snapshot.
func (m *MemoryStore) notifySubscribers(snap Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for ch := range m.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		// subscriber is slow: make room for the newest snapshot
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
