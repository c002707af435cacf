package repository

import (
	"slices"
	"sync"
	"time"
)

const subscriberBuffer = 100

// MemoryRepository is an in-memory implementation of [Repository].
//
// MemoryRepository provides thread-safe storage with a publish-subscribe
// mechanism for real-time updates. IDs are assigned sequentially and never
// reused, even after a delete.
//
// Subscribers receive changes via buffered channels (buffer size 100). Changes
// are sent non-blocking; if a subscriber's buffer is full, the change is dropped
// for that subscriber to prevent blocking writers.
type MemoryRepository struct {
	mu     sync.RWMutex
	bugs   map[int]Bug
	nextID int
	now    func() time.Time

	subscribers map[chan Change]struct{}
	subMu       sync.RWMutex
}

// NewMemoryRepository creates a new, empty [MemoryRepository].
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bugs:        make(map[int]Bug),
		nextID:      1,
		now:         time.Now,
		subscribers: make(map[chan Change]struct{}),
	}
}

// List returns a snapshot of all bugs ordered by ID.
func (m *MemoryRepository) List() []Bug {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Bug, 0, len(m.bugs))
	for _, b := range m.bugs {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Bug) int { return a.ID - b.ID })
	return out
}

// Get returns the bug with the given ID.
func (m *MemoryRepository) Get(id int) (Bug, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bugs[id]
	if !ok {
		return Bug{}, ErrNotFound
	}
	return b, nil
}

// Create stores bug under a new ID and notifies subscribers.
// Any ID or timestamps on the input are ignored.
func (m *MemoryRepository) Create(bug Bug) Bug {
	m.mu.Lock()
	now := m.now()
	bug.ID = m.nextID
	bug.CreatedAt = now
	bug.UpdatedAt = now
	m.bugs[bug.ID] = bug
	m.nextID++
	m.mu.Unlock()

	m.notifySubscribers(Change{Kind: ChangeCreated, Bug: bug})
	return bug
}

// Update applies patch to the bug with the given ID and notifies subscribers.
func (m *MemoryRepository) Update(id int, patch Patch) (Bug, error) {
	m.mu.Lock()
	b, ok := m.bugs[id]
	if !ok {
		m.mu.Unlock()
		return Bug{}, ErrNotFound
	}

	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.UserID != nil {
		b.UserID = *patch.UserID
	}
	if patch.Resolved != nil {
		b.Resolved = *patch.Resolved
	}
	b.UpdatedAt = m.now()
	m.bugs[id] = b
	m.mu.Unlock()

	m.notifySubscribers(Change{Kind: ChangeUpdated, Bug: b})
	return b, nil
}

// Delete removes the bug with the given ID and notifies subscribers.
func (m *MemoryRepository) Delete(id int) error {
	m.mu.Lock()
	b, ok := m.bugs[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.bugs, id)
	m.mu.Unlock()

	m.notifySubscribers(Change{Kind: ChangeDeleted, Bug: b})
	return nil
}

// Subscribe creates a new subscription and returns a channel for receiving changes.
//
// The returned channel has a buffer of 100 messages. If the buffer fills
// (slow consumer), new changes are dropped for this subscriber.
//
// Caller must call [MemoryRepository.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryRepository) Subscribe() <-chan Change {
	ch := make(chan Change, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryRepository) Unsubscribe(ch <-chan Change) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	// find and delete the channel (need to convert to the right type)
	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the change to all active subscribers without blocking.
func (m *MemoryRepository) notifySubscribers(change Change) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- change:
		default:
			// subscriber is slow, drop the message
		}
	}
}

var _ Repository = (*MemoryRepository)(nil)
