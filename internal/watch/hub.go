package watch

import (
	"sync"

	"github.com/reydisse/Wordcloud/internal/models"
)

// SnapshotFunc receives the complete current response set of a watched
// session. It is invoked on every change, never with a delta.
type SnapshotFunc func(responses []*models.Response)

// Hub is the in-process registry of live subscriptions, keyed by session.
// It only fans out; reading snapshots from the store is the Watcher's job.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]SnapshotFunc
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]SnapshotFunc),
	}
}

// Subscribe registers a snapshot callback for a session and returns its
// tear-down function. Unsubscribing twice is harmless; after tear-down the
// callback is never invoked again.
func (h *Hub) Subscribe(sessionID string, fn SnapshotFunc) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID

	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[int]SnapshotFunc)
	}
	h.subs[sessionID][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.subs[sessionID], id)
		if len(h.subs[sessionID]) == 0 {
			delete(h.subs, sessionID)
		}
	}
}

// Publish delivers a full snapshot to every subscriber of the session
func (h *Hub) Publish(sessionID string, responses []*models.Response) {
	h.mu.Lock()
	fns := make([]SnapshotFunc, 0, len(h.subs[sessionID]))
	for _, fn := range h.subs[sessionID] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(responses)
	}
}

// HasSubscribers reports whether any live subscription exists for a session
func (h *Hub) HasSubscribers(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID]) > 0
}
