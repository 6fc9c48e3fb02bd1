// Package runtime is the presence-and-delivery engine: it tracks live
// connections, routes persisted messages to them, and keeps group
// membership transitions consistent with what connected clients observe.
// It orchestrates delivery without containing HTTP or storage logic.
package runtime

import (
	"chat-engine/contract"
	"log/slog"
	"sort"
	"sync"
)

// Registry owns the userID -> live connection mapping. One RWMutex guards
// the whole map; operations are O(1) and contention is low, so no finer
// locking is needed. Nothing outside this type mutates the map.
type Registry struct {
	mu       sync.RWMutex
	online   map[string]contract.EventSink
	log      *slog.Logger
	presence *Presence
}

func NewRegistry(log *slog.Logger, presence *Presence) *Registry {
	return &Registry{
		online:   make(map[string]contract.EventSink),
		log:      log,
		presence: presence,
	}
}

// Register tracks sink as userID's live connection, replacing and closing
// any previous one (last-connected-wins). An empty userID is ignored; the
// collaborator validates identities before handing them over.
func (r *Registry) Register(userID string, sink contract.EventSink) {
	if userID == "" || sink == nil {
		return
	}
	r.mu.Lock()
	prev := r.online[userID]
	r.online[userID] = sink
	online, sinks := r.snapshotLocked()
	r.mu.Unlock()

	if prev != nil && prev != sink {
		r.log.Debug("replacing previous connection", "user", userID)
		_ = prev.Close()
	}
	r.presence.Publish(online, sinks)
}

// Unregister removes the mapping for userID. It is idempotent, and it only
// evicts when sink is still the tracked connection: a late disconnect from
// a connection that has already been replaced must not knock out its
// replacement. A nil sink unregisters unconditionally.
func (r *Registry) Unregister(userID string, sink contract.EventSink) {
	if userID == "" {
		return
	}
	r.mu.Lock()
	current, ok := r.online[userID]
	if !ok || (sink != nil && current != sink) {
		r.mu.Unlock()
		return
	}
	delete(r.online, userID)
	online, sinks := r.snapshotLocked()
	r.mu.Unlock()

	r.presence.Publish(online, sinks)
}

func (r *Registry) Lookup(userID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.online[userID]
	return sink, ok
}

// Snapshot returns the identities currently online, sorted. Handles are
// never exposed here.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	online, _ := r.snapshotLocked()
	return online
}

// snapshotLocked copies both the identity set and the sink references so a
// presence publish can run after the lock is released, against state that
// already includes the triggering mutation.
func (r *Registry) snapshotLocked() ([]string, []contract.EventSink) {
	online := make([]string, 0, len(r.online))
	sinks := make([]contract.EventSink, 0, len(r.online))
	for id, sink := range r.online {
		online = append(online, id)
		sinks = append(sinks, sink)
	}
	sort.Strings(online)
	return online, sinks
}
