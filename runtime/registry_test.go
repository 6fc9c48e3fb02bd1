package runtime

import (
	"chat-engine/domain/event"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorderSink struct {
	events []event.Outbound
	closed bool
}

func (s *recorderSink) Consume(e event.Outbound) error {
	s.events = append(s.events, e)
	return nil
}

func (s *recorderSink) Close() error {
	s.closed = true
	return nil
}

func (s *recorderSink) lastPresence() (event.PresenceChanged, bool) {
	for i := len(s.events) - 1; i >= 0; i-- {
		if p, ok := s.events[i].(event.PresenceChanged); ok {
			return p, true
		}
	}
	return event.PresenceChanged{}, false
}

func newTestRegistry() *Registry {
	log := slog.Default()
	return NewRegistry(log, NewPresence(log))
}

func TestRegistry_Register_Publishes_Sorted_Presence(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	sinkB := &recorderSink{}
	sinkA := &recorderSink{}

	// Given no user is connected
	req.Empty(registry.Snapshot())

	// When two users connect, highest id first
	registry.Register("bob", sinkB)
	registry.Register("alice", sinkA)

	// Then the snapshot is sorted
	req.Equal([]string{"alice", "bob"}, registry.Snapshot())

	// And every connection received the full set, the newcomer included
	presence, ok := sinkB.lastPresence()
	req.True(ok)
	req.Equal([]string{"alice", "bob"}, presence.Online)

	presence, ok = sinkA.lastPresence()
	req.True(ok)
	req.Equal([]string{"alice", "bob"}, presence.Online)
}

func TestRegistry_Register_Same_User_Replaces_Previous_Sink(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	first := &recorderSink{}
	second := &recorderSink{}

	// Given a connected user
	registry.Register("alice", first)

	// When the same user connects again
	registry.Register("alice", second)

	// Then the user appears once and the new sink is tracked
	req.Equal([]string{"alice"}, registry.Snapshot())
	sink, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(second, sink)

	// And the previous connection was closed
	req.True(first.closed)
	req.False(second.closed)
}

func TestRegistry_Unregister_Stale_Sink_Is_A_NoOp(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	first := &recorderSink{}
	second := &recorderSink{}

	// Given a user whose first connection was replaced
	registry.Register("alice", first)
	registry.Register("alice", second)

	// When the replaced connection finally reports its disconnect
	registry.Unregister("alice", first)

	// Then the replacement is still online
	sink, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(second, sink)
	req.Equal([]string{"alice"}, registry.Snapshot())
}

func TestRegistry_Unregister_Publishes_Shrunk_Presence(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	sinkA := &recorderSink{}
	sinkB := &recorderSink{}

	// Given two connected users
	registry.Register("alice", sinkA)
	registry.Register("bob", sinkB)

	// When one disconnects
	registry.Unregister("alice", sinkA)

	// Then the departed user is gone from lookups
	_, ok := registry.Lookup("alice")
	req.False(ok)
	req.Equal([]string{"bob"}, registry.Snapshot())

	// And the remaining connection saw the shrunk set
	presence, ok := sinkB.lastPresence()
	req.True(ok)
	req.Equal([]string{"bob"}, presence.Online)
}

func TestRegistry_Unregister_Unknown_User_Is_Silent(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	// When unregistering a user that never connected
	registry.Unregister("ghost", &recorderSink{})

	// Then nothing changes
	req.Empty(registry.Snapshot())
}

func TestRegistry_Unregister_Nil_Sink_Evicts_Unconditionally(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	sink := &recorderSink{}

	// Given a connected user
	registry.Register("alice", sink)

	// When unregistering without a sink reference
	registry.Unregister("alice", nil)

	// Then the user is offline
	req.Empty(registry.Snapshot())
}
