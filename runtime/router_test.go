package runtime

import (
	"chat-engine/domain"
	"chat-engine/domain/event"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestDirectRouter_Delivers_To_Online_Recipient(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	router := NewDirectRouter(registry.log, registry)
	receiver := &recorderSink{}
	registry.Register("bob", receiver)

	msg := domain.DirectMessage{
		ID:         uuid.New(),
		SenderID:   "alice",
		ReceiverID: "bob",
		Text:       "hello",
		CreatedAt:  time.Now().UTC(),
	}

	// When delivering a stored message
	router.Deliver(msg)

	// Then the recipient's connection received it
	delivered := lo.Filter(receiver.events, func(e event.Outbound, _ int) bool {
		_, ok := e.(event.DirectMessageDelivered)
		return ok
	})
	req.Len(delivered, 1)
	req.Equal(msg, delivered[0].(event.DirectMessageDelivered).Message)
}

func TestDirectRouter_Offline_Recipient_Is_Not_An_Error(t *testing.T) {
	registry := newTestRegistry()
	router := NewDirectRouter(registry.log, registry)

	// When the recipient is offline, Deliver must simply return
	router.Deliver(domain.DirectMessage{
		ID:         uuid.New(),
		SenderID:   "alice",
		ReceiverID: "nobody",
		Text:       "into the void",
	})
}

func TestGroupRouter_Fans_Out_To_Members_Except_Sender(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	router := NewGroupRouter(registry.log, registry)

	sender := &recorderSink{}
	memberB := &recorderSink{}
	memberC := &recorderSink{}
	registry.Register("alice", sender)
	registry.Register("bob", memberB)
	registry.Register("clara", memberC)

	group := domain.Group{
		ID:      uuid.New(),
		Name:    "trio",
		Members: []string{"alice", "bob", "clara"},
	}
	msg := domain.GroupMessage{
		ID:       uuid.New(),
		GroupID:  group.ID,
		SenderID: "alice",
		Text:     "hi all",
	}

	// When fanning out
	router.Deliver(msg, group)

	// Then every member except the sender received exactly one copy
	countGroupMessages := func(s *recorderSink) int {
		return lo.CountBy(s.events, func(e event.Outbound) bool {
			_, ok := e.(event.GroupMessageDelivered)
			return ok
		})
	}
	req.Equal(0, countGroupMessages(sender))
	req.Equal(1, countGroupMessages(memberB))
	req.Equal(1, countGroupMessages(memberC))
}

func TestGroupRouter_Skips_Offline_Members(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	router := NewGroupRouter(registry.log, registry)

	online := &recorderSink{}
	registry.Register("bob", online)

	group := domain.Group{
		ID:      uuid.New(),
		Members: []string{"alice", "bob", "offline-carl"},
	}

	// When fanning out with one member offline
	router.Deliver(domain.GroupMessage{
		ID:       uuid.New(),
		GroupID:  group.ID,
		SenderID: "alice",
	}, group)

	// Then only the online member received it
	req.Len(online.events, 2) // presence on register + the group message
}
