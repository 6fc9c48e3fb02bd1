package repositories

import (
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func directMessage(sender, receiver, text string, at time.Time) domain.DirectMessage {
	return domain.DirectMessage{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       text,
		CreatedAt:  at,
	}
}

func Test_Store_And_Fetch_Conversation_Sorted(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default())

	at := time.Now().UTC()
	first := directMessage("alice", "bob", "hi", at)
	second := directMessage("bob", "alice", "hey", at.Add(1*time.Second))
	third := directMessage("alice", "bob", "how are you", at.Add(2*time.Second))

	// Given messages stored out of order
	for _, msg := range []domain.DirectMessage{third, first, second} {
		req.NoError(repository.Store(msg))
	}

	// When fetching the conversation from either side
	fetched, err := repository.Conversation("alice", "bob")
	req.NoError(err)
	reversed, err := repository.Conversation("bob", "alice")
	req.NoError(err)

	// Then both directions return the same messages, oldest first
	ids := func(messages []domain.DirectMessage) []uuid.UUID {
		return lo.Map(messages, func(m domain.DirectMessage, _ int) uuid.UUID { return m.ID })
	}
	req.Equal([]uuid.UUID{first.ID, second.ID, third.ID}, ids(fetched))
	req.Equal(ids(fetched), ids(reversed))
}

func Test_Conversation_Does_Not_Leak_Other_Pairs(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default())

	at := time.Now().UTC()
	req.NoError(repository.Store(directMessage("alice", "bob", "for bob", at)))
	req.NoError(repository.Store(directMessage("alice", "clara", "for clara", at)))

	fetched, err := repository.Conversation("alice", "bob")
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("for bob", fetched[0].Text)
}

func Test_MarkSeen_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default())

	msg := directMessage("alice", "bob", "unread", time.Now().UTC())
	req.NoError(repository.Store(msg))

	// When marking twice
	req.NoError(repository.MarkSeen(msg.ID))
	req.NoError(repository.MarkSeen(msg.ID))

	// Then the message is seen exactly once over
	fetched, err := repository.Conversation("alice", "bob")
	req.NoError(err)
	req.Len(fetched, 1)
	req.True(fetched[0].Seen)
}

func Test_MarkSeen_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default())

	err := repository.MarkSeen(uuid.New())
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}

func Test_MarkConversationSeen_Only_Flips_My_Inbound(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default())

	at := time.Now().UTC()
	inbound := directMessage("alice", "bob", "to bob", at)
	outbound := directMessage("bob", "alice", "from bob", at.Add(1*time.Second))
	req.NoError(repository.Store(inbound))
	req.NoError(repository.Store(outbound))

	// When bob opens the conversation
	req.NoError(repository.MarkConversationSeen("bob", "alice"))

	// Then only the message addressed to bob was flipped
	fetched, err := repository.Conversation("alice", "bob")
	req.NoError(err)
	req.Len(fetched, 2)
	byID := lo.SliceToMap(fetched, func(m domain.DirectMessage) (uuid.UUID, domain.DirectMessage) {
		return m.ID, m
	})
	req.True(byID[inbound.ID].Seen)
	req.False(byID[outbound.ID].Seen)
}

func Test_UnseenCounts_Per_Peer(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(newTestDB(t), slog.Default())

	at := time.Now().UTC()
	req.NoError(repository.Store(directMessage("alice", "bob", "one", at)))
	req.NoError(repository.Store(directMessage("alice", "bob", "two", at.Add(1*time.Second))))
	req.NoError(repository.Store(directMessage("clara", "bob", "three", at.Add(2*time.Second))))
	// Bob's own outbound message must not count
	req.NoError(repository.Store(directMessage("bob", "alice", "reply", at.Add(3*time.Second))))

	// When computing bob's sidebar badges
	counts, err := repository.UnseenCounts("bob")
	req.NoError(err)

	// Then totals are keyed by sender, zero entries absent
	req.Equal(map[string]int{"alice": 2, "clara": 1}, counts)

	// And opening one conversation drops its badge to zero
	req.NoError(repository.MarkConversationSeen("bob", "alice"))
	counts, err = repository.UnseenCounts("bob")
	req.NoError(err)
	req.Equal(map[string]int{"clara": 1}, counts)

	count, err := repository.UnseenCount("bob", "alice")
	req.NoError(err)
	req.Zero(count)
}
