package runtime

import (
	"chat-engine/repositories"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SeenTracker records per-message acknowledgments and answers unseen-count
// queries. Counts are always recomputed from stored seen state; there is
// no cached counter to invalidate.
type SeenTracker struct {
	log           *slog.Logger
	messages      repositories.IMessageRepository
	groupMessages repositories.IGroupMessageRepository
	now           func() time.Time
}

func NewSeenTracker(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	groupMessages repositories.IGroupMessageRepository,
) *SeenTracker {
	return &SeenTracker{
		log:           log,
		messages:      messages,
		groupMessages: groupMessages,
		now:           time.Now,
	}
}

// MarkDirectSeen flips one direct message to seen. Idempotent.
func (t *SeenTracker) MarkDirectSeen(messageID uuid.UUID) error {
	return t.messages.MarkSeen(messageID)
}

// MarkConversationSeen acknowledges everything peer has sent to me,
// applied when the conversation is opened.
func (t *SeenTracker) MarkConversationSeen(me, peer string) error {
	return t.messages.MarkConversationSeen(me, peer)
}

// MarkGroupSeen appends a receipt for userID unless one exists already.
func (t *SeenTracker) MarkGroupSeen(messageID uuid.UUID, userID string) error {
	return t.groupMessages.AddSeen(messageID, userID, t.now())
}

// MarkGroupConversationSeen acknowledges every message in the group for
// userID, applied when the group conversation is opened.
func (t *SeenTracker) MarkGroupConversationSeen(groupID uuid.UUID, userID string) error {
	return t.groupMessages.MarkAllSeen(groupID, userID, t.now())
}

func (t *SeenTracker) UnseenDirectCount(me, peer string) (int, error) {
	return t.messages.UnseenCount(me, peer)
}

// UnseenDirectCounts returns per-peer unseen totals for the sidebar.
func (t *SeenTracker) UnseenDirectCounts(me string) (map[string]int, error) {
	return t.messages.UnseenCounts(me)
}

func (t *SeenTracker) UnseenGroupCount(groupID uuid.UUID, userID string) (int, error) {
	return t.groupMessages.UnseenCount(groupID, userID)
}
