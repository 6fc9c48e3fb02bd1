package services

import (
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"chat-engine/mocks"
	"chat-engine/runtime"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatServiceMocks struct {
	messages      *mocks.MockIMessageRepository
	groups        *mocks.MockIGroupRepository
	groupMessages *mocks.MockIGroupMessageRepository
	directRouter  *mocks.MockIDirectRouter
	groupRouter   *mocks.MockIGroupRouter
}

func newChatService(ctrl *gomock.Controller) (*ChatService, chatServiceMocks) {
	m := chatServiceMocks{
		messages:      mocks.NewMockIMessageRepository(ctrl),
		groups:        mocks.NewMockIGroupRepository(ctrl),
		groupMessages: mocks.NewMockIGroupMessageRepository(ctrl),
		directRouter:  mocks.NewMockIDirectRouter(ctrl),
		groupRouter:   mocks.NewMockIGroupRouter(ctrl),
	}
	log := slog.Default()
	seen := runtime.NewSeenTracker(log, m.messages, m.groupMessages)
	svc := NewChatService(log, m.messages, m.groups, m.groupMessages,
		m.directRouter, m.groupRouter, seen)
	return svc, m
}

func TestChatService_SendDirectMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)
	ctx := context.Background()

	t.Run("should persist before routing", func(t *testing.T) {
		req := require.New(t)

		var stored domain.DirectMessage
		storeCall := m.messages.EXPECT().
			Store(gomock.Any()).
			DoAndReturn(func(msg domain.DirectMessage) error {
				stored = msg
				return nil
			}).
			Times(1)
		deliverCall := m.directRouter.EXPECT().
			Deliver(gomock.Any()).
			Do(func(msg domain.DirectMessage) {
				// Live delivery carries exactly what was persisted
				require.Equal(t, stored, msg)
			}).
			Times(1)
		gomock.InOrder(storeCall, deliverCall)

		msg, err := svc.SendDirectMessage(ctx, domain.SendDirectMessageCommand{
			SenderID:   "alice",
			ReceiverID: "bob",
			Text:       "hello",
		})

		req.NoError(err)
		req.Equal("alice", msg.SenderID)
		req.Equal("bob", msg.ReceiverID)
		req.False(msg.Seen)
		req.NotEqual(uuid.Nil, msg.ID)
	})

	t.Run("should not route when persistence fails", func(t *testing.T) {
		req := require.New(t)

		m.messages.EXPECT().Store(gomock.Any()).Return(apperrors.ErrMessageNotFound).Times(1)
		m.directRouter.EXPECT().Deliver(gomock.Any()).Times(0)

		_, err := svc.SendDirectMessage(ctx, domain.SendDirectMessageCommand{
			SenderID:   "alice",
			ReceiverID: "bob",
			Text:       "lost",
		})
		req.Error(err)
	})

	t.Run("should reject a command without receiver", func(t *testing.T) {
		req := require.New(t)

		m.messages.EXPECT().Store(gomock.Any()).Times(0)

		_, err := svc.SendDirectMessage(ctx, domain.SendDirectMessageCommand{
			SenderID: "alice",
			Text:     "to nobody",
		})
		req.Error(err)
	})
}

func TestChatService_GetConversation_Marks_Seen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	svc, m := newChatService(ctrl)

	history := []domain.DirectMessage{
		{ID: uuid.New(), SenderID: "bob", ReceiverID: "alice", Text: "hi"},
	}
	m.messages.EXPECT().Conversation("alice", "bob").Return(history, nil).Times(1)
	m.messages.EXPECT().MarkConversationSeen("alice", "bob").Return(nil).Times(1)

	messages, err := svc.GetConversation("alice", "bob")
	req.NoError(err)
	req.Equal(history, messages)
}

func TestChatService_SendGroupMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)
	ctx := context.Background()
	groupID := uuid.New()
	group := domain.Group{
		ID:       groupID,
		Name:     "team",
		Members:  []string{"alice", "bob", "clara"},
		Admins:   []string{"alice"},
		IsActive: true,
	}

	t.Run("should reject a sender outside the group", func(t *testing.T) {
		req := require.New(t)

		m.groups.EXPECT().Get(groupID).Return(group, nil).Times(1)
		m.groupMessages.EXPECT().Store(gomock.Any()).Times(0)

		_, err := svc.SendGroupMessage(ctx, domain.SendGroupMessageCommand{
			GroupID:  groupID,
			SenderID: "mallory",
			Text:     "let me in",
		})
		req.ErrorIs(err, apperrors.ErrNotMember)
	})

	t.Run("should fan out against the group as re-read after the store", func(t *testing.T) {
		req := require.New(t)

		// Membership changes between the send request and the fan-out
		fresh := group
		fresh.Members = []string{"alice", "bob"}

		first := m.groups.EXPECT().Get(groupID).Return(group, nil)
		var stored domain.GroupMessage
		storeCall := m.groupMessages.EXPECT().
			Store(gomock.Any()).
			DoAndReturn(func(msg domain.GroupMessage) error {
				stored = msg
				return nil
			})
		second := m.groups.EXPECT().Get(groupID).Return(fresh, nil)
		deliverCall := m.groupRouter.EXPECT().
			Deliver(gomock.Any(), fresh).
			Do(func(msg domain.GroupMessage, _ domain.Group) {
				require.Equal(t, stored, msg)
			})
		gomock.InOrder(first, storeCall, second, deliverCall)

		msg, err := svc.SendGroupMessage(ctx, domain.SendGroupMessageCommand{
			GroupID:  groupID,
			SenderID: "alice",
			Text:     "hello team",
		})
		req.NoError(err)

		// The sender's own receipt is seeded at send time
		req.Len(msg.SeenBy, 1)
		req.Equal("alice", msg.SeenBy[0].UserID)
	})

	t.Run("should keep the message when the group vanishes before fan-out", func(t *testing.T) {
		req := require.New(t)

		gomock.InOrder(
			m.groups.EXPECT().Get(groupID).Return(group, nil),
			m.groupMessages.EXPECT().Store(gomock.Any()).Return(nil),
			m.groups.EXPECT().Get(groupID).Return(domain.Group{}, apperrors.ErrGroupNotFound),
		)
		m.groupRouter.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(0)

		msg, err := svc.SendGroupMessage(ctx, domain.SendGroupMessageCommand{
			GroupID:  groupID,
			SenderID: "alice",
			Text:     "last words",
		})
		req.NoError(err)
		req.NotEqual(uuid.Nil, msg.ID)
	})
}

func TestChatService_GetGroupMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newChatService(ctrl)
	groupID := uuid.New()
	group := domain.Group{
		ID:       groupID,
		Members:  []string{"alice", "bob"},
		IsActive: true,
	}

	t.Run("should list history and record receipts for a member", func(t *testing.T) {
		req := require.New(t)

		history := []domain.GroupMessage{
			{ID: uuid.New(), GroupID: groupID, SenderID: "alice", Text: "hi"},
		}
		m.groups.EXPECT().Get(groupID).Return(group, nil).Times(1)
		m.groupMessages.EXPECT().ListByGroup(groupID).Return(history, nil).Times(1)
		m.groupMessages.EXPECT().MarkAllSeen(groupID, "bob", gomock.Any()).Return(nil).Times(1)

		messages, err := svc.GetGroupMessages(groupID, "bob")
		req.NoError(err)
		req.Equal(history, messages)
	})

	t.Run("should reject an outsider", func(t *testing.T) {
		req := require.New(t)

		m.groups.EXPECT().Get(groupID).Return(group, nil).Times(1)
		m.groupMessages.EXPECT().ListByGroup(gomock.Any()).Times(0)

		_, err := svc.GetGroupMessages(groupID, "mallory")
		req.ErrorIs(err, apperrors.ErrNotMember)
	})
}

func TestChatService_MarkGroupMessageSeen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	svc, m := newChatService(ctrl)
	groupID := uuid.New()
	messageID := uuid.New()
	group := domain.Group{
		ID:       groupID,
		Members:  []string{"alice", "bob"},
		IsActive: true,
	}

	m.groups.EXPECT().Get(groupID).Return(group, nil).Times(1)
	m.groupMessages.EXPECT().AddSeen(messageID, "bob", gomock.Any()).Return(nil).Times(1)

	req.NoError(svc.MarkGroupMessageSeen(groupID, messageID, "bob"))
}

func TestChatService_UnseenCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	svc, m := newChatService(ctrl)

	m.messages.EXPECT().UnseenCounts("alice").Return(map[string]int{"bob": 2}, nil).Times(1)

	counts, err := svc.UnseenCounts("alice")
	req.NoError(err)
	req.Equal(map[string]int{"bob": 2}, counts)
}

// Clock injection keeps stored timestamps deterministic when needed.
func TestChatService_Uses_Injected_Clock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	svc, m := newChatService(ctrl)
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	m.messages.EXPECT().Store(gomock.Any()).Return(nil).Times(1)
	m.directRouter.EXPECT().Deliver(gomock.Any()).Times(1)

	msg, err := svc.SendDirectMessage(context.Background(), domain.SendDirectMessageCommand{
		SenderID:   "alice",
		ReceiverID: "bob",
		Text:       "on time",
	})
	req.NoError(err)
	req.Equal(frozen, msg.CreatedAt)
}
