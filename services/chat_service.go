//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-engine/contract"
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"chat-engine/repositories"
	"chat-engine/runtime"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type IChatService interface {
	SendDirectMessage(ctx context.Context, cmd domain.SendDirectMessageCommand) (domain.DirectMessage, error)
	GetConversation(me, peer string) ([]domain.DirectMessage, error)
	MarkMessageSeen(messageID uuid.UUID) error
	UnseenCounts(me string) (map[string]int, error)
	SendGroupMessage(ctx context.Context, cmd domain.SendGroupMessageCommand) (domain.GroupMessage, error)
	GetGroupMessages(groupID uuid.UUID, userID string) ([]domain.GroupMessage, error)
	MarkGroupMessageSeen(groupID, messageID uuid.UUID, userID string) error
}

// ChatService is the collaborator-facing entry for messages: it persists
// first, then hands the stored entity to the routers. Live delivery is
// strictly after persistence, which is what gives per-recipient ordering.
type ChatService struct {
	log           *slog.Logger
	messages      repositories.IMessageRepository
	groups        repositories.IGroupRepository
	groupMessages repositories.IGroupMessageRepository
	directRouter  contract.IDirectRouter
	groupRouter   contract.IGroupRouter
	seen          *runtime.SeenTracker
	now           func() time.Time
}

func NewChatService(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	groups repositories.IGroupRepository,
	groupMessages repositories.IGroupMessageRepository,
	directRouter contract.IDirectRouter,
	groupRouter contract.IGroupRouter,
	seen *runtime.SeenTracker,
) *ChatService {
	return &ChatService{
		log:           log,
		messages:      messages,
		groups:        groups,
		groupMessages: groupMessages,
		directRouter:  directRouter,
		groupRouter:   groupRouter,
		seen:          seen,
		now:           time.Now,
	}
}

func (s *ChatService) SendDirectMessage(_ context.Context, cmd domain.SendDirectMessageCommand) (domain.DirectMessage, error) {
	if err := cmd.Validate(); err != nil {
		return domain.DirectMessage{}, err
	}
	msg := domain.DirectMessage{
		ID:         uuid.New(),
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Text:       cmd.Text,
		Image:      cmd.Image,
		Seen:       false,
		CreatedAt:  s.now(),
	}
	if err := s.messages.Store(msg); err != nil {
		return domain.DirectMessage{}, err
	}
	s.directRouter.Deliver(msg)
	return msg, nil
}

// GetConversation returns the full exchange with peer, oldest first, and
// acknowledges everything peer has sent: opening a conversation is the
// seen signal for one-to-one chats.
func (s *ChatService) GetConversation(me, peer string) ([]domain.DirectMessage, error) {
	messages, err := s.messages.Conversation(me, peer)
	if err != nil {
		return nil, err
	}
	if err := s.seen.MarkConversationSeen(me, peer); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *ChatService) MarkMessageSeen(messageID uuid.UUID) error {
	return s.seen.MarkDirectSeen(messageID)
}

func (s *ChatService) UnseenCounts(me string) (map[string]int, error) {
	return s.seen.UnseenDirectCounts(me)
}

// SendGroupMessage persists the message with the sender's own receipt
// already recorded, then re-reads the group so the fan-out sees the member
// set as of delivery time, not as of the send request.
func (s *ChatService) SendGroupMessage(_ context.Context, cmd domain.SendGroupMessageCommand) (domain.GroupMessage, error) {
	if err := cmd.Validate(); err != nil {
		return domain.GroupMessage{}, err
	}
	group, err := s.groups.Get(cmd.GroupID)
	if err != nil {
		return domain.GroupMessage{}, err
	}
	if !group.IsMember(cmd.SenderID) {
		return domain.GroupMessage{}, apperrors.ErrNotMember
	}

	now := s.now()
	msg := domain.GroupMessage{
		ID:        uuid.New(),
		GroupID:   cmd.GroupID,
		SenderID:  cmd.SenderID,
		Text:      cmd.Text,
		Image:     cmd.Image,
		SeenBy:    []domain.SeenReceipt{{UserID: cmd.SenderID, SeenAt: now}},
		CreatedAt: now,
	}
	if err := s.groupMessages.Store(msg); err != nil {
		return domain.GroupMessage{}, err
	}

	fresh, err := s.groups.Get(cmd.GroupID)
	if err != nil {
		// Group vanished between store and fan-out: nobody to deliver to.
		s.log.Debug("group gone before fan-out", "group", cmd.GroupID)
		return msg, nil
	}
	s.groupRouter.Deliver(msg, fresh)
	return msg, nil
}

// GetGroupMessages lists the group history for a member and records their
// receipts, mirroring GetConversation for groups.
func (s *ChatService) GetGroupMessages(groupID uuid.UUID, userID string) ([]domain.GroupMessage, error) {
	group, err := s.groups.Get(groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(userID) {
		return nil, apperrors.ErrNotMember
	}
	messages, err := s.groupMessages.ListByGroup(groupID)
	if err != nil {
		return nil, err
	}
	if err := s.seen.MarkGroupConversationSeen(groupID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *ChatService) MarkGroupMessageSeen(groupID, messageID uuid.UUID, userID string) error {
	group, err := s.groups.Get(groupID)
	if err != nil {
		return err
	}
	if !group.IsMember(userID) {
		return apperrors.ErrNotMember
	}
	return s.seen.MarkGroupSeen(messageID, userID)
}
