//go:generate go run go.uber.org/mock/mockgen -source=group_service.go -destination=../mocks/mock_group_service.go -package=mocks
package services

import (
	"chat-engine/contract"
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"chat-engine/repositories"
	"context"

	"github.com/google/uuid"
)

type IGroupService interface {
	CreateGroup(ctx context.Context, cmd domain.CreateGroupCommand) (domain.Group, error)
	AddMembers(ctx context.Context, cmd domain.AddMembersCommand) (domain.Group, error)
	RemoveMember(ctx context.Context, cmd domain.RemoveMemberCommand) (domain.Group, error)
	LeaveGroup(ctx context.Context, cmd domain.LeaveGroupCommand) (bool, error)
	UpdateGroup(ctx context.Context, cmd domain.UpdateGroupCommand) (domain.Group, error)
	GetGroup(groupID uuid.UUID, userID string) (domain.Group, error)
	ListGroups(userID string) ([]domain.Group, error)
}

// GroupService exposes group reads and forwards mutations to the
// coordinator, which owns all membership transitions.
type GroupService struct {
	coordinator contract.ICoordinator
	groups      repositories.IGroupRepository
}

func NewGroupService(coordinator contract.ICoordinator, groups repositories.IGroupRepository) *GroupService {
	return &GroupService{coordinator: coordinator, groups: groups}
}

func (s *GroupService) CreateGroup(ctx context.Context, cmd domain.CreateGroupCommand) (domain.Group, error) {
	return s.coordinator.Create(ctx, cmd)
}

func (s *GroupService) AddMembers(ctx context.Context, cmd domain.AddMembersCommand) (domain.Group, error) {
	return s.coordinator.AddMembers(ctx, cmd)
}

func (s *GroupService) RemoveMember(ctx context.Context, cmd domain.RemoveMemberCommand) (domain.Group, error) {
	return s.coordinator.RemoveMember(ctx, cmd)
}

func (s *GroupService) LeaveGroup(ctx context.Context, cmd domain.LeaveGroupCommand) (bool, error) {
	return s.coordinator.Leave(ctx, cmd)
}

func (s *GroupService) UpdateGroup(ctx context.Context, cmd domain.UpdateGroupCommand) (domain.Group, error) {
	return s.coordinator.Update(ctx, cmd)
}

// GetGroup is member-scoped: outsiders get ErrGroupNotFound rather than a
// hint that the group exists.
func (s *GroupService) GetGroup(groupID uuid.UUID, userID string) (domain.Group, error) {
	group, err := s.groups.Get(groupID)
	if err != nil {
		return domain.Group{}, err
	}
	if !group.IsMember(userID) {
		return domain.Group{}, apperrors.ErrGroupNotFound
	}
	return group, nil
}

func (s *GroupService) ListGroups(userID string) ([]domain.Group, error) {
	return s.groups.ListByMember(userID)
}
