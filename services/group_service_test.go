package services

import (
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"chat-engine/mocks"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGroupService_GetGroup_Is_Member_Scoped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coordinator := mocks.NewMockICoordinator(ctrl)
	groups := mocks.NewMockIGroupRepository(ctrl)
	svc := NewGroupService(coordinator, groups)

	groupID := uuid.New()
	group := domain.Group{
		ID:       groupID,
		Name:     "team",
		Members:  []string{"alice", "bob"},
		IsActive: true,
	}

	t.Run("should return the group to a member", func(t *testing.T) {
		req := require.New(t)
		groups.EXPECT().Get(groupID).Return(group, nil).Times(1)

		fetched, err := svc.GetGroup(groupID, "bob")
		req.NoError(err)
		req.Equal(groupID, fetched.ID)
	})

	t.Run("should hide the group from outsiders", func(t *testing.T) {
		req := require.New(t)
		groups.EXPECT().Get(groupID).Return(group, nil).Times(1)

		_, err := svc.GetGroup(groupID, "mallory")
		req.ErrorIs(err, apperrors.ErrGroupNotFound)
	})
}
