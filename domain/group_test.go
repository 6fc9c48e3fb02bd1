package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGroup_Membership_Checks(t *testing.T) {
	req := require.New(t)
	group := Group{
		CreatedBy: "alice",
		Admins:    []string{"alice", "dave"},
		Members:   []string{"alice", "bob", "dave"},
	}

	req.True(group.IsMember("bob"))
	req.False(group.IsMember("mallory"))
	req.True(group.IsAdmin("dave"))
	req.False(group.IsAdmin("bob"))
}

func TestGroup_OtherAdmins_Is_Sorted(t *testing.T) {
	req := require.New(t)
	group := Group{
		Admins: []string{"alice", "dave", "clara"},
	}

	// Order must be deterministic regardless of insertion order
	req.Equal([]string{"clara", "dave"}, group.OtherAdmins("alice"))
	req.Empty(Group{Admins: []string{"alice"}}.OtherAdmins("alice"))
}

func TestGroup_OtherMembers_Is_Sorted(t *testing.T) {
	req := require.New(t)
	group := Group{
		Members: []string{"dave", "alice", "bob"},
	}

	req.Equal([]string{"bob", "dave"}, group.OtherMembers("alice"))
	req.Empty(Group{Members: []string{"alice"}}.OtherMembers("alice"))
}

func TestGroupMessage_SeenByUser(t *testing.T) {
	req := require.New(t)
	msg := GroupMessage{
		ID:       uuid.New(),
		SenderID: "alice",
		SeenBy:   []SeenReceipt{{UserID: "alice", SeenAt: time.Now()}},
	}

	req.True(msg.SeenByUser("alice"))
	req.False(msg.SeenByUser("bob"))
}
