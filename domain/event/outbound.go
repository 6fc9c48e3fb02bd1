// Package event defines the closed set of notifications pushed to live
// connections. Each variant carries a typed payload; the wire name returned
// by Name is the event string the client contract expects.
package event

import (
	"chat-engine/domain"

	"github.com/google/uuid"
)

type Outbound interface {
	Name() string
}

// PresenceChanged carries the full online-user set after any connect or
// disconnect. Identities only, never connection handles.
type PresenceChanged struct {
	Online []string
}

func (PresenceChanged) Name() string { return "getOnlineUsers" }

type DirectMessageDelivered struct {
	Message domain.DirectMessage
}

func (DirectMessageDelivered) Name() string { return "newMessage" }

type GroupMessageDelivered struct {
	Message domain.GroupMessage
}

func (GroupMessageDelivered) Name() string { return "newGroupMessage" }

type GroupUpdated struct {
	Group domain.Group
}

func (GroupUpdated) Name() string { return "groupUpdated" }

type GroupDeleted struct {
	GroupID uuid.UUID
}

func (GroupDeleted) Name() string { return "groupDeleted" }

// MemberRemoved is addressed to the removed user only; remaining members
// get a GroupUpdated instead.
type MemberRemoved struct {
	GroupID uuid.UUID
	UserID  string
}

func (MemberRemoved) Name() string { return "userRemovedFromGroup" }
