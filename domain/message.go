// Package domain contains core concepts of the chat system.
// This file defines message entities and seen-tracking rules.
// Messages are immutable once created; only seen state may change.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DirectMessage is a one-to-one message. Text and Image are both optional
// but never both empty; Image holds a media reference already resolved by
// the upload pipeline, never raw bytes.
type DirectMessage struct {
	ID         uuid.UUID
	SenderID   string
	ReceiverID string
	Text       string
	Image      string
	Seen       bool
	CreatedAt  time.Time
}

// SeenReceipt records one user's acknowledgment of a group message.
type SeenReceipt struct {
	UserID string
	SeenAt time.Time
}

// GroupMessage is a message posted to a group. SeenBy is append-only with
// set semantics keyed by user id.
type GroupMessage struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	SenderID  string
	Text      string
	Image     string
	SeenBy    []SeenReceipt
	CreatedAt time.Time
}

func (m GroupMessage) SeenByUser(userID string) bool {
	return lo.ContainsBy(m.SeenBy, func(r SeenReceipt) bool {
		return r.UserID == userID
	})
}
