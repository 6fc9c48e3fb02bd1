package ws

import (
	"chat-engine/domain"
	"chat-engine/domain/event"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Frame is the wire shape of every push notification:
// {"event": <name>, "data": <payload>}. Event names are the contract the
// client already speaks; payload shapes mirror the domain entities.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type directMessagePayload struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	Seen       bool      `json:"seen"`
	CreatedAt  time.Time `json:"createdAt"`
}

type seenReceiptPayload struct {
	UserID string    `json:"userId"`
	SeenAt time.Time `json:"seenAt"`
}

type groupMessagePayload struct {
	ID        string               `json:"id"`
	GroupID   string               `json:"groupId"`
	SenderID  string               `json:"senderId"`
	Text      string               `json:"text,omitempty"`
	Image     string               `json:"image,omitempty"`
	SeenBy    []seenReceiptPayload `json:"seenBy"`
	CreatedAt time.Time            `json:"createdAt"`
}

type groupPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Picture     string    `json:"picture,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	Admins      []string  `json:"admins"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type memberRemovedPayload struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

// EncodeFrame turns one outbound event variant into its wire frame. The
// variant set is closed; an unknown type is a programming error.
func EncodeFrame(e event.Outbound) ([]byte, error) {
	var payload any
	switch evt := e.(type) {
	case event.PresenceChanged:
		payload = evt.Online
	case event.DirectMessageDelivered:
		payload = toDirectMessagePayload(evt.Message)
	case event.GroupMessageDelivered:
		payload = toGroupMessagePayload(evt.Message)
	case event.GroupUpdated:
		payload = toGroupPayload(evt.Group)
	case event.GroupDeleted:
		payload = evt.GroupID.String()
	case event.MemberRemoved:
		payload = memberRemovedPayload{GroupID: evt.GroupID.String(), UserID: evt.UserID}
	default:
		return nil, fmt.Errorf("unknown outbound event type %T", e)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: e.Name(), Data: data})
}

func toDirectMessagePayload(m domain.DirectMessage) directMessagePayload {
	return directMessagePayload{
		ID:         m.ID.String(),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		Image:      m.Image,
		Seen:       m.Seen,
		CreatedAt:  m.CreatedAt,
	}
}

func toGroupMessagePayload(m domain.GroupMessage) groupMessagePayload {
	seenBy := make([]seenReceiptPayload, 0, len(m.SeenBy))
	for _, r := range m.SeenBy {
		seenBy = append(seenBy, seenReceiptPayload{UserID: r.UserID, SeenAt: r.SeenAt})
	}
	return groupMessagePayload{
		ID:        m.ID.String(),
		GroupID:   m.GroupID.String(),
		SenderID:  m.SenderID,
		Text:      m.Text,
		Image:     m.Image,
		SeenBy:    seenBy,
		CreatedAt: m.CreatedAt,
	}
}

func toGroupPayload(g domain.Group) groupPayload {
	return groupPayload{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		Picture:     g.Picture,
		CreatedBy:   g.CreatedBy,
		Admins:      g.Admins,
		Members:     g.Members,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// parseID is shared by the HTTP handlers for path ids.
func parseID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}
