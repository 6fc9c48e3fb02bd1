package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// CreateGroupCommand requires at least one member id besides the creator.
// The creator is added to the member set if omitted.
type CreateGroupCommand struct {
	Name        string   `validate:"required"`
	Description string
	Picture     string
	CreatedBy   string   `validate:"required"`
	MemberIDs   []string `validate:"required,min=1"`
}

func (c CreateGroupCommand) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	return validate.Struct(c)
}

type AddMembersCommand struct {
	GroupID   uuid.UUID
	ActorID   string   `validate:"required"`
	MemberIDs []string `validate:"required,min=1"`
}

func (c AddMembersCommand) Validate() error {
	return validate.Struct(c)
}

type RemoveMemberCommand struct {
	GroupID  uuid.UUID
	ActorID  string `validate:"required"`
	MemberID string `validate:"required"`
}

func (c RemoveMemberCommand) Validate() error {
	return validate.Struct(c)
}

type LeaveGroupCommand struct {
	GroupID uuid.UUID
	ActorID string `validate:"required"`
}

func (c LeaveGroupCommand) Validate() error {
	return validate.Struct(c)
}

// UpdateGroupCommand carries only the fields to change; nil means keep.
type UpdateGroupCommand struct {
	GroupID     uuid.UUID
	ActorID     string `validate:"required"`
	Name        *string
	Description *string
	Picture     *string
}

func (c UpdateGroupCommand) Validate() error {
	return validate.Struct(c)
}

type SendDirectMessageCommand struct {
	SenderID   string `validate:"required"`
	ReceiverID string `validate:"required"`
	Text       string
	Image      string
}

func (c SendDirectMessageCommand) Validate() error {
	return validate.Struct(c)
}

type SendGroupMessageCommand struct {
	GroupID  uuid.UUID
	SenderID string `validate:"required"`
	Text     string
	Image    string
}

func (c SendGroupMessageCommand) Validate() error {
	return validate.Struct(c)
}
