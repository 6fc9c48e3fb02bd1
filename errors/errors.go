package errors

import "fmt"

var (
	// ErrGroupNotFound covers missing groups and soft-deleted ones alike:
	// a deleted group must stay indistinguishable from a nonexistent one.
	ErrGroupNotFound   = fmt.Errorf("group not found")
	ErrNotMember       = fmt.Errorf("not a member of this group")
	ErrNotAdmin        = fmt.Errorf("not an admin of this group")
	ErrRemoveCreator   = fmt.Errorf("cannot remove group creator")
	ErrEmptyGroupName  = fmt.Errorf("group name cannot be empty")
	ErrNoMembers       = fmt.Errorf("at least one member is required")
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrInvalidToken    = fmt.Errorf("invalid token")
	ErrWorkerPanic     = fmt.Errorf("worker panic")
)
