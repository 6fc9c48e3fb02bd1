//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-engine/domain"
	"chat-engine/domain/event"
	"context"
	"reflect"
)

// EventSink is one live connection's inbox. Consume must not block on
// network I/O: implementations enqueue and let a writer goroutine drain.
type EventSink interface {
	Consume(e event.Outbound) error
	Close() error
}

// IRegistry is the single source of truth for who is online. At most one
// sink per user; registering again replaces the previous sink
// (last-connected-wins). Unregister only evicts when sink still is the
// currently tracked one, so a late disconnect from a replaced connection
// cannot knock out its replacement.
type IRegistry interface {
	Register(userID string, sink EventSink)
	Unregister(userID string, sink EventSink)
	Lookup(userID string) (EventSink, bool)
	Snapshot() []string
}

// IDirectRouter delivers a persisted one-to-one message to the recipient's
// live connection, if any. An offline recipient is not an error.
type IDirectRouter interface {
	Deliver(msg domain.DirectMessage)
}

// IGroupRouter fans a persisted group message out to every live member
// except the sender, against the member set as of the call.
type IGroupRouter interface {
	Deliver(msg domain.GroupMessage, group domain.Group)
}

// ICoordinator applies group membership mutations as atomic transitions
// and notifies affected connections.
type ICoordinator interface {
	Create(ctx context.Context, cmd domain.CreateGroupCommand) (domain.Group, error)
	AddMembers(ctx context.Context, cmd domain.AddMembersCommand) (domain.Group, error)
	RemoveMember(ctx context.Context, cmd domain.RemoveMemberCommand) (domain.Group, error)
	Leave(ctx context.Context, cmd domain.LeaveGroupCommand) (deleted bool, err error)
	Update(ctx context.Context, cmd domain.UpdateGroupCommand) (domain.Group, error)
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
