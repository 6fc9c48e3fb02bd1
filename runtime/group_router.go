package runtime

import (
	"chat-engine/contract"
	"chat-engine/domain"
	"chat-engine/domain/event"
	"log/slog"
)

// GroupRouter fans a persisted group message out to every live member
// except the sender. The caller passes the group as re-read at call time,
// so a member removed between send and fan-out never receives the message.
type GroupRouter struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewGroupRouter(log *slog.Logger, registry contract.IRegistry) *GroupRouter {
	return &GroupRouter{log: log, registry: registry}
}

func (r *GroupRouter) Deliver(msg domain.GroupMessage, group domain.Group) {
	evt := event.GroupMessageDelivered{Message: msg}
	for _, memberID := range group.Members {
		if memberID == msg.SenderID {
			continue
		}
		sink, ok := r.registry.Lookup(memberID)
		if !ok {
			continue
		}
		if err := sink.Consume(evt); err != nil {
			// One slow or closed member must not block the others.
			r.log.Debug("group delivery dropped", "member", memberID, "error", err)
		}
	}
}
