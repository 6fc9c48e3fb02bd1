package runtime

import (
	"chat-engine/contract"
	"chat-engine/domain"
	"chat-engine/domain/event"
	"log/slog"
)

// DirectRouter delivers a persisted one-to-one message to the recipient's
// live connection. It runs synchronously after persistence, so per-recipient
// delivery order matches persistence order: a user has at most one tracked
// connection and each connection drains one ordered queue.
type DirectRouter struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewDirectRouter(log *slog.Logger, registry contract.IRegistry) *DirectRouter {
	return &DirectRouter{log: log, registry: registry}
}

// Deliver pushes msg to the recipient if online. An offline recipient is
// not an error: the message is already stored and will be fetched on next
// load. No retry, no queueing.
func (r *DirectRouter) Deliver(msg domain.DirectMessage) {
	sink, ok := r.registry.Lookup(msg.ReceiverID)
	if !ok {
		r.log.Debug("recipient offline, live delivery skipped", "receiver", msg.ReceiverID)
		return
	}
	if err := sink.Consume(event.DirectMessageDelivered{Message: msg}); err != nil {
		r.log.Debug("direct delivery dropped", "receiver", msg.ReceiverID, "error", err)
	}
}
