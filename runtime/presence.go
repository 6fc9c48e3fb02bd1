package runtime

import (
	"chat-engine/contract"
	"chat-engine/domain/event"
	"log/slog"
)

// Presence broadcasts the current online-user set to every live connection,
// including the one whose connect or disconnect triggered the publish.
// Delivery is best-effort: a failing sink is skipped, never retried.
type Presence struct {
	log *slog.Logger
}

func NewPresence(log *slog.Logger) *Presence {
	return &Presence{log: log}
}

// Publish is called by the Registry with a snapshot taken after the
// mutation became visible, outside the registry lock.
func (p *Presence) Publish(online []string, sinks []contract.EventSink) {
	evt := event.PresenceChanged{Online: online}
	for _, sink := range sinks {
		if err := sink.Consume(evt); err != nil {
			p.log.Debug("presence push dropped", "error", err)
		}
	}
}
