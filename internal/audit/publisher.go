package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher hands events to the worker's inbox. Emission is best-effort: a
// full inbox drops the event with a log line rather than stalling admission.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", string(event.Action),
			"caller", event.Caller.String(),
		)
	}
}
