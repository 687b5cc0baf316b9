// Package events carries domain notifications out of the sign-in flow.
// Delivery is best-effort fan-out: a failing sink is logged and never fails
// the flow that emitted the event.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/ksuid"
)

// Event names emitted by the gateway.
const (
	EntryCreate = "entry.create"
	AuthSuccess = "admin.auth.success"
)

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"event"`
	CreatedAt time.Time `json:"createdAt"`
	Payload   any       `json:"payload"`
}

// Bus is the emitting side of the notification fan-out.
type Bus interface {
	Emit(ctx context.Context, name string, payload any)
}

// Sink receives every emitted event.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

type Hub struct {
	sinks []Sink
}

func NewHub(sinks ...Sink) *Hub {
	return &Hub{sinks: sinks}
}

func (h *Hub) Emit(ctx context.Context, name string, payload any) {
	event := Event{
		ID:        ksuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
		Payload:   payload,
	}
	for _, sink := range h.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			slog.Error("unable to deliver event", "event", name, "id", event.ID, "error", err)
		}
	}
}

// SlogSink writes every event to the structured log.
type SlogSink struct{}

func (SlogSink) Deliver(ctx context.Context, event Event) error {
	slog.Info("event", "event", event.Name, "id", event.ID)
	return nil
}
