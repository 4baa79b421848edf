// Package events publishes domain change notifications over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event describes a change to clinic data. Dates lists the clinic-local
// calendar days (YYYY-MM-DD) the change touches; empty means "all days".
type Event struct {
	ClinicID   uuid.UUID `json:"clinic_id"`
	EntityID   uuid.UUID `json:"entity_id"`
	Kind       Kind      `json:"kind"`
	Dates      []string  `json:"dates,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, ev Event) error
}

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.nc.Publish(Subject(subject, ev.ClinicID), data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Emit publishes ev and only logs a failure. Mutations have already been
// committed when it runs, and cached views expire on their own TTL.
func Emit(ctx context.Context, p Publisher, subject string, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, ev); err != nil {
		slog.Warn("events: publish failed", "subject", subject, "clinic_id", ev.ClinicID, "error", err)
	}
}

// Subject appends the clinic id token to a base subject.
func Subject(base string, clinicID uuid.UUID) string {
	return base + "." + clinicID.String()
}

// Wildcard matches a base subject for every clinic.
func Wildcard(base string) string {
	return base + ".*"
}

// Decode parses a message body and checks it against the clinic token of its subject.
func Decode(msg *nats.Msg) (Event, error) {
	var ev Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}

	idx := strings.LastIndex(msg.Subject, ".")
	if idx < 0 {
		return Event{}, fmt.Errorf("subject %q has no clinic token", msg.Subject)
	}
	clinicID, err := uuid.Parse(msg.Subject[idx+1:])
	if err != nil {
		return Event{}, fmt.Errorf("subject %q: %w", msg.Subject, err)
	}
	if ev.ClinicID != clinicID {
		return Event{}, fmt.Errorf("subject clinic %s does not match payload clinic %s", clinicID, ev.ClinicID)
	}
	return ev, nil
}
