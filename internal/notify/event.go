// Package notify turns committed domain events into in-app notifications,
// emails and live pushes.
package notify

import (
	"context"
	"time"

	"facilitydesk/backend/internal/models"

	"github.com/google/uuid"
)

type Kind string

const (
	JobSlipCreated    Kind = "jobslip.created"
	JanitorialCreated Kind = "janitorial.created"
)

// Event announces a committed write. EntityID is the created record and
// ActorID the user who created it.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	EntityID   uint      `json:"entityId"`
	ActorID    uint      `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(kind Kind, entityID, actorID uint) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// Dispatcher accepts events after the primary transaction has committed.
// Dispatch never reports failure to the caller; delivery problems are logged
// and counted.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// Publisher pushes a stored notification to live clients.
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}
