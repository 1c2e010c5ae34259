package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wire names for company domain events.
const (
	EventCompanyCreated = "company.created"
	EventCompanyUpdated = "company.updated"
)

// Event is an immutable record of a fact that occurred in the domain.
// Events are queued on the aggregate and drained after the repository commits.
type Event interface {
	// ID is the unique identifier of this event instance.
	ID() uuid.UUID
	// Name is the wire name used to resolve subscribed handlers.
	Name() string
	// Time is when the event occurred.
	Time() time.Time
}

// EventBase carries the identity shared by all domain events.
type EventBase struct {
	EventID    uuid.UUID `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEventBase(at time.Time) EventBase {
	return EventBase{EventID: uuid.New(), OccurredAt: at}
}

func (b EventBase) ID() uuid.UUID   { return b.EventID }
func (b EventBase) Time() time.Time { return b.OccurredAt }

// CompanyCreated is emitted once when a new company aggregate is created.
type CompanyCreated struct {
	EventBase
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	CountryID   uuid.UUID `json:"country_id"`
}

func (CompanyCreated) Name() string { return EventCompanyCreated }

// CompanyUpdated is emitted when an update actually changed a field.
type CompanyUpdated struct {
	EventBase
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	CountryID   uuid.UUID `json:"country_id"`
}

func (CompanyUpdated) Name() string { return EventCompanyUpdated }
