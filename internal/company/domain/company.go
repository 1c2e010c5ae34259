// Package domain holds the Company aggregate and its owned value objects.
// The aggregate is the consistency boundary: every mutation validates before
// assignment and records domain events that the application layer drains
// after the repository commits.
package domain

import (
	"fmt"
	"strings"
	"time"

	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/google/uuid"
)

const maxNameLength = 255

// Company is the aggregate root. Fields are unexported so every change goes
// through a method that enforces the invariants.
type Company struct {
	id        uuid.UUID
	name      string
	countryID uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	details   []Detail
	types     []CompanyType
	events    []Event
}

// NewCompany creates a new company, validating inputs and queueing a
// CompanyCreated event.
func NewCompany(name string, countryID uuid.UUID) (*Company, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if countryID == uuid.Nil {
		return nil, fmt.Errorf("%w: country ID is required", e.ErrValidation)
	}

	now := time.Now().UTC()
	c := &Company{
		id:        uuid.New(),
		name:      name,
		countryID: countryID,
		createdAt: now,
		updatedAt: now,
	}
	c.events = append(c.events, CompanyCreated{
		EventBase:   newEventBase(now),
		CompanyID:   c.id,
		CompanyName: c.name,
		CountryID:   c.countryID,
	})
	return c, nil
}

// Rehydrate rebuilds an aggregate from persisted state. No events are queued.
func Rehydrate(
	id uuid.UUID,
	name string,
	countryID uuid.UUID,
	createdAt, updatedAt time.Time,
	details []Detail,
	types []CompanyType,
) *Company {
	return &Company{
		id:        id,
		name:      name,
		countryID: countryID,
		createdAt: createdAt,
		updatedAt: updatedAt,
		details:   details,
		types:     types,
	}
}

// Update applies the provided fields. Validation happens before any
// assignment, and a single CompanyUpdated event is queued only if a field
// actually changed.
func (c *Company) Update(name *string, countryID *uuid.UUID) error {
	if name != nil {
		if err := validateName(*name); err != nil {
			return err
		}
	}
	if countryID != nil && *countryID == uuid.Nil {
		return fmt.Errorf("%w: country ID is required", e.ErrValidation)
	}

	changed := false
	if name != nil && *name != c.name {
		c.name = *name
		changed = true
	}
	if countryID != nil && *countryID != c.countryID {
		c.countryID = *countryID
		changed = true
	}
	if !changed {
		return nil
	}

	now := time.Now().UTC()
	c.updatedAt = now
	c.events = append(c.events, CompanyUpdated{
		EventBase:   newEventBase(now),
		CompanyID:   c.id,
		CompanyName: c.name,
		CountryID:   c.countryID,
	})
	return nil
}

// AddDetail appends a detail after validating it and checking that its
// identity number is unique within the aggregate.
func (c *Company) AddDetail(d Detail) error {
	if err := d.Validate(); err != nil {
		return err
	}
	for _, existing := range c.details {
		if existing.IdentityNumber == d.IdentityNumber {
			return fmt.Errorf("%w: detail with identity number %s already exists", e.ErrValidation, d.IdentityNumber)
		}
	}
	c.details = append(c.details, d)
	return nil
}

// RemoveDetail removes the detail with the given identity number.
// Returns false if no such detail exists.
func (c *Company) RemoveDetail(identityNumber string) bool {
	for i, d := range c.details {
		if d.IdentityNumber == identityNumber {
			c.details = append(c.details[:i], c.details[i+1:]...)
			return true
		}
	}
	return false
}

// AddType attaches a company type, enforcing uniqueness by type ID.
func (c *Company) AddType(t CompanyType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, existing := range c.types {
		if existing.ID == t.ID {
			return fmt.Errorf("%w: company type %s already assigned", e.ErrValidation, t.Name)
		}
	}
	c.types = append(c.types, t)
	return nil
}

// RemoveType detaches a company type by ID. Returns false if not assigned.
func (c *Company) RemoveType(typeID uuid.UUID) bool {
	for i, t := range c.types {
		if t.ID == typeID {
			c.types = append(c.types[:i], c.types[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Company) ID() uuid.UUID        { return c.id }
func (c *Company) Name() string         { return c.name }
func (c *Company) CountryID() uuid.UUID { return c.countryID }
func (c *Company) CreatedAt() time.Time { return c.createdAt }
func (c *Company) UpdatedAt() time.Time { return c.updatedAt }

// Details returns a copy of the detail collection.
func (c *Company) Details() []Detail {
	out := make([]Detail, len(c.details))
	copy(out, c.details)
	return out
}

// Types returns a copy of the attached company types.
func (c *Company) Types() []CompanyType {
	out := make([]CompanyType, len(c.types))
	copy(out, c.types)
	return out
}

// Events returns a copy of the queued domain events.
func (c *Company) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// ClearEvents empties the event queue after publishing.
func (c *Company) ClearEvents() {
	c.events = nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: company name cannot be empty", e.ErrValidation)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: company name cannot exceed %d characters", e.ErrValidation, maxNameLength)
	}
	return nil
}
