package domain

import (
	"fmt"
	"strings"

	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/google/uuid"
)

// CompanyType is a classification attached to companies, e.g. "Retailer"
// or "Manufacturer". Companies and types relate many-to-many.
type CompanyType struct {
	ID   uuid.UUID
	Name string
}

// Validate checks the entity invariants.
func (t CompanyType) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: company type ID is required", e.ErrValidation)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: type name cannot be empty", e.ErrValidation)
	}
	if len(t.Name) > maxNameLength {
		return fmt.Errorf("%w: type name cannot exceed %d characters", e.ErrValidation, maxNameLength)
	}
	return nil
}
