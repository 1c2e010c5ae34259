package domain

import (
	"fmt"
	"regexp"
	"strings"

	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Detail is a value object holding a company's identification and contact
// information. Compared by value; the identity number is unique within one
// aggregate's detail collection.
type Detail struct {
	IdentificationTypeID uuid.UUID
	IdentityNumber       string
	Address              string
	NumberIndicative     string
	PhoneNumber          string
	Email                string
	CityID               uuid.UUID
	Active               bool
	PersonType           string
	Status               string
	Verified             bool
}

// Validate checks the value object invariants.
func (d Detail) Validate() error {
	if d.IdentificationTypeID == uuid.Nil {
		return fmt.Errorf("%w: identification type is required", e.ErrValidation)
	}
	if strings.TrimSpace(d.IdentityNumber) == "" {
		return fmt.Errorf("%w: identity number is required", e.ErrValidation)
	}
	if d.Email != "" && !emailPattern.MatchString(d.Email) {
		return fmt.Errorf("%w: invalid email format: %s", e.ErrValidation, d.Email)
	}
	return nil
}
