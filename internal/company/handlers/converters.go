package handlers

import (
	"time"

	"github.com/gartstein/companyd/internal/company/domain"
	"github.com/google/uuid"
)

// DetailPayload is the transfer shape of a company detail.
type DetailPayload struct {
	IdentificationTypeID uuid.UUID `json:"identification_type_id"`
	IdentityNumber       string    `json:"identity_number"`
	Address              string    `json:"address,omitempty"`
	NumberIndicative     string    `json:"number_indicative,omitempty"`
	PhoneNumber          string    `json:"phone_number,omitempty"`
	Email                string    `json:"email,omitempty"`
	CityID               uuid.UUID `json:"city_id,omitempty"`
	Active               bool      `json:"active"`
	PersonType           string    `json:"person_type,omitempty"`
	Status               string    `json:"status,omitempty"`
	Verified             bool      `json:"verified"`
}

// TypePayload is the transfer shape of a company type.
type TypePayload struct {
	ID   uuid.UUID `json:"company_types_id"`
	Name string    `json:"type_name"`
}

// CompanyResponse is returned by all company endpoints.
type CompanyResponse struct {
	ID        uuid.UUID       `json:"company_id"`
	Name      string          `json:"company_name"`
	CountryID uuid.UUID       `json:"country_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Details   []DetailPayload `json:"details,omitempty"`
	Types     []TypePayload   `json:"company_types,omitempty"`
}

func toDetail(p DetailPayload) domain.Detail {
	return domain.Detail{
		IdentificationTypeID: p.IdentificationTypeID,
		IdentityNumber:       p.IdentityNumber,
		Address:              p.Address,
		NumberIndicative:     p.NumberIndicative,
		PhoneNumber:          p.PhoneNumber,
		Email:                p.Email,
		CityID:               p.CityID,
		Active:               p.Active,
		PersonType:           p.PersonType,
		Status:               p.Status,
		Verified:             p.Verified,
	}
}

func toCompanyType(p TypePayload) domain.CompanyType {
	return domain.CompanyType{ID: p.ID, Name: p.Name}
}

func toResponse(c *domain.Company) CompanyResponse {
	resp := CompanyResponse{
		ID:        c.ID(),
		Name:      c.Name(),
		CountryID: c.CountryID(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
	for _, d := range c.Details() {
		resp.Details = append(resp.Details, DetailPayload{
			IdentificationTypeID: d.IdentificationTypeID,
			IdentityNumber:       d.IdentityNumber,
			Address:              d.Address,
			NumberIndicative:     d.NumberIndicative,
			PhoneNumber:          d.PhoneNumber,
			Email:                d.Email,
			CityID:               d.CityID,
			Active:               d.Active,
			PersonType:           d.PersonType,
			Status:               d.Status,
			Verified:             d.Verified,
		})
	}
	for _, t := range c.Types() {
		resp.Types = append(resp.Types, TypePayload{ID: t.ID, Name: t.Name})
	}
	return resp
}
