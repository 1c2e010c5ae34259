// Package models contains the persistence models for the company schema,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company maps to the 'company' table.
type Company struct {
	CompanyID   uuid.UUID `gorm:"type:uuid;primaryKey;column:company_id"`
	CompanyName string    `gorm:"size:255;not null;uniqueIndex;column:company_name"`
	CountryID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Details []CompanyDetail `gorm:"foreignKey:CompanyID;references:CompanyID;constraint:OnDelete:CASCADE"`
	Types   []CompanyType   `gorm:"many2many:company_company_type;foreignKey:CompanyID;joinForeignKey:CompanyID;references:CompanyTypesID;joinReferences:CompanyTypesID"`
}

func (Company) TableName() string { return "company" }

// CompanyDetail maps to the 'company_detail' table and stores
// identification, contact and verification data for one company.
type CompanyDetail struct {
	CompanyDetailID      uuid.UUID `gorm:"type:uuid;primaryKey;column:company_detail_id"`
	CompanyID            uuid.UUID `gorm:"type:uuid;not null;index"`
	IdentificationTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	IdentityNumber       string    `gorm:"size:255;not null"`
	Address              string    `gorm:"size:255"`
	NumberIndicative     string    `gorm:"size:255"`
	PhoneNumber          string    `gorm:"size:255"`
	Email                string    `gorm:"size:255"`
	CityID               uuid.UUID `gorm:"type:uuid"`
	Active               bool      `gorm:"not null;default:true"`
	PersonType           string    `gorm:"size:255"`
	Status               string    `gorm:"size:255"`
	Verified             bool      `gorm:"not null;default:false"`
}

func (CompanyDetail) TableName() string { return "company_detail" }

// CompanyType maps to the 'company_types' table.
type CompanyType struct {
	CompanyTypesID uuid.UUID `gorm:"type:uuid;primaryKey;column:company_types_id"`
	TypeName       string    `gorm:"size:255;not null;uniqueIndex"`
}

func (CompanyType) TableName() string { return "company_types" }

// CompanyCompanyType is the join table between companies and types, with
// auxiliary relation attributes.
type CompanyCompanyType struct {
	CompanyCompanyTypeID uuid.UUID `gorm:"type:uuid;primaryKey;column:company_company_type_id"`
	CompanyID            uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyTypesID       uuid.UUID `gorm:"type:uuid;not null;index;column:company_types_id"`
	Percentage           *float64  `gorm:"type:numeric"`
	CompanyRelation      *string   `gorm:"size:255"`
}

func (CompanyCompanyType) TableName() string { return "company_company_type" }

// BeforeCreate assigns the surrogate key; GORM only fills the foreign keys
// when inserting through the association.
func (j *CompanyCompanyType) BeforeCreate(*gorm.DB) error {
	if j.CompanyCompanyTypeID == uuid.Nil {
		j.CompanyCompanyTypeID = uuid.New()
	}
	return nil
}
