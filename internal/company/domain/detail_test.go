package domain

import (
	"testing"

	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDetail_Validate(t *testing.T) {
	idType := uuid.New()

	tests := []struct {
		name        string
		detail      Detail
		expectError bool
	}{
		{
			name: "minimal valid detail",
			detail: Detail{
				IdentificationTypeID: idType,
				IdentityNumber:       "900123456",
			},
		},
		{
			name: "valid detail with contact fields",
			detail: Detail{
				IdentificationTypeID: idType,
				IdentityNumber:       "900123456",
				Email:                "billing@acme.com",
				PhoneNumber:          "3001234567",
				Active:               true,
				Verified:             true,
			},
		},
		{
			name: "missing identification type",
			detail: Detail{
				IdentityNumber: "900123456",
			},
			expectError: true,
		},
		{
			name: "blank identity number",
			detail: Detail{
				IdentificationTypeID: idType,
				IdentityNumber:       "   ",
			},
			expectError: true,
		},
		{
			name: "malformed email",
			detail: Detail{
				IdentificationTypeID: idType,
				IdentityNumber:       "900123456",
				Email:                "not-an-email",
			},
			expectError: true,
		},
		{
			name: "email without tld",
			detail: Detail{
				IdentificationTypeID: idType,
				IdentityNumber:       "900123456",
				Email:                "billing@acme",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.detail.Validate()
			if tt.expectError {
				assert.ErrorIs(t, err, e.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompanyType_Validate(t *testing.T) {
	assert.NoError(t, CompanyType{ID: uuid.New(), Name: "Retailer"}.Validate())
	assert.ErrorIs(t, CompanyType{Name: "Retailer"}.Validate(), e.ErrValidation)
	assert.ErrorIs(t, CompanyType{ID: uuid.New(), Name: " "}.Validate(), e.ErrValidation)
}
