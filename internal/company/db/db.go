// Package db implements the company repository on top of GORM/PostgreSQL,
// mapping between the domain aggregate and the persistence models.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/companyd/internal/company/db/models"
	"github.com/gartstein/companyd/internal/company/domain"
	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: gdb}, nil
}

func migrate(gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&models.Company{}, "Types", &models.CompanyCompanyType{}); err != nil {
		return err
	}
	return gdb.AutoMigrate(
		&models.Company{},
		&models.CompanyDetail{},
		&models.CompanyType{},
		&models.CompanyCompanyType{},
	)
}

// Create persists a new aggregate including its details and type links.
func (r *Repository) Create(ctx context.Context, company *domain.Company) error {
	model := toModel(company)
	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrAlreadyExists
		}
		return result.Error
	}
	return nil
}

// GetByID loads the aggregate with its details and types.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var model models.Company
	result := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Types").
		First(&model, "company_id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return toAggregate(&model), nil
}

// FindByName loads the aggregate stored under the given name.
func (r *Repository) FindByName(ctx context.Context, name string) (*domain.Company, error) {
	var model models.Company
	result := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Types").
		First(&model, "company_name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return toAggregate(&model), nil
}

// ExistsByName reports whether a company with the given name is stored.
func (r *Repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("company_name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// Update writes the aggregate's current state: the company row is updated
// and the owned detail rows and type links are replaced.
func (r *Repository) Update(ctx context.Context, company *domain.Company) error {
	model := toModel(company)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Company{}).
			Where("company_id = ?", model.CompanyID).
			Updates(map[string]interface{}{
				"company_name": model.CompanyName,
				"country_id":   model.CountryID,
				"updated_at":   model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}

		if err := tx.Where("company_id = ?", model.CompanyID).
			Delete(&models.CompanyDetail{}).Error; err != nil {
			return err
		}
		if len(model.Details) > 0 {
			if err := tx.Create(&model.Details).Error; err != nil {
				return err
			}
		}

		anchor := models.Company{CompanyID: model.CompanyID}
		return tx.Model(&anchor).Association("Types").Replace(model.Types)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return e.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes the company row; details and type links go with it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).
			Delete(&models.CompanyDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).
			Delete(&models.CompanyCompanyType{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Company{}, "company_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
	return err
}

// List returns companies ordered by creation time with offset pagination.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*domain.Company, error) {
	var found []models.Company
	result := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Types").
		Order("created_at").
		Offset(offset).
		Limit(limit).
		Find(&found)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]*domain.Company, 0, len(found))
	for i := range found {
		out = append(out, toAggregate(&found[i]))
	}
	return out, nil
}

// WithTransaction runs fn against a repository bound to one transaction.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toModel(company *domain.Company) models.Company {
	details := make([]models.CompanyDetail, 0, len(company.Details()))
	for _, d := range company.Details() {
		details = append(details, models.CompanyDetail{
			CompanyDetailID:      uuid.New(),
			CompanyID:            company.ID(),
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
	types := make([]models.CompanyType, 0, len(company.Types()))
	for _, t := range company.Types() {
		types = append(types, models.CompanyType{
			CompanyTypesID: t.ID,
			TypeName:       t.Name,
		})
	}
	return models.Company{
		CompanyID:   company.ID(),
		CompanyName: company.Name(),
		CountryID:   company.CountryID(),
		CreatedAt:   company.CreatedAt(),
		UpdatedAt:   company.UpdatedAt(),
		Details:     details,
		Types:       types,
	}
}

func toAggregate(model *models.Company) *domain.Company {
	details := make([]domain.Detail, 0, len(model.Details))
	for _, d := range model.Details {
		details = append(details, domain.Detail{
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
	types := make([]domain.CompanyType, 0, len(model.Types))
	for _, t := range model.Types {
		types = append(types, domain.CompanyType{
			ID:   t.CompanyTypesID,
			Name: t.TypeName,
		})
	}
	return domain.Rehydrate(
		model.CompanyID,
		model.CompanyName,
		model.CountryID,
		model.CreatedAt,
		model.UpdatedAt,
		details,
		types,
	)
}
