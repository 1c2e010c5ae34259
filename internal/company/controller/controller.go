// Package controller implements the application use cases for companies,
// orchestrating the repository, the aggregate and the event bus. Events are
// drained from the aggregate and published only after the repository commits.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/companyd/internal/company/domain"
	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bus routes domain events to their subscribers.
type Bus interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// Repository defines the storage interface for Company aggregates.
type Repository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	FindByName(ctx context.Context, name string) (*domain.Company, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, company *domain.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*domain.Company, error)
	Close() error
}

// CreateInput carries the data for creating a company.
type CreateInput struct {
	Name      string
	CountryID uuid.UUID
	Details   []domain.Detail
	Types     []domain.CompanyType
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	ID        uuid.UUID
	Name      *string
	CountryID *uuid.UUID
}

// CompanyService provides methods to manage companies via repository
// operations and event publication.
type CompanyService struct {
	repo   Repository
	bus    Bus
	logger *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event bus, and a logger.
func NewCompanyService(repo Repository, bus Bus, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:   repo,
		bus:    bus,
		logger: logger.Named("company_service"),
	}
}

// CreateCompany adds a new Company after checking name uniqueness,
// persists it and publishes the queued events.
func (s *CompanyService) CreateCompany(ctx context.Context, in CreateInput) (*domain.Company, error) {
	exists, err := s.repo.ExistsByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrAlreadyExists
	}

	company, err := domain.NewCompany(in.Name, in.CountryID)
	if err != nil {
		return nil, err
	}
	for _, d := range in.Details {
		if err := company.AddDetail(d); err != nil {
			return nil, err
		}
	}
	for _, t := range in.Types {
		if err := company.AddType(t); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.publishEvents(ctx, company)
	return company, nil
}

// GetCompany retrieves a Company by ID, returning ErrNotFound if missing.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// ListCompanies returns a page of companies.
func (s *CompanyService) ListCompanies(ctx context.Context, offset, limit int) ([]*domain.Company, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

// UpdateCompany applies the provided fields, persists the aggregate and
// publishes the queued events. Renaming to a taken name fails with
// ErrAlreadyExists.
func (s *CompanyService) UpdateCompany(ctx context.Context, in UpdateInput) (*domain.Company, error) {
	if in.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrValidation)
	}

	company, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	if in.Name != nil && *in.Name != company.Name() {
		existing, err := s.repo.FindByName(ctx, *in.Name)
		if err != nil && !errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("failed to check name existence: %w", err)
		}
		if existing != nil && existing.ID() != in.ID {
			return nil, e.ErrAlreadyExists
		}
	}

	if err := company.Update(in.Name, in.CountryID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, company); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.publishEvents(ctx, company)
	return company, nil
}

// DeleteCompany removes a Company by ID.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

// publishEvents drains the aggregate's queue into the bus. Publication
// happens after the write committed, so failures are logged, never
// surfaced to the caller.
func (s *CompanyService) publishEvents(ctx context.Context, company *domain.Company) {
	events := company.Events()
	if len(events) == 0 {
		return
	}
	if err := s.bus.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events",
			zap.Error(err),
			zap.String("company_id", company.ID().String()),
			zap.Int("events", len(events)),
		)
	}
	company.ClearEvents()
}
