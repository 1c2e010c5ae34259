package db

import (
	"context"
	"testing"

	"github.com/gartstein/companyd/internal/company/domain"
	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/gartstein/companyd/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestRepo initializes an in-memory SQLite database for testing.
func setupTestRepo(t *testing.T) *Repository {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, migrate(gdb), "failed to migrate test database")

	return &Repository{db: gdb}
}

func newAggregate(t *testing.T, name string) *domain.Company {
	t.Helper()
	company, err := domain.NewCompany(name, uuid.New())
	require.NoError(t, err)
	require.NoError(t, company.AddDetail(domain.Detail{
		IdentificationTypeID: uuid.New(),
		IdentityNumber:       "900123456",
		Email:                "billing@" + uuid.NewString()[:8] + ".com",
		Active:               true,
	}))
	require.NoError(t, company.AddType(domain.CompanyType{ID: uuid.New(), Name: name + " type"}))
	company.ClearEvents()
	return company
}

func TestCreateAndGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	company := newAggregate(t, "Acme Inc")
	require.NoError(t, repo.Create(ctx, company))

	retrieved, err := repo.GetByID(ctx, company.ID())
	require.NoError(t, err)
	assert.Equal(t, company.ID(), retrieved.ID())
	assert.Equal(t, "Acme Inc", retrieved.Name())
	assert.Equal(t, company.CountryID(), retrieved.CountryID())
	require.Len(t, retrieved.Details(), 1)
	assert.Equal(t, "900123456", retrieved.Details()[0].IdentityNumber)
	require.Len(t, retrieved.Types(), 1)
	assert.Equal(t, "Acme Inc type", retrieved.Types()[0].Name)
}

func TestCreateDuplicateName(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first, err := domain.NewCompany("Acme Inc", uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := domain.NewCompany("Acme Inc", uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, second), e.ErrAlreadyExists)
}

func TestGetNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestFindByName(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	company := newAggregate(t, "Acme Inc")
	require.NoError(t, repo.Create(ctx, company))

	found, err := repo.FindByName(ctx, "Acme Inc")
	require.NoError(t, err)
	assert.Equal(t, company.ID(), found.ID())

	_, err = repo.FindByName(ctx, "Missing Inc")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestExistsByName(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	exists, err := repo.ExistsByName(ctx, "Acme Inc")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, newAggregate(t, "Acme Inc")))

	exists, err = repo.ExistsByName(ctx, "Acme Inc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	company := newAggregate(t, "Old Name")
	require.NoError(t, repo.Create(ctx, company))

	require.NoError(t, company.Update(utils.Ptr("New Name"), nil))
	require.NoError(t, company.AddDetail(domain.Detail{
		IdentificationTypeID: uuid.New(),
		IdentityNumber:       "800999111",
	}))
	require.NoError(t, repo.Update(ctx, company))

	updated, err := repo.GetByID(ctx, company.ID())
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name())
	assert.Len(t, updated.Details(), 2)
	assert.Len(t, updated.Types(), 1)
}

func TestUpdateNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	company := newAggregate(t, "Ghost Inc")
	err := repo.Update(context.Background(), company)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	company := newAggregate(t, "To Be Deleted")
	require.NoError(t, repo.Create(ctx, company))

	require.NoError(t, repo.Delete(ctx, company.ID()))

	_, err := repo.GetByID(ctx, company.ID())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestList(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		require.NoError(t, repo.Create(ctx, newAggregate(t, name)))
	}

	all, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestWithTransaction(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(txRepo *Repository) error {
		return txRepo.Create(ctx, newAggregate(t, "Transactional Inc"))
	})
	require.NoError(t, err)

	exists, _ := repo.ExistsByName(ctx, "Transactional Inc")
	assert.True(t, exists)
}
