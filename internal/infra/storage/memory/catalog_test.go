package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

func TestCatalogRepository_Seed(t *testing.T) {
	ctx := context.Background()
	repo := NewSeededCatalog()

	services, err := repo.ListServices(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, services, 6)
	assert.Equal(t, "Classic Haircut", services[0].Name)
	assert.Equal(t, 45, services[0].DurationMinutes)

	hair, err := repo.ListServices(ctx, ptr.Ptr("hair"), false)
	require.NoError(t, err)
	assert.Len(t, hair, 3)

	stylists, err := repo.ListStylists(ctx)
	require.NoError(t, err)
	require.Len(t, stylists, 2)
	for _, s := range stylists {
		assert.True(t, s.CanPerform(services[0]), "stylist %s", s.Name)
	}
}

func TestCatalogRepository_ServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSeededCatalog()

	created, err := repo.CreateService(ctx, &domain.Service{
		Name:            "Scalp Massage",
		DurationMinutes: 20,
		Price:           15,
		Category:        "Hair",
		IsActive:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	created.Price = 20
	updated, err := repo.UpdateService(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Price)

	require.NoError(t, repo.DeactivateService(ctx, created.ID))

	active, err := repo.ListServices(ctx, nil, false)
	require.NoError(t, err)
	assert.Len(t, active, 6)

	all, err := repo.ListServices(ctx, nil, true)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	stored, err := repo.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestCatalogRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSeededCatalog()

	_, err := repo.GetService(ctx, 100)
	assert.ErrorIs(t, err, catalogRepo.ErrServiceNotFound)

	_, err = repo.UpdateService(ctx, &domain.Service{ID: 100})
	assert.ErrorIs(t, err, catalogRepo.ErrServiceNotFound)

	assert.ErrorIs(t, repo.DeactivateService(ctx, 100), catalogRepo.ErrServiceNotFound)

	_, err = repo.GetStylist(ctx, 100)
	assert.ErrorIs(t, err, catalogRepo.ErrStylistNotFound)
}
