package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

var (
	admin  = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	client = domain.Actor{UserID: 2, Role: domain.RoleClient}
)

func newService() (*Service, *memory.CatalogRepository) {
	repo := memory.NewSeededCatalog()
	return NewService(repo, logger.NewDiscard()), repo
}

func validRequest() *models.ServiceRequest {
	return &models.ServiceRequest{
		Name:            "  Keratin Treatment ",
		Description:     "Smoothing treatment",
		DurationMinutes: 90,
		Price:           150,
		Category:        "Hair",
	}
}

func TestService_ListServices(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.ListServices(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Services, 6)
	assert.Equal(t, "Classic Haircut", resp.Services[0].Name)

	resp, err = svc.ListServices(context.Background(), ptr.Ptr("hair"))
	require.NoError(t, err)
	assert.Len(t, resp.Services, 3)

	resp, err = svc.ListServices(context.Background(), ptr.Ptr("  "))
	require.NoError(t, err)
	assert.Len(t, resp.Services, 6)
}

func TestService_ListStylists(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.ListStylists(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, resp.Stylists, 2)

	// Beard Trim умеет только Michael
	resp, err = svc.ListStylists(context.Background(), ptr.Ptr(int64(2)))
	require.NoError(t, err)
	require.Len(t, resp.Stylists, 1)
	assert.Equal(t, "Michael Brown", resp.Stylists[0].Name)

	_, err = svc.ListStylists(context.Background(), ptr.Ptr(int64(99)))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_GetStylist(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.GetStylist(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", resp.Name)

	_, err = svc.GetStylist(context.Background(), 42)
	assert.ErrorIs(t, err, ErrStylistNotFound)
}

func TestService_CreateService(t *testing.T) {
	svc, _ := newService()

	_, err := svc.CreateService(context.Background(), client, validRequest())
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.CreateService(context.Background(), admin, validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "Keratin Treatment", resp.Name)
	assert.True(t, resp.IsActive)

	got, err := svc.GetService(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, got.DurationMinutes)
}

func TestService_CreateServiceValidation(t *testing.T) {
	long := make([]rune, domain.MaxServiceNameLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name   string
		mutate func(r *models.ServiceRequest)
	}{
		{name: "empty name", mutate: func(r *models.ServiceRequest) { r.Name = "   " }},
		{name: "long name", mutate: func(r *models.ServiceRequest) { r.Name = string(long) }},
		{name: "zero duration", mutate: func(r *models.ServiceRequest) { r.DurationMinutes = 0 }},
		{name: "too long duration", mutate: func(r *models.ServiceRequest) { r.DurationMinutes = domain.MaxServiceDurationMinutes + 1 }},
		{name: "negative price", mutate: func(r *models.ServiceRequest) { r.Price = -1 }},
		{name: "no category", mutate: func(r *models.ServiceRequest) { r.Category = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService()
			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateService(context.Background(), admin, req)
			assert.ErrorIs(t, err, ErrInvalidInput)

			all, err := repo.ListServices(context.Background(), nil, true)
			require.NoError(t, err)
			assert.Len(t, all, 6)
		})
	}
}

func TestService_UpdateService(t *testing.T) {
	svc, _ := newService()

	req := validRequest()
	req.Name = "Classic Haircut Deluxe"
	req.DurationMinutes = 60

	_, err := svc.UpdateService(context.Background(), client, 1, req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.UpdateService(context.Background(), admin, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "Classic Haircut Deluxe", resp.Name)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.False(t, resp.UpdatedAt.IsZero())

	_, err = svc.UpdateService(context.Background(), admin, 99, req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_DeleteService(t *testing.T) {
	svc, repo := newService()

	assert.ErrorIs(t, svc.DeleteService(context.Background(), client, 1), ErrAccessDenied)
	require.NoError(t, svc.DeleteService(context.Background(), admin, 1))
	assert.ErrorIs(t, svc.DeleteService(context.Background(), admin, 99), ErrServiceNotFound)

	_, err := svc.GetService(context.Background(), 1)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	resp, err := svc.ListServices(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, resp.Services, 5)

	// Запись сохраняется для истории
	stored, err := repo.GetService(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
