package manage_services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeCatalog struct {
	created *models.ServiceRequest
	updated int64
	deleted int64
}

func (f *fakeCatalog) CreateService(_ context.Context, actor domain.Actor, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, catalog.ErrAccessDenied
	}
	f.created = req
	return &models.ServiceResponse{ID: 7, Name: req.Name, DurationMinutes: req.DurationMinutes, IsActive: true}, nil
}

func (f *fakeCatalog) UpdateService(_ context.Context, actor domain.Actor, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, catalog.ErrAccessDenied
	}
	if id != 1 {
		return nil, catalog.ErrServiceNotFound
	}
	f.updated = id
	return &models.ServiceResponse{ID: id, Name: req.Name}, nil
}

func (f *fakeCatalog) DeleteService(_ context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return catalog.ErrAccessDenied
	}
	if id != 1 {
		return catalog.ErrServiceNotFound
	}
	f.deleted = id
	return nil
}

func newRouter(svc *fakeCatalog) *mux.Router {
	h := NewHandler(svc, logger.NewDiscard())

	router := mux.NewRouter()
	admin := router.PathPrefix("/api/v1/admin").Subrouter()
	admin.Use(middleware.Auth)
	admin.HandleFunc("/services", h.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId}", h.HandleUpdate).Methods(http.MethodPut)
	admin.HandleFunc("/services/{serviceId}", h.HandleDelete).Methods(http.MethodDelete)
	return router
}

func do(router *mux.Router, method, target, body, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "1")
	req.Header.Set(middleware.HeaderUserRole, role)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"name":"Balayage","description":"Hand-painted color","durationMinutes":150,"price":180,"category":"Hair"}`

func TestHandleCreate(t *testing.T) {
	svc := &fakeCatalog{}
	router := newRouter(svc)

	rec := do(router, http.MethodPost, "/api/v1/admin/services", validBody, "admin")

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Balayage", svc.created.Name)
	assert.Nil(t, svc.created.IsActive)
}

func TestHandleCreate_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		role string
		code int
	}{
		{name: "client", body: validBody, role: "client", code: http.StatusForbidden},
		{name: "zero duration", body: `{"name":"X","durationMinutes":0,"price":1,"category":"Hair"}`, role: "admin", code: http.StatusBadRequest},
		{name: "too long", body: `{"name":"X","durationMinutes":481,"price":1,"category":"Hair"}`, role: "admin", code: http.StatusBadRequest},
		{name: "negative price", body: `{"name":"X","durationMinutes":30,"price":-1,"category":"Hair"}`, role: "admin", code: http.StatusBadRequest},
		{name: "missing category", body: `{"name":"X","durationMinutes":30,"price":1}`, role: "admin", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCatalog{}
			rec := do(newRouter(svc), http.MethodPost, "/api/v1/admin/services", tt.body, tt.role)

			assert.Equal(t, tt.code, rec.Code)
			assert.Nil(t, svc.created)
		})
	}
}

func TestHandleUpdate(t *testing.T) {
	svc := &fakeCatalog{}
	router := newRouter(svc)

	rec := do(router, http.MethodPut, "/api/v1/admin/services/1", validBody, "admin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.updated)

	rec = do(router, http.MethodPut, "/api/v1/admin/services/99", validBody, "admin")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodPut, "/api/v1/admin/services/abc", validBody, "admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	svc := &fakeCatalog{}
	router := newRouter(svc)

	rec := do(router, http.MethodDelete, "/api/v1/admin/services/1", "", "client")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, svc.deleted)

	rec = do(router, http.MethodDelete, "/api/v1/admin/services/1", "", "admin")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, int64(1), svc.deleted)
}
