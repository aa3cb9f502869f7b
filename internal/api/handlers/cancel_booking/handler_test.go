package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	called bool
	id     int64
	actor  domain.Actor
	reason string
	err    error
}

func (f *fakeService) Cancel(_ context.Context, id int64, actor domain.Actor, reason string) (*models.BookingResponse, error) {
	f.called = true
	f.id, f.actor, f.reason = id, actor, reason
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: string(domain.StatusCancelled)}, nil
}

func serve(svc *fakeService, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Handle("/api/v1/bookings/{bookingId}/cancel",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.NewDiscard()).Handle))).Methods(http.MethodPatch)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPatch, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var owner = map[string]string{middleware.HeaderUserID: "42"}

func TestHandle_CancelWithoutBody(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/api/v1/bookings/5/cancel", "", owner)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.id)
	assert.Equal(t, int64(42), svc.actor.UserID)
	assert.Equal(t, domain.RoleClient, svc.actor.Role)
	assert.Empty(t, svc.reason)
}

func TestHandle_CancelWithReason(t *testing.T) {
	svc := &fakeService{}
	headers := map[string]string{middleware.HeaderUserID: "1", middleware.HeaderUserRole: "admin"}

	rec := serve(svc, "/api/v1/bookings/5/cancel", `{"cancellationReason":"stylist is sick"}`, headers)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stylist is sick", svc.reason)
	assert.Equal(t, domain.RoleAdmin, svc.actor.Role)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		headers map[string]string
		err     error
		code    int
		called  bool
	}{
		{name: "missing user", path: "/api/v1/bookings/5/cancel", code: http.StatusUnauthorized},
		{name: "invalid id", path: "/api/v1/bookings/abc/cancel", headers: owner, code: http.StatusBadRequest},
		{name: "reason too long", path: "/api/v1/bookings/5/cancel", headers: owner,
			body: `{"cancellationReason":"` + strings.Repeat("x", 501) + `"}`, code: http.StatusBadRequest},
		{name: "not found", path: "/api/v1/bookings/5/cancel", headers: owner,
			err: bookings.ErrBookingNotFound, code: http.StatusNotFound, called: true},
		{name: "foreign booking", path: "/api/v1/bookings/5/cancel", headers: owner,
			err: bookings.ErrAccessDenied, code: http.StatusForbidden, called: true},
		{name: "already completed", path: "/api/v1/bookings/5/cancel", headers: owner,
			err: bookings.ErrInvalidTransition, code: http.StatusConflict, called: true},
		{name: "internal", path: "/api/v1/bookings/5/cancel", headers: owner,
			err: bookings.ErrInternal, code: http.StatusInternalServerError, called: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}

			rec := serve(svc, tt.path, tt.body, tt.headers)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.called, svc.called)
		})
	}
}
