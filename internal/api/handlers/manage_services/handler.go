package manage_services

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные услуги"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/admin/services
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/services - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateService(r.Context(), actor, req.ToServiceRequest())
	if err != nil {
		h.respondServiceError(w, "POST /admin/services", 0, actor, err)
		return
	}

	h.logger.Info("POST /admin/services - Service created: service_id=%d, user_id=%d", created.ID, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// HandleUpdate PUT /api/v1/admin/services/{serviceId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("PUT /admin/services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /admin/services/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.service.UpdateService(r.Context(), actor, serviceID, req.ToServiceRequest())
	if err != nil {
		h.respondServiceError(w, "PUT /admin/services/{id}", serviceID, actor, err)
		return
	}

	h.logger.Info("PUT /admin/services/{id} - Service updated: service_id=%d, user_id=%d", serviceID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, updated)
}

// HandleDelete DELETE /api/v1/admin/services/{serviceId}
// Услуга деактивируется, существующие бронирования сохраняют снимок
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("DELETE /admin/services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /admin/services/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteService(r.Context(), actor, serviceID); err != nil {
		h.respondServiceError(w, "DELETE /admin/services/{id}", serviceID, actor, err)
		return
	}

	h.logger.Info("DELETE /admin/services/{id} - Service deleted: service_id=%d, user_id=%d", serviceID, actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, serviceID int64, actor domain.Actor, err error) {
	switch {
	case errors.Is(err, catalog.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: user_id=%d", route, actor.UserID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, catalog.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: service_id=%d", route, serviceID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, catalog.ErrInvalidInput):
		h.logger.Warn("%s - Invalid service data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: service_id=%d, error=%v", route, serviceID, err)
		handlers.RespondInternalError(w)
	}
}
