package list_services

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
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

// Handle GET /api/v1/services?category=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	category := handlers.QueryString(r, "category")

	services, err := h.service.ListServices(r.Context(), category)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services - Services listed: count=%d", len(services.Services))
	handlers.RespondJSON(w, http.StatusOK, services)
}
