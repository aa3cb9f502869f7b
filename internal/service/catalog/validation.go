package catalog

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// validateServiceData валидирует данные услуги
func validateServiceData(req *models.ServiceRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}

	if req.DurationMinutes <= 0 || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxServiceDurationMinutes)
	}

	if req.Price < 0 || math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	return nil
}
