package manage_services

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// ServiceRequest HTTP request model
type ServiceRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Description     string  `json:"description" validate:"max=2000"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,gt=0,lte=480"`
	Price           float64 `json:"price" validate:"gte=0"`
	Category        string  `json:"category" validate:"required,max=100"`
	ImageURL        *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *ServiceRequest) ToServiceRequest() *models.ServiceRequest {
	return &models.ServiceRequest{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Category:        r.Category,
		ImageURL:        r.ImageURL,
		IsActive:        r.IsActive,
	}
}
