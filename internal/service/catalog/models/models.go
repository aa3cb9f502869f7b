package models

import (
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ServiceRequest данные услуги для создания и обновления
type ServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"` // nil - услуга активна
}

// ToDomainService конвертирует запрос в domain модель
func (r *ServiceRequest) ToDomainService(id int64) *domain.Service {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &domain.Service{
		ID:              id,
		Name:            strings.TrimSpace(r.Name),
		Description:     strings.TrimSpace(r.Description),
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Category:        strings.TrimSpace(r.Category),
		ImageURL:        r.ImageURL,
		IsActive:        isActive,
	}
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	ImageURL        *string   `json:"imageUrl,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// DayScheduleResponse рабочее окно стилиста
type DayScheduleResponse struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// StylistResponse ответ с данными стилиста
type StylistResponse struct {
	ID           int64                          `json:"id"`
	Name         string                         `json:"name"`
	Email        string                         `json:"email"`
	Phone        *string                        `json:"phone,omitempty"`
	Specialties  []string                       `json:"specialties"`
	Bio          *string                        `json:"bio,omitempty"`
	Rating       *float64                       `json:"rating,omitempty"`
	WorkingHours map[string]DayScheduleResponse `json:"workingHours,omitempty"` // ключ - день недели, "monday"
}

// StylistListResponse ответ со списком стилистов
type StylistListResponse struct {
	Stylists []StylistResponse `json:"stylists"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Category:        s.Category,
		ImageURL:        s.ImageURL,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список услуг в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, *FromDomainService(s))
	}
	return resp
}

// FromDomainStylist конвертирует domain модель в DTO
func FromDomainStylist(s *domain.Stylist) *StylistResponse {
	if s == nil {
		return nil
	}

	resp := &StylistResponse{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Specialties: append([]string{}, s.Specialties...),
		Bio:         s.Bio,
		Rating:      s.Rating,
	}

	if s.WorkingHours != nil {
		resp.WorkingHours = make(map[string]DayScheduleResponse, len(s.WorkingHours))
		for wd, day := range s.WorkingHours {
			resp.WorkingHours[strings.ToLower(wd.String())] = DayScheduleResponse{
				Open:  day.Open.String(),
				Close: day.Close.String(),
			}
		}
	}

	return resp
}

// FromDomainStylistList конвертирует список стилистов в DTO, сохраняя порядок по ID
func FromDomainStylistList(stylists []*domain.Stylist) *StylistListResponse {
	sorted := append([]*domain.Stylist(nil), stylists...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	resp := &StylistListResponse{Stylists: make([]StylistResponse, 0, len(sorted))}
	for _, s := range sorted {
		resp.Stylists = append(resp.Stylists, *FromDomainStylist(s))
	}
	return resp
}
