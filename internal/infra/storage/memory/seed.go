package memory

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

// SeedServices демо-каталог услуг салона
func SeedServices() []*domain.Service {
	return []*domain.Service{
		{
			ID:              1,
			Name:            "Classic Haircut",
			Description:     "Professional haircut with styling",
			DurationMinutes: 45,
			Price:           50,
			Category:        "Hair",
			ImageURL:        ptr.Ptr("https://images.unsplash.com/photo-1560066984-138dadb4c035?w=400"),
			IsActive:        true,
		},
		{
			ID:              2,
			Name:            "Beard Trim",
			Description:     "Professional beard trimming and shaping",
			DurationMinutes: 30,
			Price:           25,
			Category:        "Grooming",
			ImageURL:        ptr.Ptr("https://images.unsplash.com/photo-1621605815971-fbc98d665033?w=400"),
			IsActive:        true,
		},
		{
			ID:              3,
			Name:            "Deep Cleansing Facial",
			Description:     "Relaxing facial with deep pore cleansing",
			DurationMinutes: 60,
			Price:           80,
			Category:        "Skincare",
			ImageURL:        ptr.Ptr("https://images.unsplash.com/photo-1570172619644-dfd03ed5d881?w=400"),
			IsActive:        true,
		},
		{
			ID:              4,
			Name:            "Hair Color",
			Description:     "Full hair coloring service",
			DurationMinutes: 120,
			Price:           120,
			Category:        "Hair",
			ImageURL:        ptr.Ptr("https://images.unsplash.com/photo-1522337660859-02fbefca4702?w=400"),
			IsActive:        true,
		},
		{
			ID:              5,
			Name:            "Manicure",
			Description:     "Professional nail care and polish",
			DurationMinutes: 45,
			Price:           35,
			Category:        "Nails",
			ImageURL:        ptr.Ptr("https://images.unsplash.com/photo-1604654894610-df63bc536371?w=400"),
			IsActive:        true,
		},
		{
			ID:              6,
			Name:            "Hair Wash & Blow Dry",
			Description:     "Luxurious hair wash with professional blow dry",
			DurationMinutes: 30,
			Price:           30,
			Category:        "Hair",
			ImageURL:        ptr.Ptr("https://images.unsplash.com/photo-1562322140-8baeececf3df?w=400"),
			IsActive:        true,
		},
	}
}

// SeedStylists демо-стилисты, специализации совпадают с категориями услуг
func SeedStylists() []*domain.Stylist {
	return []*domain.Stylist{
		{
			ID:          1,
			Name:        "Sarah Johnson",
			Email:       "sarah@salon.com",
			Phone:       ptr.Ptr("+1234567891"),
			Specialties: []string{"Hair", "Nails"},
			Bio:         ptr.Ptr("Expert stylist with 10+ years of experience"),
			Rating:      ptr.Ptr(4.9),
		},
		{
			ID:          2,
			Name:        "Michael Brown",
			Email:       "michael@salon.com",
			Phone:       ptr.Ptr("+1234567892"),
			Specialties: []string{"Hair", "Grooming", "Skincare"},
			Bio:         ptr.Ptr("Specialized in men's grooming and traditional barbering"),
			Rating:      ptr.Ptr(4.8),
		},
	}
}

// NewSeededCatalog каталог с демо-данными
func NewSeededCatalog() *CatalogRepository {
	return NewCatalogRepository(SeedServices(), SeedStylists())
}
