package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
)

// CatalogRepository каталог услуг и стилистов в памяти процесса
type CatalogRepository struct {
	mu       sync.RWMutex
	nextID   int64
	services map[int64]*domain.Service
	stylists map[int64]*domain.Stylist
	now      func() time.Time
}

// NewCatalogRepository создает каталог с переданными услугами и стилистами
func NewCatalogRepository(services []*domain.Service, stylists []*domain.Stylist) *CatalogRepository {
	r := &CatalogRepository{
		nextID:   1,
		services: make(map[int64]*domain.Service, len(services)),
		stylists: make(map[int64]*domain.Stylist, len(stylists)),
		now:      time.Now,
	}
	for _, s := range services {
		c := cloneService(s)
		r.services[c.ID] = c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	for _, s := range stylists {
		r.stylists[s.ID] = cloneStylist(s)
	}
	return r
}

// GetService получает услугу по ID (включая неактивные)
func (r *CatalogRepository) GetService(_ context.Context, id int64) (*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return cloneService(s), nil
}

// ListServices возвращает услуги, отсортированные по ID
func (r *CatalogRepository) ListServices(_ context.Context, category *string, includeInactive bool) ([]*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Service, 0, len(r.services))
	for _, s := range r.services {
		if !includeInactive && !s.IsActive {
			continue
		}
		if category != nil && !strings.EqualFold(s.Category, *category) {
			continue
		}
		result = append(result, cloneService(s))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CreateService добавляет услугу
func (r *CatalogRepository) CreateService(_ context.Context, service *domain.Service) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := cloneService(service)
	created.ID = r.nextID
	created.CreatedAt = r.now()
	created.UpdatedAt = created.CreatedAt
	r.nextID++

	r.services[created.ID] = created
	return cloneService(created), nil
}

// UpdateService обновляет услугу
func (r *CatalogRepository) UpdateService(_ context.Context, service *domain.Service) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.services[service.ID]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}

	updated := cloneService(service)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.now()

	r.services[updated.ID] = updated
	return cloneService(updated), nil
}

// DeactivateService мягко удаляет услугу
func (r *CatalogRepository) DeactivateService(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.services[id]
	if !ok {
		return catalogRepo.ErrServiceNotFound
	}
	s.IsActive = false
	s.UpdatedAt = r.now()
	return nil
}

// GetStylist получает стилиста по ID
func (r *CatalogRepository) GetStylist(_ context.Context, id int64) (*domain.Stylist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stylists[id]
	if !ok {
		return nil, catalogRepo.ErrStylistNotFound
	}
	return cloneStylist(s), nil
}

// ListStylists возвращает всех стилистов, отсортированных по ID
func (r *CatalogRepository) ListStylists(_ context.Context) ([]*domain.Stylist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Stylist, 0, len(r.stylists))
	for _, s := range r.stylists {
		result = append(result, cloneStylist(s))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func cloneService(s *domain.Service) *domain.Service {
	c := *s
	if s.ImageURL != nil {
		url := *s.ImageURL
		c.ImageURL = &url
	}
	return &c
}

func cloneStylist(s *domain.Stylist) *domain.Stylist {
	c := *s
	c.Specialties = append([]string(nil), s.Specialties...)
	if s.WorkingHours != nil {
		c.WorkingHours = make(domain.WeeklySchedule, len(s.WorkingHours))
		for wd, day := range s.WorkingHours {
			c.WorkingHours[wd] = day
		}
	}
	return &c
}
