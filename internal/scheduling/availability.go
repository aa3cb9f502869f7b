package scheduling

import (
	"sort"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// occupancy занятые интервалы по стилистам на один день
type occupancy map[int64][]domain.Interval

func buildOccupancy(date time.Time, bookings []*domain.Booking) occupancy {
	occ := make(occupancy)
	for _, b := range bookings {
		// Завершённые и отменённые бронирования время не занимают
		if !b.IsActive() || !domain.SameDay(b.BookingDate, date) {
			continue
		}
		interval, err := b.Interval()
		if err != nil {
			continue
		}
		occ[b.StylistID] = append(occ[b.StylistID], interval)
	}
	return occ
}

func (o occupancy) isFree(stylistID int64, slot domain.Interval) bool {
	for _, busy := range o[stylistID] {
		if busy.Overlaps(slot) {
			return false
		}
	}
	return true
}

// FreeStylists возвращает ID стилистов, свободных на весь интервал slot в дату date
// Стилист свободен, если работает в это время и ни одно его активное бронирование не пересекается со slot
// Результат отсортирован по возрастанию ID
func FreeStylists(date time.Time, slot domain.Interval, stylists []*domain.Stylist, bookings []*domain.Booking) []int64 {
	return freeStylists(date, slot, stylists, buildOccupancy(date, bookings))
}

func freeStylists(date time.Time, slot domain.Interval, stylists []*domain.Stylist, occ occupancy) []int64 {
	free := make([]int64, 0, len(stylists))
	for _, s := range stylists {
		if !s.WorksDuring(date, slot) {
			continue
		}
		if occ.isFree(s.ID, slot) {
			free = append(free, s.ID)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })
	return free
}

// Resolve отмечает каждый кандидат доступным, если хотя бы один из stylists свободен на всю длительность
// Для конкретного стилиста передаётся срез из одного элемента, для "без предпочтений" все квалифицированные
// Функция чистая: результат зависит только от аргументов
func Resolve(
	date time.Time,
	candidates []types.TimeString,
	durationMinutes int,
	stylists []*domain.Stylist,
	bookings []*domain.Booking,
) ([]domain.TimeSlot, error) {
	occ := buildOccupancy(date, bookings)

	result := make([]domain.TimeSlot, 0, len(candidates))
	for _, start := range candidates {
		slot, err := domain.NewInterval(start, durationMinutes)
		if err != nil {
			return nil, err
		}

		free := freeStylists(date, slot, stylists, occ)
		result = append(result, domain.TimeSlot{
			Date:            domain.DateOnly(date),
			StartTime:       start,
			DurationMinutes: durationMinutes,
			Available:       len(free) > 0,
			FreeStylistIDs:  free,
		})
	}

	return result, nil
}

// LockKeys ключи блокировок для бронирования на дату для набора стилистов
func LockKeys(date time.Time, stylistIDs ...int64) []string {
	keys := make([]string, 0, len(stylistIDs))
	for _, id := range stylistIDs {
		keys = append(keys, LockKey(date, id))
	}
	sort.Strings(keys)
	return keys
}

// LockKey ключ блокировки пары (дата, стилист)
func LockKey(date time.Time, stylistID int64) string {
	return date.Format(domain.DateFormat) + "|" + strconv.FormatInt(stylistID, 10)
}

// Qualified оставляет стилистов, которые выполняют услугу, в порядке возрастания ID
func Qualified(service *domain.Service, stylists []*domain.Stylist) []*domain.Stylist {
	result := make([]*domain.Stylist, 0, len(stylists))
	for _, s := range stylists {
		if s.CanPerform(service) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// StylistIDs ID стилистов в исходном порядке
func StylistIDs(stylists []*domain.Stylist) []int64 {
	ids := make([]int64, len(stylists))
	for i, s := range stylists {
		ids[i] = s.ID
	}
	return ids
}
