package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
	StylistID *int64    // ID стилиста, nil - без предпочтений
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	ServiceID       int64     // ID услуги
	StylistID       *int64    // ID стилиста из запроса
	DurationMinutes int       // Длительность услуги
	Closed          bool      // Салон не работает в этот день
	Slots           []Slot    // Список слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime      types.TimeString // Время начала слота (например, "10:00")
	Available      bool             // Можно ли забронировать
	FreeStylistIDs []int64          // Свободные квалифицированные стилисты
}
