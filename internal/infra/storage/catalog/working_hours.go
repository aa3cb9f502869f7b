package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// workingHoursColumn JSONB-колонка с недельным расписанием стилиста
// Формат: {"monday": {"open": "09:00", "close": "17:00"}, ...}, NULL - работает в часы салона
type workingHoursColumn struct {
	schedule domain.WeeklySchedule
}

type dayScheduleJSON struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Scan реализует sql.Scanner
func (c *workingHoursColumn) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		c.schedule = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("working_hours: unsupported type %T", src)
	}

	schedule, err := decodeWorkingHours(raw)
	if err != nil {
		return err
	}
	c.schedule = schedule
	return nil
}

func decodeWorkingHours(raw []byte) (domain.WeeklySchedule, error) {
	days := make(map[string]dayScheduleJSON)
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("working_hours: %w", err)
	}

	schedule := make(domain.WeeklySchedule, len(days))
	for name, day := range days {
		wd, ok := weekdayByName(name)
		if !ok {
			return nil, fmt.Errorf("working_hours: unknown weekday %q", name)
		}
		open, err := types.NewTimeStringFromString(day.Open)
		if err != nil {
			return nil, fmt.Errorf("working_hours: %s open: %w", name, err)
		}
		closeAt, err := types.NewTimeStringFromString(day.Close)
		if err != nil {
			return nil, fmt.Errorf("working_hours: %s close: %w", name, err)
		}
		schedule[wd] = domain.DaySchedule{Open: open, Close: closeAt}
	}
	return schedule, nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	name = strings.ToLower(name)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == name {
			return wd, true
		}
	}
	return 0, false
}
