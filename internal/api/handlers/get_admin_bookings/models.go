package get_admin_bookings

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задаёт один день и имеет приоритет над from/to
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		Status: handlers.QueryString(r, "status"),
	}

	var err error
	if req.StartDate, err = handlers.QueryDate(r, "from"); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if req.EndDate, err = handlers.QueryDate(r, "to"); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	if date != nil {
		req.StartDate = date
		req.EndDate = date
	}

	if req.StylistID, err = handlers.QueryID(r, "stylistId"); err != nil {
		return nil, fmt.Errorf("stylistId: %w", err)
	}
	if req.UserID, err = handlers.QueryID(r, "userId"); err != nil {
		return nil, fmt.Errorf("userId: %w", err)
	}

	if raw := handlers.QueryString(r, "includeInactive"); raw != nil {
		includeInactive, err := strconv.ParseBool(*raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
