package courts

import (
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/booking"
)

type ListData struct {
	IsAdmin bool
	Courts  []booking.Court
}

type FormData struct {
	ID    int64
	Court backend.CourtInput
	Error string
}

func (f FormData) IsEdit() bool {
	return f.ID > 0
}

// DefaultForm is the blank court offered by "Nova quadra".
func DefaultForm() FormData {
	return FormData{Court: backend.CourtInput{
		Surface:  booking.SurfaceClay,
		Status:   booking.CourtAvailable,
		OpensAt:  "06:00",
		ClosesAt: "22:00",
	}}
}

// HourOptions lists every whole hour for the opening-time selects.
func HourOptions() []string {
	return booking.FallbackHours()
}
