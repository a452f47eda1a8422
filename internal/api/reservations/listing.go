package reservations

import (
	"net/http"
	"sort"
	"time"

	"github.com/acebook/dashboard/internal/api/apiutil"
	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/booking"
	restempl "github.com/acebook/dashboard/internal/templates/components/reservations"
)

// defaultRangeDays is the span shown when the page opens: today plus six days.
const defaultRangeDays = 6

// dateRange bounds a listing by calendar day. A zero side is open.
type dateRange struct {
	From time.Time
	To   time.Time
}

// parseRange reads the from/to filter. Without either parameter the range
// defaults to the coming week. A from after to clears to.
func parseRange(r *http.Request, today time.Time, loc *time.Location) (dateRange, error) {
	query := r.URL.Query()
	if !query.Has("from") && !query.Has("to") {
		return dateRange{From: today, To: today.AddDate(0, 0, defaultRangeDays)}, nil
	}

	var rng dateRange
	if raw := query.Get("from"); raw != "" {
		from, err := apiutil.ParseDateField(raw, "from", loc)
		if err != nil {
			return dateRange{}, err
		}
		rng.From = from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := apiutil.ParseDateField(raw, "to", loc)
		if err != nil {
			return dateRange{}, err
		}
		rng.To = to
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.From.After(rng.To) {
		rng.To = time.Time{}
	}
	return rng, nil
}

// Contains reports whether t falls on a day inside the range.
func (d dateRange) Contains(t time.Time) bool {
	if !d.From.IsZero() && t.Before(d.From) {
		return false
	}
	if !d.To.IsZero() && !t.Before(d.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return booking.DateKey(t)
}

// visibleReservations keeps what user may see inside rng, ordered by start.
func visibleReservations(all []booking.Reservation, user *authz.AuthUser, rng dateRange) []booking.Reservation {
	out := make([]booking.Reservation, 0, len(all))
	for _, reservation := range all {
		if !authz.CanViewReservation(user, reservation.PlayerID) {
			continue
		}
		if !rng.Contains(reservation.Start) {
			continue
		}
		out = append(out, reservation)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func timeRange(reservation booking.Reservation) string {
	return reservation.Start.Format("15:04") + " - " + reservation.End.Format("15:04")
}

func listData(all []booking.Reservation, user *authz.AuthUser, rng dateRange, now time.Time) restempl.ListData {
	isAdmin := authz.IsAdmin(user)
	data := restempl.ListData{
		IsAdmin: isAdmin,
		From:    formatDay(rng.From),
		To:      formatDay(rng.To),
	}
	for _, reservation := range visibleReservations(all, user, rng) {
		data.Rows = append(data.Rows, restempl.Row{
			ID:         reservation.ID,
			Date:       reservation.Start.Format("02/01/2006"),
			TimeRange:  timeRange(reservation),
			PlayerName: reservation.PlayerName,
			CourtName:  reservation.CourtName,
			Status:     reservation.Status,
			CanEdit:    isAdmin,
			CanCancel:  reservation.Start.After(now),
		})
	}
	return data
}
