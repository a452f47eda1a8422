package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/acebook/dashboard/internal/booking"
)

const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

type Club struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Club     *Club  `json:"club"`
}

type Coach struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CoachInput is the writable part of a coach.
type CoachInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CourtInput is the writable part of a court.
type CourtInput struct {
	Name     string `json:"name"`
	Surface  string `json:"surface"`
	Covered  bool   `json:"covered"`
	Lights   bool   `json:"lights"`
	Status   string `json:"status"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
}

// Reservation is the backend representation; timestamps are kept as sent.
type Reservation struct {
	ID         int64  `json:"id"`
	Court      int64  `json:"court"`
	CourtName  string `json:"court_name"`
	Player     int64  `json:"player"`
	PlayerName string `json:"player_name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	Type       string `json:"type"`
}

type UserUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name,omitempty"`
	ClubSlug string `json:"club_slug,omitempty"`
	ClubName string `json:"club_name,omitempty"`
}

type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type availabilityResponse struct {
	Occupied []string `json:"occupied"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp reads a backend timestamp. Values without an offset are
// interpreted in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339Nano {
			parsed, err := time.Parse(layout, raw)
			if err == nil {
				return parsed.In(loc), nil
			}
			continue
		}
		parsed, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// Booking converts r to the engine's reservation type.
func (r Reservation) Booking(loc *time.Location) (booking.Reservation, error) {
	start, err := ParseTimestamp(r.StartTime, loc)
	if err != nil {
		return booking.Reservation{}, fmt.Errorf("reservation %d start_time: %w", r.ID, err)
	}
	end, err := ParseTimestamp(r.EndTime, loc)
	if err != nil {
		end = start.Add(booking.SlotDuration)
	}
	return booking.Reservation{
		ID:         r.ID,
		CourtID:    r.Court,
		CourtName:  r.CourtName,
		PlayerID:   r.Player,
		PlayerName: r.PlayerName,
		Start:      start,
		End:        end,
		Status:     r.Status,
		Type:       r.Type,
	}, nil
}

// BookingReservations converts a backend list, skipping entries with unreadable
// timestamps.
func BookingReservations(rows []Reservation, loc *time.Location) []booking.Reservation {
	out := make([]booking.Reservation, 0, len(rows))
	for _, row := range rows {
		converted, err := row.Booking(loc)
		if err != nil {
			continue
		}
		out = append(out, converted)
	}
	return out
}
