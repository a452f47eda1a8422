// Package booking derives which hour slots a reservation dialog may offer for a
// court and day, and validates the final selection before it is submitted.
package booking

import (
	"sort"
	"time"
)

const (
	// DateKeyLayout is the calendar-day key shared with the backend availability endpoint.
	DateKeyLayout = "2006-01-02"
	// HourLayout identifies a slot by its starting hour.
	HourLayout = "15:04"
	// PayloadTimeLayout is the naive local timestamp the backend expects.
	PayloadTimeLayout = "2006-01-02T15:04:05"

	SlotDuration = time.Hour
)

const (
	TypeTraining    = "treino"
	TypeRecreation  = "recreativo"
	TypeTournament  = "torneio"
	TypePerformance = "performance"
)

// ReservationTypes lists the type tags accepted by the backend.
var ReservationTypes = []string{TypeTraining, TypeRecreation, TypeTournament, TypePerformance}

const (
	StatusConfirmed = "confirmada"
	StatusPending   = "pendente"
	StatusCancelled = "cancelada"
)

const (
	SurfaceClay = "saibro"
	SurfaceHard = "rápida"

	CourtAvailable   = "disponível"
	CourtMaintenance = "manutenção"
)

// Court is a bookable court with its daily operating hours as "HH:MM".
type Court struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Surface  string `json:"surface"`
	Covered  bool   `json:"covered"`
	Lights   bool   `json:"lights"`
	Status   string `json:"status"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
}

// Reservation is a booked hour on a court, in the club's wall clock.
type Reservation struct {
	ID         int64
	CourtID    int64
	CourtName  string
	PlayerID   int64
	PlayerName string
	Start      time.Time
	End        time.Time
	Status     string
	Type       string
}

// Player is a club member an admin can book for.
type Player struct {
	ID    int64
	Name  string
	Email string
}

// HourSet is a set of "HH:MM" slot identifiers.
type HourSet map[string]struct{}

// NewHourSet returns a set holding hours.
func NewHourSet(hours ...string) HourSet {
	set := make(HourSet, len(hours))
	for _, hour := range hours {
		set.Add(hour)
	}
	return set
}

// Add inserts hour; adding an existing member is a no-op.
func (s HourSet) Add(hour string) {
	s[hour] = struct{}{}
}

// Has reports whether hour is in the set.
func (s HourSet) Has(hour string) bool {
	_, ok := s[hour]
	return ok
}

// Sorted returns the members in clock order.
func (s HourSet) Sorted() []string {
	hours := make([]string, 0, len(s))
	for hour := range s {
		hours = append(hours, hour)
	}
	sort.Strings(hours)
	return hours
}

// Clock supplies the current time; tests substitute a fixed one.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return realClock{} }

// DateKey formats t as its calendar day in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// HourKey formats t as the "HH:MM" slot it starts.
func HourKey(t time.Time) string {
	return t.Format(HourLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
