package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrAvailabilityFetchFailed wraps lookup failures before they are logged and
// replaced with an empty occupancy set.
var ErrAvailabilityFetchFailed = errors.New("availability fetch failed")

// AvailabilityLookup reports the hours the backend considers occupied for a
// court on a calendar day (dateKey uses DateKeyLayout).
type AvailabilityLookup interface {
	Occupied(ctx context.Context, courtID int64, dateKey string) ([]string, error)
}

// LocalTakenHours collects the start hours of cached reservations on courtID
// for the calendar day of date, skipping excludeID. Days are compared by their
// DateKey in date's location rather than by timestamp arithmetic.
func LocalTakenHours(reservations []Reservation, courtID int64, date time.Time, excludeID int64) HourSet {
	taken := HourSet{}
	if courtID == 0 || date.IsZero() {
		return taken
	}

	dayKey := DateKey(date)
	for _, reservation := range reservations {
		if reservation.CourtID != courtID {
			continue
		}
		start := reservation.Start.In(date.Location())
		if DateKey(start) != dayKey {
			continue
		}
		if excludeID != 0 && reservation.ID == excludeID {
			continue
		}
		taken.Add(HourKey(start))
	}
	return taken
}

// FetchRemoteOccupancy asks lookup for the occupied hours of a court and day.
// Failures are logged and yield an empty set so the dialog stays usable.
func FetchRemoteOccupancy(ctx context.Context, lookup AvailabilityLookup, courtID int64, dateKey string) HourSet {
	if lookup == nil || courtID == 0 || dateKey == "" {
		return HourSet{}
	}

	hours, err := lookup.Occupied(ctx, courtID, dateKey)
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(errors.Join(ErrAvailabilityFetchFailed, err)).
			Int64("court_id", courtID).
			Str("date", dateKey).
			Msg("Failed to load court availability")
		return HourSet{}
	}
	return NewHourSet(hours...)
}

// MergeUnavailability unions local and remote occupancy and drops editingHour,
// the slot held by the reservation being edited.
func MergeUnavailability(local, remote HourSet, editingHour string) HourSet {
	combined := make(HourSet, len(local)+len(remote))
	for hour := range local {
		combined.Add(hour)
	}
	for hour := range remote {
		combined.Add(hour)
	}
	if editingHour != "" {
		delete(combined, editingHour)
	}
	return combined
}

// IsSlotDisabled decides whether hour may be picked. New reservations cannot
// start in the past; occupied hours are blocked unless they are the current
// selection.
func IsSlotDisabled(hour string, unavailable HourSet, selectedHour string, isEdit bool, slotStart, now time.Time) bool {
	isPastSlot := !isEdit && slotStart.Before(now)
	isTaken := unavailable.Has(hour) && hour != selectedHour
	return isPastSlot || isTaken
}

// SlotStart places hour on the calendar day of date.
func SlotStart(date time.Time, hour string) (time.Time, error) {
	value, err := HourNumber(hour)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), value, 0, 0, 0, date.Location()), nil
}

// DisabledByTime evaluates IsSlotDisabled for every option. Without a date no
// slot counts as past.
func DisabledByTime(date time.Time, options []string, unavailable HourSet, selectedHour string, isEdit bool, now time.Time) map[string]bool {
	disabled := make(map[string]bool, len(options))
	for _, hour := range options {
		slotStart := now
		if !date.IsZero() {
			if start, err := SlotStart(date, hour); err == nil {
				slotStart = start
			}
		}
		disabled[hour] = IsSlotDisabled(hour, unavailable, selectedHour, isEdit, slotStart, now)
	}
	return disabled
}
