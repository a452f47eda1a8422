package booking

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrSubmitInFlight  = errors.New("reservation submit already in progress")
	ErrSessionClosed   = errors.New("reservation dialog is closed")
	ErrPastDate        = errors.New("date is before today")
	ErrDateLocked      = errors.New("only admins can change the reservation date")
	ErrUnknownHour     = errors.New("hour is not offered for this court")
	ErrSlotUnavailable = errors.New("hour is not available")
)

// SessionConfig seeds a Session. Courts, Players and Reservations are loaded by
// the caller and treated as read-only.
type SessionConfig struct {
	Courts          []Court
	Players         []Player
	Reservations    []Reservation
	CurrentPlayerID int64
	IsAdmin         bool
	// Initial is the reservation being edited; nil opens the dialog for a new one.
	Initial   *Reservation
	Lookup    AvailabilityLookup
	Submitter Submitter
	Clock     Clock
}

// OccupancyRequest identifies one remote availability fetch. Its result only
// applies while Generation is still the session's current generation.
type OccupancyRequest struct {
	Generation uint64
	CourtID    int64
	DateKey    string
}

type SlotOption struct {
	Hour     string
	Disabled bool
	Selected bool
}

// SlotView is the derived state rendered by the dialog.
type SlotView struct {
	Date         time.Time
	CourtID      int64
	PlayerID     int64
	SelectedHour string
	IsEdit       bool
	IsAdmin      bool
	Options      []SlotOption
	Unavailable  []string
	// AllDisabled is true when every offered hour is blocked.
	AllDisabled bool
}

// Session holds the state of one open reservation dialog: the user's current
// selection, the last applied remote occupancy and the submit guard.
type Session struct {
	mu sync.Mutex

	courts          []Court
	players         []Player
	reservations    []Reservation
	currentPlayerID int64
	isAdmin         bool
	initial         *Reservation
	lookup          AvailabilityLookup
	submitter       Submitter
	clock           Clock

	date     time.Time
	hour     string
	courtID  int64
	playerID int64

	generation uint64
	remote     HourSet
	saving     bool
	closed     bool
}

func NewSession(cfg SessionConfig) *Session {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	now := clock.Now()

	s := &Session{
		courts:          cfg.Courts,
		players:         cfg.Players,
		reservations:    cfg.Reservations,
		currentPlayerID: cfg.CurrentPlayerID,
		isAdmin:         cfg.IsAdmin,
		lookup:          cfg.Lookup,
		submitter:       cfg.Submitter,
		clock:           clock,
		remote:          HourSet{},
	}

	if cfg.Initial != nil {
		initial := *cfg.Initial
		initial.Start = initial.Start.In(now.Location())
		initial.End = initial.End.In(now.Location())
		s.initial = &initial
		s.date = StartOfDay(initial.Start)
		s.hour = HourKey(initial.Start)
		s.courtID = initial.CourtID
		s.playerID = initial.PlayerID
		return s
	}

	s.date = StartOfDay(now)
	if len(cfg.Courts) > 0 {
		s.courtID = cfg.Courts[0].ID
	}
	if !cfg.IsAdmin {
		s.playerID = cfg.CurrentPlayerID
	}
	return s
}

func (s *Session) IsEdit() bool {
	return s.initial != nil
}

// Generation returns the counter that OccupancyRequests are checked against.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SelectDate moves the dialog to another day. Players always book for today,
// so only admin sessions may call it. Days before today are rejected. The
// selected hour is cleared and any in-flight occupancy fetch is superseded.
func (s *Session) SelectDate(date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isAdmin {
		return ErrDateLocked
	}
	day := StartOfDay(date.In(s.clock.Now().Location()))
	if day.Before(StartOfDay(s.clock.Now())) {
		return ErrPastDate
	}
	s.date = day
	s.hour = ""
	s.generation++
	return nil
}

// SelectCourt switches the court, clears the selected hour and supersedes any
// in-flight occupancy fetch.
func (s *Session) SelectCourt(courtID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courtID = courtID
	s.hour = ""
	s.generation++
}

// SelectHour picks a slot among the currently enabled options.
func (s *Session) SelectHour(hour string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.viewLocked()
	for _, option := range view.Options {
		if option.Hour != hour {
			continue
		}
		if option.Disabled {
			return ErrSlotUnavailable
		}
		s.hour = hour
		return nil
	}
	return ErrUnknownHour
}

func (s *Session) SelectPlayer(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerID = playerID
}

// BeginOccupancyFetch describes the fetch the current selection needs. When no
// court or date is selected the remote set is reset and ok is false.
func (s *Session) BeginOccupancyFetch() (OccupancyRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.courtID == 0 || s.date.IsZero() {
		s.remote = HourSet{}
		return OccupancyRequest{}, false
	}
	return OccupancyRequest{
		Generation: s.generation,
		CourtID:    s.courtID,
		DateKey:    DateKey(s.date),
	}, true
}

// ApplyOccupancy stores hours as the remote occupancy if req is still current.
// It reports whether the result was applied.
func (s *Session) ApplyOccupancy(req OccupancyRequest, hours HourSet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Generation != s.generation || s.closed {
		return false
	}
	if hours == nil {
		hours = HourSet{}
	}
	s.remote = hours
	return true
}

// RefreshOccupancy fetches remote occupancy for the current selection and
// applies it unless the selection changed while the fetch was running.
func (s *Session) RefreshOccupancy(ctx context.Context) bool {
	req, ok := s.BeginOccupancyFetch()
	if !ok {
		return true
	}
	hours := FetchRemoteOccupancy(ctx, s.lookup, req.CourtID, req.DateKey)
	return s.ApplyOccupancy(req, hours)
}

// View recomputes the slot options for the current selection. A selected hour
// the current court no longer offers is cleared.
func (s *Session) View() SlotView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() SlotView {
	court := s.currentCourt()
	options := HourOptions(court)
	if s.hour != "" && !ContainsHour(options, s.hour) {
		s.hour = ""
	}

	var excludeID int64
	editingHour := ""
	if s.initial != nil {
		excludeID = s.initial.ID
		editingHour = HourKey(s.initial.Start)
	}
	local := LocalTakenHours(s.reservations, s.courtID, s.date, excludeID)
	unavailable := MergeUnavailability(local, s.remote, editingHour)
	disabled := DisabledByTime(s.date, options, unavailable, s.hour, s.initial != nil, s.clock.Now())

	view := SlotView{
		Date:         s.date,
		CourtID:      s.courtID,
		PlayerID:     s.playerID,
		SelectedHour: s.hour,
		IsEdit:       s.initial != nil,
		IsAdmin:      s.isAdmin,
		Options:      make([]SlotOption, 0, len(options)),
		Unavailable:  unavailable.Sorted(),
		AllDisabled:  len(options) > 0,
	}
	for _, hour := range options {
		option := SlotOption{
			Hour:     hour,
			Disabled: disabled[hour],
			Selected: hour == s.hour,
		}
		if !option.Disabled {
			view.AllDisabled = false
		}
		view.Options = append(view.Options, option)
	}
	return view
}

// Selection snapshots the values BuildPayload validates.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

func (s *Session) selectionLocked() Selection {
	return Selection{
		Date:     s.date,
		Hour:     s.hour,
		CourtID:  s.courtID,
		PlayerID: s.playerID,
		IsAdmin:  s.isAdmin,
		Original: s.initial,
	}
}

// Submit validates the selection and hands the payload to the Submitter. Only
// one submit may be in flight; a successful submit closes the session.
func (s *Session) Submit(ctx context.Context) (Reservation, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Reservation{}, ErrSessionClosed
	}
	if s.saving {
		s.mu.Unlock()
		return Reservation{}, ErrSubmitInFlight
	}
	payload, err := BuildPayload(s.selectionLocked(), s.courts, s.clock.Now())
	if err != nil {
		s.mu.Unlock()
		return Reservation{}, err
	}
	if s.submitter == nil {
		s.mu.Unlock()
		return Reservation{}, SubmitError{Message: "Não foi possível salvar a reserva."}
	}
	s.saving = true
	s.mu.Unlock()

	saved, err := s.submitter.SubmitReservation(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		var submitErr SubmitError
		if errors.As(err, &submitErr) {
			return Reservation{}, submitErr
		}
		return Reservation{}, SubmitError{Message: err.Error(), Err: err}
	}
	s.closed = true
	return saved, nil
}

// IsSaving reports whether a submit is in flight.
func (s *Session) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Courts returns the courts the dialog was opened with.
func (s *Session) Courts() []Court {
	return s.courts
}

// Players returns the players an admin may book for.
func (s *Session) Players() []Player {
	return s.players
}

func (s *Session) currentCourt() *Court {
	for i := range s.courts {
		if s.courts[i].ID == s.courtID {
			return &s.courts[i]
		}
	}
	return nil
}
