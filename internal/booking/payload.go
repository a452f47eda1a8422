package booking

import (
	"context"
	"errors"
	"time"
)

var (
	ErrIncompleteSelection = errors.New("date, hour and court are required")
	ErrMissingPlayer       = errors.New("player is required")
	ErrInvalidCourt        = errors.New("court not found")
	ErrPastSlot            = errors.New("slot is not in the future")
)

// Selection is what the dialog holds when the user confirms.
type Selection struct {
	Date     time.Time
	Hour     string
	CourtID  int64
	PlayerID int64
	IsAdmin  bool
	// Original is the reservation being edited, nil for a new booking.
	Original *Reservation
}

func (s Selection) IsEdit() bool {
	return s.Original != nil
}

// Payload is the body sent to the backend to create or update a reservation.
type Payload struct {
	ID        *int64 `json:"id,omitempty"`
	Court     int64  `json:"court"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`
	Player    *int64 `json:"player,omitempty"`
}

// Submitter stores a reservation payload and returns the canonical record.
type Submitter interface {
	SubmitReservation(ctx context.Context, payload Payload) (Reservation, error)
}

// SubmitError carries a backend rejection whose message is shown to the user as is.
type SubmitError struct {
	Message string
	Err     error
}

func (e SubmitError) Error() string {
	return e.Message
}

func (e SubmitError) Unwrap() error {
	return e.Err
}

// BuildPayload validates sel against courts and now, in order: completeness,
// player (admins book on behalf of someone), court, then future start for new
// reservations.
func BuildPayload(sel Selection, courts []Court, now time.Time) (Payload, error) {
	if sel.Date.IsZero() || sel.Hour == "" || sel.CourtID == 0 {
		return Payload{}, ErrIncompleteSelection
	}
	if sel.IsAdmin && sel.PlayerID == 0 {
		return Payload{}, ErrMissingPlayer
	}

	court, ok := findCourt(courts, sel.CourtID)
	if !ok {
		return Payload{}, ErrInvalidCourt
	}

	start, err := SlotStart(sel.Date, sel.Hour)
	if err != nil {
		return Payload{}, ErrIncompleteSelection
	}
	if !sel.IsEdit() && !start.After(now) {
		return Payload{}, ErrPastSlot
	}

	payload := Payload{
		Court:     court.ID,
		StartTime: start.Format(PayloadTimeLayout),
		EndTime:   start.Add(SlotDuration).Format(PayloadTimeLayout),
		Type:      TypeTraining,
	}
	if sel.Original != nil {
		id := sel.Original.ID
		payload.ID = &id
		if sel.Original.Type != "" {
			payload.Type = sel.Original.Type
		}
	}
	if sel.IsAdmin {
		playerID := sel.PlayerID
		payload.Player = &playerID
	}
	return payload, nil
}

// UserMessage returns the text shown to the user for a validation or submit error.
func UserMessage(err error) string {
	var submitErr SubmitError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIncompleteSelection):
		return "Preencha todos os campos para continuar."
	case errors.Is(err, ErrMissingPlayer):
		return "Escolha um jogador"
	case errors.Is(err, ErrInvalidCourt):
		return "Selecione uma quadra válida."
	case errors.Is(err, ErrPastSlot):
		return "Escolha um horário futuro."
	case errors.Is(err, ErrSubmitInFlight):
		return "Aguarde, a reserva está sendo salva."
	case errors.As(err, &submitErr) && submitErr.Message != "":
		return submitErr.Message
	default:
		return "Não foi possível salvar a reserva."
	}
}

func findCourt(courts []Court, id int64) (Court, bool) {
	for _, court := range courts {
		if court.ID == id {
			return court, true
		}
	}
	return Court{}, false
}
