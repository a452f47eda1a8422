package email

import (
	"fmt"
	"strings"
	"time"
)

const (
	KindConfirmation = "confirmation"
	KindCancellation = "cancellation"
)

// Message is a rendered reservation email.
type Message struct {
	Kind          string
	ReservationID int64
	Subject       string
	Body          string
}

// tagKind is the SES tag value; SES tags must not be empty.
func (m Message) tagKind() string {
	if m.Kind == "" {
		return "reservation"
	}
	return m.Kind
}

type ReservationDetails struct {
	ReservationID int64
	ClubName   string
	PlayerName string
	Court      string
	Start      time.Time
	End        time.Time
}

var weekdays = [...]string{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"}

// FormatDateTimeRange renders start and end the way the dashboard shows them,
// e.g. "sexta-feira, 05/06/2026" and "18:00 - 19:00".
func FormatDateTimeRange(start, end time.Time) (string, string) {
	date := fmt.Sprintf("%s, %s", weekdays[start.Weekday()], start.Format("02/01/2006"))
	if end.IsZero() || !end.After(start) {
		return date, start.Format("15:04")
	}
	return date, fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04"))
}

func BuildReservationConfirmation(details ReservationDetails) Message {
	return buildReservationEmail(KindConfirmation, "Reserva confirmada", "Sua reserva está confirmada.", details)
}

func BuildReservationCancellation(details ReservationDetails) Message {
	return buildReservationEmail(KindCancellation, "Reserva cancelada", "Sua reserva foi cancelada.", details)
}

func buildReservationEmail(kind, subjectPrefix, headline string, details ReservationDetails) Message {
	clubName := strings.TrimSpace(details.ClubName)
	if clubName == "" {
		clubName = "seu clube"
	}
	court := strings.TrimSpace(details.Court)
	if court == "" {
		court = "a definir"
	}
	date, timeRange := FormatDateTimeRange(details.Start, details.End)

	greeting := "Olá!"
	if name := strings.TrimSpace(details.PlayerName); name != "" {
		greeting = fmt.Sprintf("Olá, %s!", name)
	}

	lines := []string{
		greeting,
		"",
		headline,
		"",
		fmt.Sprintf("Clube: %s", clubName),
		fmt.Sprintf("Quadra: %s", court),
		fmt.Sprintf("Data: %s", date),
		fmt.Sprintf("Horário: %s", timeRange),
	}

	return Message{
		Kind:          kind,
		ReservationID: details.ReservationID,
		Subject: fmt.Sprintf("%s - %s", subjectPrefix, clubName),
		Body:    strings.Join(lines, "\n"),
	}
}
