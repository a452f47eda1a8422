package coaches

import "github.com/acebook/dashboard/internal/backend"

type CoachRow struct {
	backend.Coach
	// TelURI is empty when the stored phone cannot be parsed.
	TelURI string
}

type ListData struct {
	IsAdmin bool
	Coaches []CoachRow
}

type FormData struct {
	ID    int64
	Coach backend.CoachInput
	Error string
}

func (f FormData) IsEdit() bool {
	return f.ID > 0
}
