package reservations

import "github.com/acebook/dashboard/internal/booking"

// Row is one reservation as listed in the table.
type Row struct {
	ID         int64
	Date       string
	TimeRange  string
	PlayerName string
	CourtName  string
	Status     string
	CanEdit    bool
	CanCancel  bool
}

type ListData struct {
	IsAdmin bool
	// From and To are YYYY-MM-DD; empty means the side is open.
	From string
	To   string
	Rows []Row
}

type SlotsData struct {
	DialogID    string
	IsAdmin     bool
	Options     []booking.SlotOption
	AllDisabled bool
	Error       string
}

type DialogData struct {
	DialogID string
	IsEdit   bool
	IsAdmin  bool
	Date     string
	MinDate  string
	CourtID  int64
	PlayerID int64
	Courts   []booking.Court
	Players  []booking.Player
	Slots    SlotsData
	Error    string
}

type CancelData struct {
	ID         int64
	PlayerName string
	CourtName  string
	Date       string
	TimeRange  string
}
