package dashboard

type Shortcut struct {
	Title       string
	Description string
	Href        string
	CTA         string
}

// Stats is the admin summary for the current day.
type Stats struct {
	Courts            int
	CourtsAvailable   int
	TodayReservations int
	Players           int
}

type UpcomingReservation struct {
	Date  string
	Hour  string
	Court string
	Type  string
}

type DashboardData struct {
	IsAdmin   bool
	UserName  string
	Shortcuts []Shortcut
	Upcoming  []UpcomingReservation
}
