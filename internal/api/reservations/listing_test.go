package reservations

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/booking"
)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRange(t *testing.T) {
	today := day(5)
	tests := []struct {
		name     string
		query    string
		wantFrom time.Time
		wantTo   time.Time
		wantErr  bool
	}{
		{name: "defaults to the coming week", query: "", wantFrom: day(5), wantTo: day(11)},
		{name: "explicit range", query: "?from=2026-06-01&to=2026-06-03", wantFrom: day(1), wantTo: day(3)},
		{name: "from after to clears to", query: "?from=2026-06-10&to=2026-06-03", wantFrom: day(10)},
		{name: "cleared from", query: "?from=&to=2026-06-03", wantTo: day(3)},
		{name: "both cleared", query: "?from=&to="},
		{name: "invalid date", query: "?from=05/06/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/dashboard/reservations/list"+tt.query, nil)
			got, err := parseRange(r, today, time.UTC)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRange: %v", err)
			}
			if !got.From.Equal(tt.wantFrom) || !got.To.Equal(tt.wantTo) {
				t.Fatalf("got %v..%v, want %v..%v", got.From, got.To, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestDateRangeContainsWholeDays(t *testing.T) {
	rng := dateRange{From: day(5), To: day(6)}

	tests := []struct {
		at   time.Time
		want bool
	}{
		{at: day(4).Add(23 * time.Hour), want: false},
		{at: day(5), want: true},
		{at: day(6).Add(23*time.Hour + 59*time.Minute), want: true},
		{at: day(7), want: false},
	}
	for _, tt := range tests {
		if got := rng.Contains(tt.at); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}

	if !(dateRange{}).Contains(day(1)) {
		t.Fatal("expected open range to contain everything")
	}
}

func TestListDataVisibility(t *testing.T) {
	at := func(d, h int) time.Time { return day(d).Add(time.Duration(h) * time.Hour) }
	all := []booking.Reservation{
		{ID: 3, PlayerID: 7, Start: at(6, 18), End: at(6, 19), CourtName: "Quadra 1"},
		{ID: 1, PlayerID: 7, Start: at(5, 8), End: at(5, 9), CourtName: "Quadra 2"},
		{ID: 2, PlayerID: 8, Start: at(5, 10), End: at(5, 11)},
		{ID: 4, PlayerID: 7, Start: at(20, 10), End: at(20, 11)},
	}
	rng := dateRange{From: day(5), To: day(11)}
	current := at(5, 9)

	player := &authz.AuthUser{ID: 7, Role: authz.RolePlayer}
	data := listData(all, player, rng, current)
	if data.IsAdmin || len(data.Rows) != 2 {
		t.Fatalf("expected 2 player rows, got %+v", data.Rows)
	}
	if data.Rows[0].ID != 1 || data.Rows[1].ID != 3 {
		t.Fatalf("expected rows ordered by start, got %d, %d", data.Rows[0].ID, data.Rows[1].ID)
	}
	if data.Rows[0].CanCancel || !data.Rows[1].CanCancel {
		t.Fatal("expected only future reservations to be cancellable")
	}
	if data.Rows[0].CanEdit {
		t.Fatal("players must not edit reservations")
	}
	if data.Rows[1].Date != "06/06/2026" || data.Rows[1].TimeRange != "18:00 - 19:00" {
		t.Fatalf("unexpected formatting %+v", data.Rows[1])
	}
	if data.From != "2026-06-05" || data.To != "2026-06-11" {
		t.Fatalf("unexpected range %q..%q", data.From, data.To)
	}

	admin := &authz.AuthUser{ID: 1, Role: authz.RoleAdmin}
	data = listData(all, admin, rng, current)
	if len(data.Rows) != 3 || !data.Rows[0].CanEdit {
		t.Fatalf("expected 3 editable admin rows, got %+v", data.Rows)
	}
}
