package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/booking"
)

var testLoc = time.FixedZone("BRT", -3*60*60)

func fakeBackend(t *testing.T, failUsers bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/courts/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" && r.Header.Get("Authorization") != "Bearer player-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Central","status":"disponível"},
			{"id":2,"name":"Quadra 2","status":"manutenção"}
		]`))
	})
	mux.HandleFunc("/reservations/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"court":1,"court_name":"Central","player":4,"start_time":"2025-03-10T08:00:00","status":"confirmada","type":"treino"},
			{"id":2,"court":1,"court_name":"Central","player":5,"start_time":"2025-03-10T09:00:00","status":"cancelada","type":"treino"},
			{"id":3,"court":1,"court_name":"Central","player":4,"start_time":"2025-03-11T18:00:00","status":"confirmada","type":"torneio"},
			{"id":4,"court":1,"court_name":"Central","player":4,"start_time":"2025-03-09T18:00:00","status":"confirmada","type":"treino"}
		]`))
	})
	mux.HandleFunc("/club-users/", func(w http.ResponseWriter, r *http.Request) {
		if failUsers {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("role") != "player" {
			t.Errorf("expected role=player filter, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"id":4,"name":"Ana"},{"id":5,"name":"Bruno"},{"id":6,"name":"Caio"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T, failUsers bool) {
	t.Helper()
	srv := fakeBackend(t, failUsers)
	prevClient, prevNow := client, now
	t.Cleanup(func() {
		client, now = prevClient, prevNow
	})
	InitHandlers(backend.New(backend.Options{BaseURL: srv.URL, Location: testLoc}))
	now = func() time.Time { return time.Date(2025, 3, 10, 7, 30, 0, 0, testLoc) }
}

func withUser(req *http.Request, user *authz.AuthUser) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), user))
}

func TestLoadStats(t *testing.T) {
	setup(t, false)

	api := client.WithToken("admin-token")
	stats, err := loadStats(context.Background(), api, now())
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if stats.Courts != 2 || stats.CourtsAvailable != 1 {
		t.Fatalf("unexpected court counts %+v", stats)
	}
	if stats.TodayReservations != 1 {
		t.Fatalf("expected 1 reservation today, got %d", stats.TodayReservations)
	}
	if stats.Players != 3 {
		t.Fatalf("expected 3 players, got %d", stats.Players)
	}
}

func TestHandleDashboardStatsFailure(t *testing.T) {
	setup(t, true)

	req := withUser(httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil), &authz.AuthUser{ID: 1, Role: authz.RoleAdmin, Token: "admin-token"})
	rec := httptest.NewRecorder()
	HandleDashboardStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Não foi possível carregar o resumo.") {
		t.Fatalf("expected fallback panel, got %s", rec.Body.String())
	}
}

func TestHandleDashboardPagePlayer(t *testing.T) {
	setup(t, false)

	req := withUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), &authz.AuthUser{ID: 4, Name: "Ana", Role: authz.RolePlayer, Token: "player-token"})
	rec := httptest.NewRecorder()
	HandleDashboardPage(rec, req)

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, body)
	}
	if !strings.Contains(body, "Bem-vindo de volta!") {
		t.Fatalf("expected player greeting, got %s", body)
	}
	if strings.Contains(body, "/dashboard/stats") {
		t.Fatal("player page must not load admin stats")
	}
	if !strings.Contains(body, "10/03/2025 08:00") || !strings.Contains(body, "11/03/2025 18:00") {
		t.Fatalf("expected upcoming reservations, got %s", body)
	}
	if strings.Contains(body, "09/03/2025") {
		t.Fatal("past reservations must not be listed")
	}
}

func TestHandleDashboardPageAnonymous(t *testing.T) {
	setup(t, false)

	rec := httptest.NewRecorder()
	HandleDashboardPage(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
}

func TestUpcomingLimit(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, testLoc)
	var rows []booking.Reservation
	for i := 5; i >= 0; i-- {
		rows = append(rows, booking.Reservation{ID: int64(i), PlayerID: 4, Start: from.Add(time.Duration(i+1) * time.Hour), CourtName: "Central"})
	}
	got := upcoming(rows, 4, from)
	if len(got) != upcomingLimit {
		t.Fatalf("expected %d rows, got %d", upcomingLimit, len(got))
	}
	if got[0].Hour != "01:00" {
		t.Fatalf("expected earliest first, got %s", got[0].Hour)
	}
}
