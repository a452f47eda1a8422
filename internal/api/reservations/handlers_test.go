package reservations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/acebook/dashboard/internal/api/authz"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/booking"
	"github.com/acebook/dashboard/internal/email"
)

var dialogIDPattern = regexp.MustCompile(`/dashboard/reservations/dialogs/([0-9a-f-]{36})`)

type fakeMailer struct {
	sent chan string
}

func (f *fakeMailer) Send(ctx context.Context, recipient string, msg email.Message) error {
	f.sent <- recipient + "|" + msg.Subject
	return nil
}

type fakeBackend struct {
	mu       sync.Mutex
	payloads []booking.Payload
	deleted  []string
	reject   string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/courts/":
		_, _ = w.Write([]byte(`[{"id":1,"name":"Quadra 1","opens_at":"06:00","closes_at":"22:00"},{"id":2,"name":"Quadra 2","opens_at":"18:00","closes_at":"02:00"}]`))
	case r.URL.Path == "/reservations/availability/":
		if r.URL.Query().Get("court") == "1" && r.URL.Query().Get("date") == "2026-06-05" {
			_, _ = w.Write([]byte(`{"occupied":["09:00"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"occupied":[]}`))
	case r.URL.Path == "/reservations/" && r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`[
			{"id":10,"court":1,"court_name":"Quadra 1","player":8,"player_name":"Bruno","start_time":"2026-06-05T18:00:00","end_time":"2026-06-05T19:00:00","status":"confirmada"},
			{"id":11,"court":1,"court_name":"Quadra 1","player":7,"player_name":"Ana","start_time":"2026-06-05T07:00:00","end_time":"2026-06-05T08:00:00","status":"confirmada"},
			{"id":12,"court":2,"court_name":"Quadra 2","player":7,"player_name":"Ana","start_time":"2026-06-06T20:00:00","end_time":"2026-06-06T21:00:00","status":"confirmada"}
		]`))
	case r.URL.Path == "/reservations/" && r.Method == http.MethodPost:
		if f.reject != "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(f.reject))
			return
		}
		var payload booking.Payload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.payloads = append(f.payloads, payload)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 99, "court": payload.Court, "court_name": "Quadra 1", "player": 7,
			"start_time": payload.StartTime, "end_time": payload.EndTime, "status": "confirmada",
		})
	case r.URL.Path == "/club-users/":
		_, _ = w.Write([]byte(`[{"id":7,"name":"Ana","email":"ana@clube.com"},{"id":8,"name":"Bruno","email":"bruno@clube.com"}]`))
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func setup(t *testing.T) (*fakeBackend, *fakeMailer) {
	t.Helper()

	fake := &fakeBackend{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	prevClient, prevDialogs, prevMailer, prevNow := client, dialogs, mailer, now
	t.Cleanup(func() {
		client, dialogs, mailer, now = prevClient, prevDialogs, prevMailer, prevNow
	})

	mail := &fakeMailer{sent: make(chan string, 1)}
	InitHandlers(backend.New(backend.Options{BaseURL: srv.URL, Location: time.UTC}), NewDialogRegistry(time.Hour), mail)
	now = func() time.Time { return time.Date(2026, 6, 5, 8, 30, 0, 0, time.UTC) }
	return fake, mail
}

var ana = &authz.AuthUser{ID: 7, Name: "Ana", Email: "ana@clube.com", Role: authz.RolePlayer, ClubName: "Clube Ace", Token: "t"}

func as(user *authz.AuthUser, req *http.Request) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), user))
}

func openTestDialog(t *testing.T, user *authz.AuthUser) string {
	t.Helper()

	rec := httptest.NewRecorder()
	HandleNewReservation(rec, as(user, httptest.NewRequest(http.MethodGet, "/dashboard/reservations/new", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 opening dialog, got %d: %s", rec.Code, rec.Body.String())
	}
	match := dialogIDPattern.FindStringSubmatch(rec.Body.String())
	if match == nil {
		t.Fatalf("dialog id not found in %s", rec.Body.String())
	}
	return match[1]
}

func postField(user *authz.AuthUser, dialogID, field string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/dashboard/reservations/dialogs/"+dialogID+"/"+field, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("dialog", dialogID)
	req.SetPathValue("field", field)
	rec := httptest.NewRecorder()
	HandleDialogField(rec, as(user, req))
	return rec
}

func submit(user *authz.AuthUser, dialogID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/dashboard/reservations/dialogs/"+dialogID, nil)
	req.SetPathValue("dialog", dialogID)
	rec := httptest.NewRecorder()
	HandleDialogSubmit(rec, as(user, req))
	return rec
}

func disabledHours(t *testing.T, dialogID string, user *authz.AuthUser) []string {
	t.Helper()
	session, ok := dialogs.Get(dialogID, user.ID)
	if !ok {
		t.Fatal("dialog not registered")
	}
	var hours []string
	for _, option := range session.View().Options {
		if option.Disabled {
			hours = append(hours, option.Hour)
		}
	}
	return hours
}

func TestNewDialogMergesOccupancy(t *testing.T) {
	setup(t)
	dialogID := openTestDialog(t, ana)

	got := strings.Join(disabledHours(t, dialogID, ana), ",")
	want := "06:00,07:00,08:00,09:00,18:00"
	if got != want {
		t.Fatalf("disabled hours = %s, want %s", got, want)
	}
}

func TestDialogFieldChanges(t *testing.T) {
	setup(t)
	dialogID := openTestDialog(t, ana)

	rec := postField(ana, dialogID, "hour", url.Values{"hour": {"09:00"}})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "não está mais disponível") {
		t.Fatalf("expected occupied hour to be refused, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postField(ana, dialogID, "date", url.Values{"date": {"2026-06-09"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected players to be kept on today, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postField(ana, dialogID, "court", url.Values{"court": {"2"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 switching court, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "01:00") {
		t.Fatalf("expected overnight slots for court 2, got %s", rec.Body.String())
	}

	rec = postField(ana, dialogID, "unknown", url.Values{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown field, got %d", rec.Code)
	}
}

var carla = &authz.AuthUser{ID: 1, Name: "Carla", Email: "carla@clube.com", Role: authz.RoleAdmin, ClubName: "Clube Ace", Token: "t"}

func TestDialogDateIsAdminOnly(t *testing.T) {
	setup(t)

	rec := httptest.NewRecorder()
	HandleNewReservation(rec, as(ana, httptest.NewRequest(http.MethodGet, "/dashboard/reservations/new", nil)))
	if strings.Contains(rec.Body.String(), `type="date"`) || !strings.Contains(rec.Body.String(), "05/06/2026") {
		t.Fatalf("expected players to see today's date without a picker, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	HandleNewReservation(rec, as(carla, httptest.NewRequest(http.MethodGet, "/dashboard/reservations/new", nil)))
	if !strings.Contains(rec.Body.String(), `type="date"`) {
		t.Fatalf("expected admins to get a date picker, got %s", rec.Body.String())
	}

	dialogID := openTestDialog(t, carla)
	rec = postField(carla, dialogID, "date", url.Values{"date": {"2026-06-04"}})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Escolha uma data a partir de hoje.") {
		t.Fatalf("expected past date to be refused, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = postField(carla, dialogID, "date", url.Values{"date": {"2026-06-09"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected admin to move the dialog, got %d: %s", rec.Code, rec.Body.String())
	}
	session, _ := dialogs.Get(dialogID, carla.ID)
	if got := booking.DateKey(session.View().Date); got != "2026-06-09" {
		t.Fatalf("expected date 2026-06-09, got %q", got)
	}
}

func TestDialogSubmitCreatesReservation(t *testing.T) {
	fake, mail := setup(t)
	dialogID := openTestDialog(t, ana)

	if rec := postField(ana, dialogID, "hour", url.Values{"hour": {"10:00"}}); rec.Code != http.StatusOK {
		t.Fatalf("expected hour to be accepted, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := submit(ana, dialogID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "reservations-changed") {
		t.Fatalf("expected reservations-changed trigger, got %q", rec.Header().Get("HX-Trigger"))
	}

	fake.mu.Lock()
	payloads := fake.payloads
	fake.mu.Unlock()
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	got := payloads[0]
	if got.Court != 1 || got.StartTime != "2026-06-05T10:00:00" || got.EndTime != "2026-06-05T11:00:00" || got.Player != nil || got.ID != nil {
		t.Fatalf("unexpected payload %+v", got)
	}

	if _, ok := dialogs.Get(dialogID, ana.ID); ok {
		t.Fatal("expected dialog to be closed after submit")
	}

	select {
	case sent := <-mail.sent:
		if sent != "ana@clube.com|Reserva confirmada - Clube Ace" {
			t.Fatalf("unexpected email %q", sent)
		}
	case <-time.After(time.Second):
		t.Fatal("expected confirmation email")
	}
}

func TestDialogSubmitKeepsDialogOpenOnErrors(t *testing.T) {
	fake, _ := setup(t)
	dialogID := openTestDialog(t, ana)

	rec := submit(ana, dialogID)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Preencha todos os campos para continuar.") {
		t.Fatalf("expected incomplete selection error, got %d: %s", rec.Code, rec.Body.String())
	}

	fake.mu.Lock()
	fake.reject = `{"detail":"Horário já reservado."}`
	fake.mu.Unlock()

	postField(ana, dialogID, "hour", url.Values{"hour": {"11:00"}})
	rec = submit(ana, dialogID)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Horário já reservado.") {
		t.Fatalf("expected backend message, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := dialogs.Get(dialogID, ana.ID); !ok {
		t.Fatal("expected dialog to stay open")
	}
}

func TestDialogOwnedByAnotherUser(t *testing.T) {
	setup(t)
	dialogID := openTestDialog(t, ana)

	bruno := &authz.AuthUser{ID: 8, Role: authz.RolePlayer, Token: "t"}
	rec := submit(bruno, dialogID)
	if rec.Code != http.StatusGone {
		t.Fatalf("expected 410, got %d", rec.Code)
	}
}

func TestCancelReservation(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantDelete bool
	}{
		{name: "own future reservation", id: "12", wantStatus: http.StatusOK, wantDelete: true},
		{name: "already started", id: "11", wantStatus: http.StatusUnprocessableEntity},
		{name: "someone else's reservation", id: "10", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, _ := setup(t)

			req := httptest.NewRequest(http.MethodDelete, "/dashboard/reservations/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()
			HandleCancelReservation(rec, as(ana, req))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			fake.mu.Lock()
			deleted := len(fake.deleted)
			fake.mu.Unlock()
			if (deleted == 1) != tt.wantDelete {
				t.Fatalf("unexpected deletes %v", fake.deleted)
			}
		})
	}
}

func TestReservationsListForPlayer(t *testing.T) {
	setup(t)

	rec := httptest.NewRecorder()
	HandleReservationsList(rec, as(ana, httptest.NewRequest(http.MethodGet, "/dashboard/reservations/list", nil)))

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(body, "Bruno") {
		t.Fatal("players must only see their own reservations")
	}
	if !strings.Contains(body, "2 reserva(s) encontradas") {
		t.Fatalf("expected two reservations, got %s", body)
	}
}
