package apiutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acebook/dashboard/internal/backend"
)

func TestParsePositiveInt64Field(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "12", want: 12},
		{raw: " 3 ", want: 3},
		{raw: "", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-4", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePositiveInt64Field(tt.raw, "court")
		if tt.wantErr {
			var fieldErr FieldError
			if !errors.As(err, &fieldErr) || fieldErr.Field != "court" {
				t.Fatalf("%q: expected FieldError for court, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: expected %d, got %d (%v)", tt.raw, tt.want, got, err)
		}
	}

	if got, err := ParseOptionalInt64Field("  ", "player"); err != nil || got != 0 {
		t.Fatalf("blank optional field: got %d, %v", got, err)
	}
}

func TestParseDateField(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := ParseDateField("2025-03-10", "date", loc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected date %v", got)
	}

	if _, err := ParseDateField("10/03/2025", "date", loc); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestParseClockField(t *testing.T) {
	if got, err := ParseClockField("6:00", "opens_at"); err != nil || got != "06:00" {
		t.Fatalf("expected unpadded hour to normalize to 06:00, got %q (%v)", got, err)
	}
	got, err := ParseClockField(" 06:00 ", "opens_at")
	if err != nil || got != "06:00" {
		t.Fatalf("expected 06:00, got %q (%v)", got, err)
	}
	if _, err := ParseClockField("25:00", "opens_at"); err == nil {
		t.Fatal("expected error for 25:00")
	}
}

func TestBackendError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: backend.APIError{Status: 400, Message: "Horário indisponível."}, wantStatus: 422, wantMsg: "Horário indisponível."},
		{name: "not found", err: backend.APIError{Status: 404, Message: "Não encontrado."}, wantStatus: 404, wantMsg: "Não encontrado."},
		{name: "server", err: backend.APIError{Status: 500, Message: "Falha ao chamar /courts/"}, wantStatus: 502, wantMsg: "Falha ao chamar /courts/"},
		{name: "transport", err: errors.New("dial tcp: refused"), wantStatus: 502, wantMsg: msgBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BackendError(tt.err)
			if got.Status != tt.wantStatus || got.Message != tt.wantMsg {
				t.Fatalf("expected %d %q, got %d %q", tt.wantStatus, tt.wantMsg, got.Status, got.Message)
			}
		})
	}
}

func TestWriteErrorUnauthorizedRedirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/courts", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, backend.APIError{Status: http.StatusUnauthorized, Message: "Token inválido"})

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %v", rec.Code, rec.Header())
	}
}

func TestWriteErrorHTMXToast(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/courts", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	WriteError(rec, req, HandlerError{Status: http.StatusUnprocessableEntity, Message: "Informe o nome da quadra."})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Trigger") == "" {
		t.Fatal("expected toast trigger")
	}
}
