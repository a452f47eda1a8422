package request

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"5", 5, true},
		{" 12 ", 12, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"x", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseID(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseID(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestQueryValueFallsBackToCurrentURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reservations/list", nil)
	req.Header.Set("HX-Current-URL", "http://localhost:8080/reservations?from=2025-03-10&to=2025-03-16")

	if got := QueryValue(req, "from"); got != "2025-03-10" {
		t.Fatalf("expected from header URL, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/reservations/list?from=2025-04-01", nil)
	req.Header.Set("HX-Current-URL", "http://localhost:8080/reservations?from=2025-03-10")
	if got := QueryValue(req, "from"); got != "2025-04-01" {
		t.Fatalf("expected query value to win, got %q", got)
	}
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var ok bool
	mux.HandleFunc("GET /courts/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, ok = PathID(r, "id")
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/courts/42", nil))
	if !ok || got != 42 {
		t.Fatalf("expected 42, got %d %v", got, ok)
	}
}
