package htmx

import (
	"encoding/json"
	"net/http"
	"strings"
)

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Trigger adds events to the HX-Trigger header. Events already set on w are kept.
func Trigger(w http.ResponseWriter, events map[string]any) {
	merged := map[string]any{}
	if existing := w.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			merged = map[string]any{existing: nil}
		}
	}
	for name, detail := range events {
		merged[name] = detail
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(encoded))
}

// Toast asks the page to show a transient message. kind is success, error or info.
func Toast(w http.ResponseWriter, kind, message string) {
	Trigger(w, map[string]any{"toast": map[string]string{"kind": kind, "message": message}})
}

// Redirect navigates htmx requests with HX-Redirect and plain requests with 303.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsRequest(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
