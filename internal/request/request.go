package request

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ParseID parses a positive int64 id.
func ParseID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// PathID parses the {name} wildcard of the matched route.
func PathID(r *http.Request, name string) (int64, bool) {
	return ParseID(r.PathValue(name))
}

// QueryValue reads key from the query string, falling back to the page URL
// htmx reports in HX-Current-URL so fragments keep the page's filters.
func QueryValue(r *http.Request, key string) string {
	if value := strings.TrimSpace(r.URL.Query().Get(key)); value != "" {
		return value
	}

	currentURL := strings.TrimSpace(r.Header.Get("HX-Current-URL"))
	if currentURL == "" {
		return ""
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("hx_current_url", currentURL).
			Msg("Failed to parse HX-Current-URL")
		return ""
	}

	return strings.TrimSpace(parsed.Query().Get(key))
}
