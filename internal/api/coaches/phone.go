package coaches

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion applies to numbers typed without a country code.
const defaultRegion = "BR"

var errInvalidPhone = errors.New("invalid phone number")

// normalizePhone validates raw and returns it in international format.
func normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errInvalidPhone
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", errInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), nil
}

// telURI builds a tel: link, or "" for numbers that do not parse.
func telURI(phone string) string {
	num, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return "tel:" + phonenumbers.Format(num, phonenumbers.E164)
}
