// Package geo holds the normalized geolocation record type and the
// best-effort normalization of provider-shaped payloads into it.
package geo

import (
	"strconv"
	"strings"
)

// Record is one geolocation lookup result. After normalization it
// carries the canonical fields ip, city, region, country, isp, lat and
// lng; any further provider fields are passed through unmodified.
type Record map[string]any

// Canonical field keys.
const (
	KeyIP      = "ip"
	KeyCity    = "city"
	KeyRegion  = "region"
	KeyCountry = "country"
	KeyISP     = "isp"
	KeyLat     = "lat"
	KeyLng     = "lng"
)

// FallbackISP is shown when a provider reports failure without a message.
const FallbackISP = "Location unavailable"

func (r Record) City() string    { return r.stringField(KeyCity) }
func (r Record) Region() string  { return r.stringField(KeyRegion) }
func (r Record) Country() string { return r.stringField(KeyCountry) }
func (r Record) ISP() string     { return r.stringField(KeyISP) }

// IP returns the record's IP address, guessing across the known
// provider spellings when the canonical key is absent.
func (r Record) IP() string { return ExtractIP(r) }

func (r Record) stringField(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// asNumber coerces a value to a float64. Numeric strings are accepted.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// falsy mirrors loose truthiness for provider fields: nil, false, zero
// numbers and empty strings all count as absent.
func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case string:
		return t == ""
	}
	return false
}
