package geo

import "strings"

// Candidate key spellings seen across providers, in precedence order.
// Dotted entries address nested sub-objects.
var (
	ipCandidates = []string{"ip", "query", "ipAddress", "IPAddress", "ip_address"}

	latCandidates = []string{"lat", "latitude", "Latitude", "latDecimal", "location.lat", "location.latitude"}
	lngCandidates = []string{"lng", "lon", "longitude", "Longitude", "lngDecimal", "location.lng", "location.lon", "location.longitude"}
)

// ExtractIP guesses the IP address of a record across the known
// provider spellings. Returns "" when nothing usable is present.
func ExtractIP(rec Record) string {
	for _, key := range ipCandidates {
		if s, ok := rec[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// ExtractLatLng guesses the coordinate pair of a record. Numeric
// strings are accepted. ok is false unless both coordinates resolve.
func ExtractLatLng(rec Record) (lat, lng float64, ok bool) {
	lat, latOK := firstNumber(rec, latCandidates)
	lng, lngOK := firstNumber(rec, lngCandidates)
	if !latOK || !lngOK {
		return 0, 0, false
	}
	return lat, lng, true
}

func firstNumber(rec Record, candidates []string) (float64, bool) {
	for _, key := range candidates {
		if n, ok := asNumber(lookupPath(rec, key)); ok {
			return n, true
		}
	}
	return 0, false
}

// lookupPath resolves a possibly dotted path like "location.lat".
func lookupPath(rec Record, path string) any {
	if !strings.Contains(path, ".") {
		return rec[path]
	}
	var cur any = map[string]any(rec)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[part]
	}
	return cur
}
