package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CanonicalShortCircuit(t *testing.T) {
	raw := map[string]any{"lat": 1.0, "lng": 2.0, "city": "Oslo"}

	rec := Normalize(raw)

	assert.Equal(t, 1.0, rec["lat"])
	assert.Equal(t, 2.0, rec["lng"])
	assert.Equal(t, "Oslo", rec["city"])
}

func TestNormalize_ProviderFailure(t *testing.T) {
	raw := map[string]any{
		"geo": map[string]any{"status": "fail", "message": "denied"},
		"ip":  "1.2.3.4",
	}

	rec := Normalize(raw)

	assert.Equal(t, "1.2.3.4", rec["ip"])
	assert.Equal(t, "", rec["city"])
	assert.Equal(t, "", rec["region"])
	assert.Equal(t, "", rec["country"])
	assert.Equal(t, "denied", rec["isp"])
	assert.Nil(t, rec["lat"])
	assert.Nil(t, rec["lng"])
	// provider fields spread through
	assert.Equal(t, "fail", rec["status"])
}

func TestNormalize_ProviderFailureWithoutMessage(t *testing.T) {
	raw := map[string]any{"geo": map[string]any{"status": "fail"}}

	rec := Normalize(raw)

	assert.Equal(t, FallbackISP, rec["isp"])
}

func TestNormalize_NestedSuccess(t *testing.T) {
	raw := map[string]any{
		"geo": map[string]any{
			"city":       "Sydney",
			"regionName": "New South Wales",
			"country":    "Australia",
			"org":        "Cloudflare",
			"lat":        -33.8688,
			"lon":        151.2,
			"timezone":   "Australia/Sydney",
		},
		"ip": "1.1.1.1",
	}

	rec := Normalize(raw)

	assert.Equal(t, "1.1.1.1", rec["ip"])
	assert.Equal(t, "Sydney", rec["city"])
	assert.Equal(t, "New South Wales", rec["region"])
	assert.Equal(t, "Australia", rec["country"])
	assert.Equal(t, "Cloudflare", rec["isp"])
	assert.Equal(t, -33.8688, rec["lat"])
	assert.Equal(t, 151.2, rec["lng"])
	// unmapped provider fields pass through
	assert.Equal(t, "Australia/Sydney", rec["timezone"])
}

func TestNormalize_LonWinsOverFalsyLng(t *testing.T) {
	raw := map[string]any{
		"geo": map[string]any{"lng": 0.0, "lon": 151.2},
	}

	rec := Normalize(raw)

	assert.Equal(t, 151.2, rec["lng"])
}

func TestNormalize_IPFromQueryField(t *testing.T) {
	raw := map[string]any{
		"geo": map[string]any{"query": "9.9.9.9", "city": "Berkeley"},
	}

	rec := Normalize(raw)

	assert.Equal(t, "9.9.9.9", rec["ip"])
}

func TestNormalize_NonObjectInput(t *testing.T) {
	for _, raw := range []any{nil, "oops", 42.0, true, []any{"a"}} {
		rec := Normalize(raw)
		require.NotNil(t, rec)
		assert.Empty(t, rec)
	}
}

func TestNormalize_RealProviderPayload(t *testing.T) {
	// ip-api.com shaped payload as it comes off the wire.
	body := `{
		"ip": "24.48.0.1",
		"geo": {
			"status": "success",
			"country": "Canada",
			"regionName": "Quebec",
			"city": "Montreal",
			"lat": 45.6085,
			"lon": -73.5493,
			"isp": "Le Groupe Videotron Ltee",
			"query": "24.48.0.1"
		}
	}`
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	rec := Normalize(raw)

	assert.Equal(t, "24.48.0.1", rec.IP())
	assert.Equal(t, "Montreal", rec.City())
	assert.Equal(t, "Quebec", rec.Region())
	assert.Equal(t, "Canada", rec.Country())
	assert.Equal(t, "Le Groupe Videotron Ltee", rec.ISP())

	lat, lng, ok := ExtractLatLng(rec)
	require.True(t, ok)
	assert.Equal(t, 45.6085, lat)
	assert.Equal(t, -73.5493, lng)
}

func TestNormalize_ProviderFieldOverridesCanonicalOnCollision(t *testing.T) {
	// A provider key that collides with a canonical field wins; the
	// canonical value is only a default.
	raw := map[string]any{
		"geo": map[string]any{"lon": 151.2, "lng": "raw-value"},
	}

	rec := Normalize(raw)

	assert.Equal(t, "raw-value", rec["lng"])
}
