package geo

// DefaultMockIP is used when no IP is supplied to Mock.
const DefaultMockIP = "93.184.216.34"

// Mock returns a canned record for local development and tests, keyed
// by a few well-known addresses.
func Mock(ip string) Record {
	switch ip {
	case "8.8.8.8":
		return Record{
			KeyIP:      "8.8.8.8",
			KeyCity:    "Mountain View",
			KeyRegion:  "CA",
			KeyCountry: "US",
			KeyISP:     "Google LLC",
			KeyLat:     37.3861,
			KeyLng:     -122.0839,
		}
	case "1.1.1.1":
		return Record{
			KeyIP:      "1.1.1.1",
			KeyCity:    "Sydney",
			KeyRegion:  "NSW",
			KeyCountry: "AU",
			KeyISP:     "Cloudflare",
			KeyLat:     -33.8688,
			KeyLng:     151.2093,
		}
	}

	if ip == "" {
		ip = DefaultMockIP
	}
	return Record{
		KeyIP:      ip,
		KeyCity:    "New York",
		KeyRegion:  "NY",
		KeyCountry: "US",
		KeyISP:     "Mock ISP",
		KeyLat:     40.7128,
		KeyLng:     -74.006,
	}
}
