package geo

// Payload shapes a raw response can take. Each recognized shape has its
// own mapping function; the precedence between them is fixed.
type shape int

const (
	shapeUnrecognized shape = iota
	shapeCanonical          // lat/lng already at top level
	shapeNestedFailure      // geo sub-object with status "fail"
	shapeNestedSuccess      // geo sub-object, or bare object to probe
)

// Normalize reduces a heterogeneous provider payload to a Record. It
// never fails: non-object input yields an empty record, and missing
// fields degrade to empty strings or nil rather than errors.
//
// Canonical fields are written first and provider fields are spread
// after them, so a provider key that collides with a canonical one
// wins. Callers relying on canonical values should treat them as
// defaults that explicit provider fields may override.
func Normalize(raw any) Record {
	obj, ok := asObject(raw)
	if !ok {
		return Record{}
	}

	switch classify(obj) {
	case shapeCanonical:
		return Record(obj)
	case shapeNestedFailure:
		return normalizeFailure(obj)
	default:
		return normalizeSuccess(obj)
	}
}

func asObject(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}

func classify(obj map[string]any) shape {
	if _, ok := obj[KeyLat]; ok {
		return shapeCanonical
	}
	if _, ok := obj[KeyLng]; ok {
		return shapeCanonical
	}
	if sub := subObject(obj); sub != nil {
		if status, _ := sub["status"].(string); status == "fail" {
			return shapeNestedFailure
		}
	}
	return shapeNestedSuccess
}

// subObject returns the nested provider payload, or nil.
func subObject(obj map[string]any) map[string]any {
	sub, _ := obj["geo"].(map[string]any)
	return sub
}

// extractNestedIP picks the IP from the top level or the provider
// sub-object, where it travels as "query" or "ip".
func extractNestedIP(obj, sub map[string]any) any {
	for _, v := range []any{obj[KeyIP], sub["query"], sub[KeyIP]} {
		if !falsy(v) {
			return v
		}
	}
	return nil
}

func normalizeFailure(obj map[string]any) Record {
	sub := subObject(obj)
	isp := FallbackISP
	if msg, _ := sub["message"].(string); msg != "" {
		isp = msg
	}

	rec := Record{
		KeyIP:      extractNestedIP(obj, sub),
		KeyCity:    "",
		KeyRegion:  "",
		KeyCountry: "",
		KeyISP:     isp,
		KeyLat:     nil,
		KeyLng:     nil,
	}
	spread(rec, sub)
	return rec
}

func normalizeSuccess(obj map[string]any) Record {
	sub := subObject(obj)

	rec := Record{
		KeyIP:      extractNestedIP(obj, sub),
		KeyCity:    firstString(sub, KeyCity),
		KeyRegion:  firstString(sub, KeyRegion, "regionName"),
		KeyCountry: firstString(sub, KeyCountry),
		KeyISP:     firstString(sub, KeyISP, "org"),
		KeyLat:     valueOrNil(sub, KeyLat),
		KeyLng:     firstValue(sub, "lon", KeyLng),
	}
	spread(rec, sub)

	// A provider "lon" must win when the mapped lng ended up absent,
	// even after the spread pulled provider fields over canonical ones.
	if lon, ok := sub["lon"]; ok && !falsy(lon) && falsy(rec[KeyLng]) {
		rec[KeyLng] = lon
	}
	return rec
}

// spread copies every provider field over the record, last write wins.
func spread(rec Record, sub map[string]any) {
	for k, v := range sub {
		rec[k] = v
	}
}

func firstString(sub map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := sub[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstValue(sub map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := sub[k]; ok && !falsy(v) {
			return v
		}
	}
	return nil
}

func valueOrNil(sub map[string]any, key string) any {
	if v, ok := sub[key]; ok && !falsy(v) {
		return v
	}
	return nil
}
