package models

import (
	"encoding/json"
	"strconv"
)

// HistoryItem is one stored past lookup. The backend may send the id
// as a string or a number; ID is the string form used for display and
// URL routing, while RawID keeps the value as delivered so it can be
// echoed back in its original type. Fields the backend sends beyond id
// and ip are preserved in Extra.
type HistoryItem struct {
	ID    string
	RawID any
	IP    string
	Extra map[string]any
}

// WireID is the id as the backend knows it: the original JSON value
// when one was decoded, the string form otherwise.
func (h HistoryItem) WireID() any {
	if h.RawID != nil {
		return h.RawID
	}
	return h.ID
}

func (h *HistoryItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.RawID = raw["id"]
	h.ID = coerceID(raw["id"])
	h.IP, _ = raw["ip"].(string)

	delete(raw, "id")
	delete(raw, "ip")
	if len(raw) > 0 {
		h.Extra = raw
	}
	return nil
}

func (h HistoryItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(h.Extra)+2)
	for k, v := range h.Extra {
		out[k] = v
	}
	out["id"] = h.WireID()
	out["ip"] = h.IP
	return json.Marshal(out)
}

func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		// JSON numbers decode as float64; ids are integral in practice.
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}
