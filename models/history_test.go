package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryItem_UnmarshalStringID(t *testing.T) {
	var item HistoryItem
	err := json.Unmarshal([]byte(`{"id":"abc-1","ip":"8.8.8.8","searched_at":"2025-01-02"}`), &item)
	require.NoError(t, err)

	assert.Equal(t, "abc-1", item.ID)
	assert.Equal(t, "8.8.8.8", item.IP)
	assert.Equal(t, "2025-01-02", item.Extra["searched_at"])
}

func TestHistoryItem_UnmarshalNumericID(t *testing.T) {
	var item HistoryItem
	err := json.Unmarshal([]byte(`{"id":42,"ip":"1.1.1.1"}`), &item)
	require.NoError(t, err)

	assert.Equal(t, "42", item.ID)
	assert.Equal(t, float64(42), item.RawID)
	assert.Equal(t, "1.1.1.1", item.IP)
	assert.Nil(t, item.Extra)
}

func TestHistoryItem_WireIDKeepsNumericType(t *testing.T) {
	var item HistoryItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"ip":"1.1.1.1"}`), &item))
	assert.Equal(t, float64(42), item.WireID())

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"ip":"1.1.1.1"}`, string(data))

	// Without a decoded raw value the string form is used.
	assert.Equal(t, "7", HistoryItem{ID: "7"}.WireID())
}

func TestHistoryItem_MarshalRoundTrip(t *testing.T) {
	item := HistoryItem{ID: "7", IP: "9.9.9.9", Extra: map[string]any{"label": "dns"}}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "7", got["id"])
	assert.Equal(t, "9.9.9.9", got["ip"])
	assert.Equal(t, "dns", got["label"])
}
