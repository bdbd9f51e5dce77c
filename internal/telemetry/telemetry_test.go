package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatStatusPayload(t *testing.T) {
	room := 19.3
	event := StatusEvent{
		Timestamp: time.Date(2026, 1, 15, 7, 30, 0, 0, time.UTC),
		Action:    "on",
		Target:    21.0,
		HVACMode:  "heat",
		Mode:      "auto",
		Reason:    "Heating needed (19.3°C <= 19.5°C)",
		RoomTemp:  &room,
	}

	payload, err := FormatStatusPayload(event)
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	climate := decoded["climate"]
	assert.Equal(t, "2026-01-15T07:30:00Z", climate["timestamp"])
	assert.Equal(t, "on", climate["action"])
	assert.Equal(t, 21.0, climate["target"])
	assert.Equal(t, "heat", climate["hvac_mode"])
	assert.Equal(t, "auto", climate["mode"])
	assert.Equal(t, 19.3, climate["room_temp"])
}

func TestFormatStatusPayloadOmitsMissingRoomTemp(t *testing.T) {
	payload, err := FormatStatusPayload(StatusEvent{
		Timestamp: time.Now(),
		Action:    "off",
		Reason:    "No room temp data",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "room_temp")
}

func TestFormatSystemPayload(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 1, 15, 7, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	system := decoded["system"]
	assert.Equal(t, "SHUTDOWN", system["event"])
	assert.Equal(t, "SIGTERM", system["reason"])
}

func TestFakePublisherRecords(t *testing.T) {
	fake := NewFakePublisher()

	require.NoError(t, fake.PublishStatus(StatusEvent{Action: "on", Target: 20.0}))
	require.NoError(t, fake.PublishSystem(SystemEvent{Event: "STARTUP"}))
	require.NoError(t, fake.Close())

	assert.Len(t, fake.StatusEvents, 1)
	assert.Len(t, fake.SystemEvents, 1)
	assert.True(t, fake.Closed)

	fake.Reset()
	assert.Empty(t, fake.StatusEvents)
	assert.False(t, fake.Closed)
}
