// Package telemetry publishes control decisions to MQTT with an abstraction
// for testing.
package telemetry

import (
	"encoding/json"
	"time"
)

// TopicStatus is the retained MQTT topic carrying the latest decision.
const TopicStatus = "home/climate/smartclimate/status"

// TopicSystem is the MQTT topic for service lifecycle events.
const TopicSystem = "home/climate/smartclimate/system"

// Publisher publishes decision and lifecycle events to MQTT.
type Publisher interface {
	// PublishStatus sends the latest decision to the broker as a retained
	// message. Returns error if publishing fails (should not crash the process).
	PublishStatus(event StatusEvent) error

	// PublishSystem sends a service lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// StatusEvent is one published control decision.
type StatusEvent struct {
	Timestamp time.Time
	Action    string
	Target    float64
	HVACMode  string
	Mode      string
	Reason    string
	RoomTemp  *float64
}

// SystemEvent is a service lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN"
	Reason    string // e.g. "SIGTERM" (shutdown only)
}

type statusPayload struct {
	Climate statusPayloadInner `json:"climate"`
}

type statusPayloadInner struct {
	Timestamp string   `json:"timestamp"`
	Action    string   `json:"action"`
	Target    float64  `json:"target"`
	HVACMode  string   `json:"hvac_mode"`
	Mode      string   `json:"mode"`
	Reason    string   `json:"reason"`
	RoomTemp  *float64 `json:"room_temp,omitempty"`
}

// FormatStatusPayload creates the JSON payload for a decision event.
func FormatStatusPayload(event StatusEvent) ([]byte, error) {
	payload := statusPayload{
		Climate: statusPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Action:    event.Action,
			Target:    event.Target,
			HVACMode:  event.HVACMode,
			Mode:      event.Mode,
			Reason:    event.Reason,
			RoomTemp:  event.RoomTemp,
		},
	}
	return json.Marshal(payload)
}

type systemPayload struct {
	System systemPayloadInner `json:"system"`
}

type systemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := systemPayload{
		System: systemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
