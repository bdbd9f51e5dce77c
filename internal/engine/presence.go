package engine

import "strings"

// PresenceResult is the outcome of resolving a presence tracker entity.
// Recognized is false when the entity state matched no known vocabulary and
// the fail-open default was used; the caller logs a warning in that case.
type PresenceResult struct {
	Home       bool
	Recognized bool
}

// awayTokens are state values that mean away across tracker domains.
var awayTokens = map[string]bool{
	"away":        true,
	"not_home":    true,
	"not home":    true,
	"off":         true,
	"false":       true,
	"0":           true,
	"unknown":     true,
	"unavailable": true,
}

// homeTokens are state values that mean home for sensor-style trackers.
var homeTokens = map[string]bool{
	"home": true,
	"on":   true,
	"true": true,
	"1":    true,
}

// ResolvePresence maps a tracker entity's state to home/away. The vocabulary
// is dispatched on the entity domain because device trackers, zones, and
// plain sensors all report occupancy differently. Comparison is
// case-insensitive. Unrecognized values fail open to home.
func ResolvePresence(entityID, state string, occupantCount float64) PresenceResult {
	domain := entityDomain(entityID)
	value := strings.ToLower(strings.TrimSpace(state))

	switch domain {
	case "device_tracker", "person":
		switch value {
		case "away", "not_home", "unknown", "unavailable":
			return PresenceResult{Home: false, Recognized: true}
		}
		return PresenceResult{Home: true, Recognized: true}

	case "zone":
		// A zone's state is its numeric occupant count.
		return PresenceResult{Home: occupantCount > 0, Recognized: true}

	case "sensor":
		if homeTokens[value] {
			return PresenceResult{Home: true, Recognized: true}
		}
		if awayTokens[value] {
			return PresenceResult{Home: false, Recognized: true}
		}
		return PresenceResult{Home: true, Recognized: false}

	case "input_boolean":
		return PresenceResult{Home: value == "on", Recognized: true}

	case "group":
		return PresenceResult{Home: value == "on" || value == "home", Recognized: true}
	}

	if awayTokens[value] {
		return PresenceResult{Home: false, Recognized: true}
	}
	return PresenceResult{Home: true, Recognized: false}
}

// entityDomain returns the part of an entity id before the first dot.
func entityDomain(entityID string) string {
	if i := strings.IndexByte(entityID, '.'); i > 0 {
		return entityID[:i]
	}
	return entityID
}
