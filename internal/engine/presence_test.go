package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePresence_DeviceTracker(t *testing.T) {
	tests := []struct {
		state string
		home  bool
	}{
		{"home", true},
		{"work", true}, // any named zone counts as reachable, not away
		{"away", false},
		{"not_home", false},
		{"unknown", false},
		{"unavailable", false},
	}

	for _, tc := range tests {
		t.Run(tc.state, func(t *testing.T) {
			r := ResolvePresence("device_tracker.phone", tc.state, 0)
			assert.Equal(t, tc.home, r.Home)
			assert.True(t, r.Recognized)
		})
	}
}

func TestResolvePresence_Person(t *testing.T) {
	assert.False(t, ResolvePresence("person.alex", "not_home", 0).Home)
	assert.True(t, ResolvePresence("person.alex", "home", 0).Home)
}

func TestResolvePresence_Zone(t *testing.T) {
	assert.True(t, ResolvePresence("zone.home", "2", 2).Home)
	assert.False(t, ResolvePresence("zone.home", "0", 0).Home)
}

func TestResolvePresence_SensorVocabulary(t *testing.T) {
	for _, s := range []string{"home", "on", "true", "1"} {
		assert.True(t, ResolvePresence("sensor.combined_tracker", s, 0).Home, s)
	}
	for _, s := range []string{"away", "not_home", "not home", "off", "false", "0", "unknown", "unavailable"} {
		assert.False(t, ResolvePresence("sensor.combined_tracker", s, 0).Home, s)
	}
}

func TestResolvePresence_SensorCaseInsensitive(t *testing.T) {
	// A tracker reporting "Away" must resolve away regardless of case.
	r := ResolvePresence("sensor.combined_tracker", "Away", 0)
	assert.False(t, r.Home)
	assert.True(t, r.Recognized)
}

func TestResolvePresence_SensorFailOpen(t *testing.T) {
	r := ResolvePresence("sensor.combined_tracker", "somewhere", 0)
	assert.True(t, r.Home, "unrecognized sensor values default to home")
	assert.False(t, r.Recognized)
}

func TestResolvePresence_InputBooleanAndGroup(t *testing.T) {
	assert.True(t, ResolvePresence("input_boolean.anyone_home", "on", 0).Home)
	assert.False(t, ResolvePresence("input_boolean.anyone_home", "off", 0).Home)

	assert.True(t, ResolvePresence("group.family", "home", 0).Home)
	assert.True(t, ResolvePresence("group.family", "on", 0).Home)
	assert.False(t, ResolvePresence("group.family", "not_home", 0).Home)
}

func TestResolvePresence_UnknownDomain(t *testing.T) {
	assert.False(t, ResolvePresence("binary_sensor.presence", "away", 0).Home)

	r := ResolvePresence("binary_sensor.presence", "detected", 0)
	assert.True(t, r.Home)
	assert.False(t, r.Recognized)
}
