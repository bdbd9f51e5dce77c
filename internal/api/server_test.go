package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smartclimate/internal/clock"
	"smartclimate/internal/config"
	"smartclimate/internal/controller"
	"smartclimate/internal/engine"
	"smartclimate/internal/ha"
	"smartclimate/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, *ha.MockClient) {
	t.Helper()

	cfg := &config.Config{
		Name:            "Living Room",
		HeatPump:        "climate.living_room",
		RoomSensor:      "sensor.living_room_temperature",
		PresenceTracker: "person.resident",
	}
	cfg.ComfortTemp = config.DefaultComfortTemp
	cfg.EcoTemp = config.DefaultEcoTemp
	cfg.BoostTemp = config.DefaultBoostTemp
	cfg.CoolingTemp = config.DefaultCoolingTemp
	cfg.DeadbandBelow = config.DefaultDeadband
	cfg.DeadbandAbove = config.DefaultDeadband
	cfg.MaxHouseTemp = config.DefaultMaxHouseTemp
	cfg.WeatherCompFactor = config.DefaultWeatherCompFactor
	cfg.MaxCompTemp = config.DefaultMaxCompTemp
	cfg.MinCompTemp = config.DefaultMinCompTemp

	mock := ha.NewMockClient()
	mock.SetState(cfg.RoomSensor, "17.0", nil)
	mock.SetState(cfg.PresenceTracker, "home", nil)

	st := store.New(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
	ctrl := controller.New(mock, cfg, st, clock.NewMock(time.Now()), nil, zap.NewNop(), false)
	ctrl.Recompute()

	return NewServer(ctrl, zap.NewNop(), 8081), mock
}

func TestHandleStatus(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	server.handleStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var status controller.Status
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, engine.ActionOn, status.Action)
	assert.Equal(t, 20.0, status.TargetTemp)
	assert.Contains(t, status.Reason, "Heating needed")
}

func TestHandleStatusRejectsPost(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.handleStatus(w, httptest.NewRequest(http.MethodPost, "/api/status", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleSetpoint(t *testing.T) {
	server, _ := newTestServer(t)

	body := strings.NewReader(`{"kind": "comfort", "value": 21.5}`)
	w := httptest.NewRecorder()
	server.handleSetpoint(w, httptest.NewRequest(http.MethodPost, "/api/setpoint", body))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.handleStatus(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var status controller.Status
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, 21.5, status.ComfortTemp)
	assert.Equal(t, 21.5, status.TargetTemp)
}

func TestHandleSetpointErrors(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{kind}`},
		{"unknown kind", `{"kind": "vacation", "value": 20}`},
		{"out of range", `{"kind": "comfort", "value": 99}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.handleSetpoint(w, httptest.NewRequest(http.MethodPost, "/api/setpoint", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleMode(t *testing.T) {
	server, _ := newTestServer(t)

	body := strings.NewReader(`{"mode": "force_eco"}`)
	w := httptest.NewRecorder()
	server.handleMode(w, httptest.NewRequest(http.MethodPost, "/api/mode", body))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.handleStatus(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var status controller.Status
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, engine.ModeForceEco, status.Mode)
	assert.Equal(t, 18.0, status.TargetTemp)

	w = httptest.NewRecorder()
	server.handleMode(w, httptest.NewRequest(http.MethodPost, "/api/mode", strings.NewReader(`{"mode": "party"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEnabled(t *testing.T) {
	server, mock := newTestServer(t)

	body := strings.NewReader(`{"enabled": false}`)
	w := httptest.NewRecorder()
	server.handleEnabled(w, httptest.NewRequest(http.MethodPost, "/api/enabled", body))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.handleStatus(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var status controller.Status
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.False(t, status.Enabled)
	assert.Equal(t, "System disabled", status.Reason)

	// The initial heating command was followed by a turn-off.
	var turnOffs int
	for _, call := range mock.GetServiceCalls() {
		if call.Domain == "climate" && call.Service == "turn_off" {
			turnOffs++
		}
	}
	assert.Equal(t, 1, turnOffs)
}

func TestHandleReset(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.handleSetpoint(w, httptest.NewRequest(http.MethodPost, "/api/setpoint",
		strings.NewReader(`{"kind": "comfort", "value": 22.0}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.handleReset(w, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.handleStatus(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var status controller.Status
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, config.DefaultComfortTemp, status.ComfortTemp)
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleSitemap(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.handleSitemap(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/status")
	assert.Contains(t, w.Body.String(), "/api/setpoint")

	w = httptest.NewRecorder()
	server.handleSitemap(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSitemapExamplesUseConfiguredPort(t *testing.T) {
	server, _ := newTestServer(t)
	server.server.Addr = ":9090"

	w := httptest.NewRecorder()
	server.handleSitemap(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, w.Body.String(), "http://localhost:9090/api/status")
	assert.NotContains(t, w.Body.String(), "8081")
}
