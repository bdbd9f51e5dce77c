package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

// defaultSettings mirrors the documented configuration defaults.
func defaultSettings() Settings {
	return Settings{
		ComfortTemp:       20.0,
		EcoTemp:           18.0,
		BoostTemp:         23.0,
		CoolingTemp:       24.0,
		DeadbandBelow:     0.5,
		DeadbandAbove:     0.5,
		MaxHouseTemp:      25.0,
		WeatherCompFactor: 0.5,
		MaxCompTemp:       25.0,
		MinCompTemp:       16.0,
	}
}

func autoHeatState() State {
	return State{
		Enabled:      true,
		Mode:         ModeAuto,
		ScheduleMode: ScheduleComfort,
		HVACMode:     HVACHeat,
		PrevAction:   ActionOff,
	}
}

func homeInputs(room float64) Inputs {
	return Inputs{RoomTemp: f(room), PresenceHome: true}
}

func TestEvaluate_HeatingNeeded(t *testing.T) {
	// roomTemp=17.0, base=20.0, band 0.5/0.5 -> turnOn=19.5 -> on at 20.0
	d := Evaluate(homeInputs(17.0), autoHeatState(), defaultSettings())

	assert.Equal(t, ActionOn, d.Action)
	assert.Equal(t, 20.0, d.Target)
	assert.Contains(t, d.Reason, "Heating needed")
}

func TestEvaluate_TooHot(t *testing.T) {
	// roomTemp=20.6 -> turnOff=20.5 -> off
	st := autoHeatState()
	st.PrevAction = ActionOn

	d := Evaluate(homeInputs(20.6), st, defaultSettings())

	assert.Equal(t, ActionOff, d.Action)
	assert.Contains(t, d.Reason, "Too hot")
}

func TestEvaluate_DeadbandStickiness(t *testing.T) {
	// For any sequence of temperatures strictly inside the band the action
	// must never change from the carried-forward state.
	cfg := defaultSettings()

	for _, prev := range []Action{ActionOn, ActionOff} {
		st := autoHeatState()
		st.PrevAction = prev

		for _, room := range []float64{19.6, 19.9, 20.0, 20.2, 20.4, 19.7, 20.3} {
			d := Evaluate(homeInputs(room), st, cfg)
			assert.Equal(t, prev, d.Action, "room=%.1f prev=%s", room, prev)
			assert.Equal(t, "In deadband", d.Reason)
			st.PrevAction = d.Action
		}
	}
}

func TestEvaluate_InBandTargetTracksCompensation(t *testing.T) {
	// Only the action is sticky inside the band. The target follows the
	// current base and outside temperature every evaluation, so a frost
	// arriving mid-band still raises the commanded setpoint.
	cfg := defaultSettings()
	st := autoHeatState()
	st.PrevAction = ActionOn

	in := homeInputs(20.0)
	in.OutsideTemp = f(-4.0)

	d := Evaluate(in, st, cfg)
	assert.Equal(t, ActionOn, d.Action)
	assert.Equal(t, "In deadband", d.Reason)
	assert.Equal(t, 22.0, d.Target) // 20 + 4*0.5
}

func TestEvaluate_PriorityOrdering(t *testing.T) {
	// Door interlock outranks manual override, which outranks presence.
	cfg := defaultSettings()

	st := autoHeatState()
	st.Mode = ModeManualOverride
	in := homeInputs(17.0)
	in.DoorOpen = true
	in.PresenceHome = false

	d := Evaluate(in, st, cfg)
	assert.Equal(t, ActionOff, d.Action)
	assert.Equal(t, "Door open", d.Reason)

	// Without the door, override wins over presence=away.
	in.DoorOpen = false
	d = Evaluate(in, st, cfg)
	assert.Equal(t, ActionOn, d.Action)
	assert.Equal(t, "Manual override", d.Reason)

	// Without override, presence gates.
	st.Mode = ModeAuto
	d = Evaluate(in, st, cfg)
	assert.Equal(t, ActionOff, d.Action)
	assert.Equal(t, "Nobody home", d.Reason)
}

func TestEvaluate_Disabled(t *testing.T) {
	st := autoHeatState()
	st.Enabled = false

	d := Evaluate(homeInputs(15.0), st, defaultSettings())

	assert.Equal(t, ActionOff, d.Action)
	assert.Equal(t, "System disabled", d.Reason)
}

func TestEvaluate_ScheduleOff(t *testing.T) {
	st := autoHeatState()
	st.ScheduleMode = ScheduleOff

	d := Evaluate(homeInputs(15.0), st, defaultSettings())
	assert.Equal(t, ActionOff, d.Action)
	assert.Equal(t, "Schedule off", d.Reason)

	// Force-eco keeps running through a schedule-off window at the eco
	// setpoint.
	st.Mode = ModeForceEco
	d = Evaluate(homeInputs(15.0), st, defaultSettings())
	assert.Equal(t, ActionOn, d.Action)
	assert.Equal(t, 18.0, d.Target)
}

func TestEvaluate_HouseCeilingHysteresis(t *testing.T) {
	cfg := defaultSettings() // ceiling 25.0, release below 24.5
	st := autoHeatState()
	in := homeInputs(17.0)

	// Below the ceiling: heating proceeds, latch stays clear.
	in.AvgHouseTemp = f(24.9)
	d := Evaluate(in, st, cfg)
	assert.Equal(t, ActionOn, d.Action)
	assert.False(t, d.HouseOverLimit)

	// Over the ceiling: off and latched.
	in.AvgHouseTemp = f(25.1)
	d = Evaluate(in, st, cfg)
	assert.Equal(t, ActionOff, d.Action)
	assert.Equal(t, "House temp limit", d.Reason)
	assert.True(t, d.HouseOverLimit)

	// A brief dip to 24.9 (inside the 0.5 margin) must not release.
	st.HouseOverLimit = true
	in.AvgHouseTemp = f(24.9)
	d = Evaluate(in, st, cfg)
	assert.Equal(t, ActionOff, d.Action)
	assert.True(t, d.HouseOverLimit)

	// Dropping below ceiling-0.5 releases the latch.
	in.AvgHouseTemp = f(24.4)
	d = Evaluate(in, st, cfg)
	assert.Equal(t, ActionOn, d.Action)
	assert.False(t, d.HouseOverLimit)
}

func TestEvaluate_MissingRoomSensor(t *testing.T) {
	st := autoHeatState()
	in := Inputs{PresenceHome: true}

	d := Evaluate(in, st, defaultSettings())

	assert.Equal(t, ActionOff, d.Action)
	assert.Equal(t, "No room temp data", d.Reason)
	// Off decisions still carry the base temperature for display.
	assert.True(t, d.HasTarget)
	assert.Equal(t, 20.0, d.Target)
}

func TestEvaluate_OffDecisionsRetainBaseTarget(t *testing.T) {
	cfg := defaultSettings()
	st := autoHeatState()

	in := homeInputs(17.0)
	in.DoorOpen = true
	d := Evaluate(in, st, cfg)
	require.Equal(t, ActionOff, d.Action)
	assert.True(t, d.HasTarget)
	assert.Equal(t, 20.0, d.Target)

	in.DoorOpen = false
	in.AvgHouseTemp = f(26.0)
	d = Evaluate(in, st, cfg)
	require.Equal(t, ActionOff, d.Action)
	assert.Equal(t, 20.0, d.Target)
}

func TestEvaluate_WeatherCompensation(t *testing.T) {
	cfg := defaultSettings()
	st := autoHeatState()

	tests := []struct {
		name    string
		outside float64
		want    float64
	}{
		{"mild frost", -4.0, 22.0},  // 20 + min(4*0.5, 5) = 22
		{"deep frost", -20.0, 25.0}, // 20 + min(10, 5) = 25, clamped at max
		{"barely frozen", -1.0, 21.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := homeInputs(17.0)
			in.OutsideTemp = f(tc.outside)

			d := Evaluate(in, st, cfg)
			require.Equal(t, ActionOn, d.Action)
			assert.Equal(t, tc.want, d.Target)
		})
	}
}

func TestEvaluate_WeatherCompensationBounds(t *testing.T) {
	// Property: for any outside < 0 and factor in [0,1] the compensated
	// target stays inside [MinCompTemp, MaxCompTemp].
	cfg := defaultSettings()
	st := autoHeatState()

	for _, outside := range []float64{-0.1, -3, -7.5, -15, -40} {
		for _, factor := range []float64{0, 0.1, 0.5, 0.9, 1.0} {
			cfg.WeatherCompFactor = factor
			in := homeInputs(17.0)
			in.OutsideTemp = f(outside)

			d := Evaluate(in, st, cfg)
			require.Equal(t, ActionOn, d.Action)
			assert.GreaterOrEqual(t, d.Target, cfg.MinCompTemp,
				"outside=%.1f factor=%.1f", outside, factor)
			assert.LessOrEqual(t, d.Target, cfg.MaxCompTemp,
				"outside=%.1f factor=%.1f", outside, factor)
		}
	}
}

func TestEvaluate_NoCompensationWhenOffOrWarm(t *testing.T) {
	cfg := defaultSettings()
	st := autoHeatState()

	// Above freezing: no boost.
	in := homeInputs(17.0)
	in.OutsideTemp = f(3.0)
	d := Evaluate(in, st, cfg)
	assert.Equal(t, 20.0, d.Target)

	// Off decision: target stays at base even in frost.
	in = homeInputs(22.0)
	in.OutsideTemp = f(-10.0)
	d = Evaluate(in, st, cfg)
	require.Equal(t, ActionOff, d.Action)
	assert.Equal(t, 20.0, d.Target)
}

func TestEvaluate_Cooling(t *testing.T) {
	cfg := defaultSettings() // cooling base 24.0, band inverts: on>=24.5, off<=23.5
	st := autoHeatState()
	st.HVACMode = HVACCool

	d := Evaluate(homeInputs(25.0), st, cfg)
	assert.Equal(t, ActionOn, d.Action)
	assert.Equal(t, 24.0, d.Target)
	assert.Contains(t, d.Reason, "Cooling needed")

	st.PrevAction = ActionOn
	d = Evaluate(homeInputs(23.0), st, cfg)
	assert.Equal(t, ActionOff, d.Action)
	assert.Contains(t, d.Reason, "Cool enough")

	// Inside the band the previous action sticks.
	d = Evaluate(homeInputs(24.2), st, cfg)
	assert.Equal(t, ActionOn, d.Action)
	assert.Equal(t, "In deadband", d.Reason)
}

func TestEvaluate_CoolingSkipsScheduleAndCeiling(t *testing.T) {
	cfg := defaultSettings()
	st := autoHeatState()
	st.HVACMode = HVACCool
	st.ScheduleMode = ScheduleOff

	in := homeInputs(26.0)
	in.AvgHouseTemp = f(28.0)

	d := Evaluate(in, st, cfg)
	assert.Equal(t, ActionOn, d.Action, "cooling ignores schedule-off and the house ceiling")
}

func TestEvaluate_CoolingNeverCompensated(t *testing.T) {
	cfg := defaultSettings()
	st := autoHeatState()
	st.HVACMode = HVACCool

	in := homeInputs(26.0)
	in.OutsideTemp = f(-5.0)

	d := Evaluate(in, st, cfg)
	require.Equal(t, ActionOn, d.Action)
	assert.Equal(t, 24.0, d.Target)
}

func TestBaseTemperature(t *testing.T) {
	cfg := defaultSettings()

	tests := []struct {
		name     string
		mode     OperatingMode
		schedule ScheduleMode
		sleep    bool
		want     float64
	}{
		{"auto comfort", ModeAuto, ScheduleComfort, false, 20.0},
		{"auto eco schedule", ModeAuto, ScheduleEco, false, 18.0},
		{"auto boost schedule", ModeAuto, ScheduleBoost, false, 23.0},
		{"schedule off falls back to comfort", ModeAuto, ScheduleOff, false, 20.0},
		{"sleep selects eco", ModeAuto, ScheduleBoost, true, 18.0},
		{"force comfort beats sleep", ModeForceComfort, ScheduleEco, true, 20.0},
		{"force eco", ModeForceEco, ScheduleBoost, false, 18.0},
		{"manual override", ModeManualOverride, ScheduleEco, false, 20.0},
		{"sleep eco outranks manual override", ModeManualOverride, ScheduleComfort, true, 18.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := State{
				Enabled:      true,
				Mode:         tc.mode,
				ScheduleMode: tc.schedule,
				SleepActive:  tc.sleep,
				HVACMode:     HVACHeat,
			}
			assert.Equal(t, tc.want, BaseTemperature(st, cfg))
		})
	}
}

func TestParseScheduleMode(t *testing.T) {
	assert.Equal(t, ScheduleEco, ParseScheduleMode("eco"))
	assert.Equal(t, ScheduleBoost, ParseScheduleMode("boost"))
	assert.Equal(t, ScheduleOff, ParseScheduleMode("off"))
	assert.Equal(t, ScheduleComfort, ParseScheduleMode("comfort"))
	assert.Equal(t, ScheduleComfort, ParseScheduleMode(""))
	assert.Equal(t, ScheduleComfort, ParseScheduleMode("weird"))
}

func TestParseOperatingMode(t *testing.T) {
	for _, valid := range []string{"auto", "force_comfort", "force_eco", "force_cooling", "manual_override"} {
		t.Run(valid, func(t *testing.T) {
			mode, err := ParseOperatingMode(valid)
			require.NoError(t, err)
			assert.Equal(t, OperatingMode(valid), mode)
		})
	}

	_, err := ParseOperatingMode("comfort")
	assert.Error(t, err)
}

func ExampleEvaluate() {
	room := 17.0
	d := Evaluate(
		Inputs{RoomTemp: &room, PresenceHome: true},
		State{Enabled: true, Mode: ModeAuto, ScheduleMode: ScheduleComfort, HVACMode: HVACHeat, PrevAction: ActionOff},
		Settings{ComfortTemp: 20, EcoTemp: 18, BoostTemp: 23, CoolingTemp: 24, DeadbandBelow: 0.5, DeadbandAbove: 0.5, MaxHouseTemp: 25, WeatherCompFactor: 0.5, MaxCompTemp: 25, MinCompTemp: 16},
	)
	fmt.Println(d.Action, d.Target)
	// Output: on 20
}
