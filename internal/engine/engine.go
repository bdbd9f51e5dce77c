// Package engine implements the control-decision logic for a single heat pump:
// the priority-ordered policy, the deadband/hysteresis state machine, base
// temperature selection, and weather compensation. Evaluate is a pure function
// over explicit inputs so every branch can be tested without a running
// Home Assistant instance; all I/O lives in the controller package.
package engine

import (
	"fmt"
	"math"
)

// Action is the computed heat pump action.
type Action string

const (
	ActionOn  Action = "on"
	ActionOff Action = "off"
)

// HVACMode selects which physical mode the pump runs in.
type HVACMode string

const (
	HVACHeat HVACMode = "heat"
	HVACCool HVACMode = "cool"
)

// OperatingMode is the single user-selected mode. Exactly one mode is active
// at a time, which replaces the mutually-cleared boolean flags the UI exposes
// (force comfort / force eco / manual override) with a structural guarantee.
type OperatingMode string

const (
	ModeAuto           OperatingMode = "auto"
	ModeForceComfort   OperatingMode = "force_comfort"
	ModeForceEco       OperatingMode = "force_eco"
	ModeForceCooling   OperatingMode = "force_cooling"
	ModeManualOverride OperatingMode = "manual_override"
)

// ParseOperatingMode validates a mode string from an external caller.
func ParseOperatingMode(s string) (OperatingMode, error) {
	switch OperatingMode(s) {
	case ModeAuto, ModeForceComfort, ModeForceEco, ModeForceCooling, ModeManualOverride:
		return OperatingMode(s), nil
	}
	return "", fmt.Errorf("unknown operating mode %q", s)
}

// ScheduleMode is the mode derived from the external schedule entity.
// The schedule is consumed as an opaque mode string; anything unparseable
// collapses to comfort.
type ScheduleMode string

const (
	ScheduleComfort ScheduleMode = "comfort"
	ScheduleEco     ScheduleMode = "eco"
	ScheduleBoost   ScheduleMode = "boost"
	ScheduleOff     ScheduleMode = "off"
)

// ParseScheduleMode maps a schedule entity value to a ScheduleMode,
// defaulting to comfort when absent or unrecognized.
func ParseScheduleMode(s string) ScheduleMode {
	switch ScheduleMode(s) {
	case ScheduleEco, ScheduleBoost, ScheduleOff:
		return ScheduleMode(s)
	}
	return ScheduleComfort
}

// Inputs are the sensor readings for one evaluation. Nil pointers mean the
// sensor is unconfigured or currently unreadable.
type Inputs struct {
	RoomTemp     *float64
	OutsideTemp  *float64
	AvgHouseTemp *float64

	// DoorOpen is true once the door sensor has read open continuously for
	// the interlock threshold; the duration tracking lives in the controller.
	DoorOpen bool

	// PresenceHome is true when the presence tracker resolves to home
	// (or no tracker is configured).
	PresenceHome bool
}

// Settings are the tunables and setpoints the decision runs against.
type Settings struct {
	ComfortTemp float64
	EcoTemp     float64
	BoostTemp   float64
	CoolingTemp float64

	DeadbandBelow float64
	DeadbandAbove float64
	MaxHouseTemp  float64

	WeatherCompFactor float64
	MaxCompTemp       float64
	MinCompTemp       float64
}

// State is the controller state the decision depends on and the hysteresis
// state it carries forward between ticks.
type State struct {
	Enabled      bool
	Mode         OperatingMode
	ScheduleMode ScheduleMode
	SleepActive  bool
	HVACMode     HVACMode

	// PrevAction is maintained unchanged while the room temperature sits
	// inside the deadband.
	PrevAction Action

	// HouseOverLimit latches once the house average exceeds the ceiling and
	// releases only half a degree below it.
	HouseOverLimit bool
}

// Decision is the outcome of one evaluation. Target carries the base (or
// compensated) temperature even for off decisions so views can display what
// the system would heat toward; HasTarget distinguishes a real target from a
// decision made before one could be selected.
type Decision struct {
	Action         Action
	Target         float64
	HasTarget      bool
	Reason         string
	HouseOverLimit bool
}

// maxCompensation caps the weather compensation boost.
const maxCompensation = 5.0

// Evaluate runs the priority-ordered policy and hysteresis decision.
// Branches are ordered top-to-bottom, first match wins.
func Evaluate(in Inputs, st State, cfg Settings) Decision {
	base := BaseTemperature(st, cfg)

	if !st.Enabled {
		return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "System disabled", HouseOverLimit: st.HouseOverLimit}
	}

	if in.DoorOpen {
		return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "Door open", HouseOverLimit: st.HouseOverLimit}
	}

	if st.HVACMode == HVACCool {
		return evaluateCooling(in, st, cfg)
	}

	if st.Mode == ModeManualOverride {
		d := Decision{Action: ActionOn, Target: base, HasTarget: true, Reason: "Manual override", HouseOverLimit: st.HouseOverLimit}
		return compensate(d, in, cfg)
	}

	if !in.PresenceHome {
		return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "Nobody home", HouseOverLimit: st.HouseOverLimit}
	}

	if st.ScheduleMode == ScheduleOff && st.Mode != ModeForceEco {
		return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "Schedule off", HouseOverLimit: st.HouseOverLimit}
	}

	// House-wide ceiling with a 0.5 degree release margin so the interlock
	// does not relatch on sensor noise right at the limit.
	if in.AvgHouseTemp != nil {
		avg := *in.AvgHouseTemp
		if st.HouseOverLimit {
			if avg > cfg.MaxHouseTemp-0.5 {
				return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "House temp limit", HouseOverLimit: true}
			}
			st.HouseOverLimit = false
		} else if avg > cfg.MaxHouseTemp {
			return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "House temp limit", HouseOverLimit: true}
		}
	}

	if in.RoomTemp == nil {
		return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "No room temp data", HouseOverLimit: st.HouseOverLimit}
	}

	room := *in.RoomTemp
	turnOn := base - cfg.DeadbandBelow
	turnOff := base + cfg.DeadbandAbove

	var d Decision
	switch {
	case room <= turnOn:
		d = Decision{
			Action:    ActionOn,
			Target:    base,
			HasTarget: true,
			Reason:    fmt.Sprintf("Heating needed (%.1f°C <= %.1f°C)", room, turnOn),
		}
	case room >= turnOff:
		d = Decision{
			Action:    ActionOff,
			Target:    base,
			HasTarget: true,
			Reason:    fmt.Sprintf("Too hot (%.1f°C >= %.1f°C)", room, turnOff),
		}
	default:
		// Inside the deadband the previous action is carried forward
		// unchanged; this self-loop is the anti-short-cycle mechanism.
		// The target, however, is re-derived from the current base and
		// re-compensated below, not frozen at the last commanded value,
		// so setpoint and weather changes take effect mid-band.
		d = Decision{Action: st.PrevAction, Target: base, HasTarget: true, Reason: "In deadband"}
	}
	d.HouseOverLimit = st.HouseOverLimit
	return compensate(d, in, cfg)
}

// evaluateCooling is the deliberately simplified cooling policy: the band is
// inverted and the schedule, house-ceiling, and weather-compensation rules do
// not apply. The master disable and door interlock have already run.
func evaluateCooling(in Inputs, st State, cfg Settings) Decision {
	base := cfg.CoolingTemp

	if !in.PresenceHome {
		return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "Nobody home", HouseOverLimit: st.HouseOverLimit}
	}

	if in.RoomTemp == nil {
		return Decision{Action: ActionOff, Target: base, HasTarget: true, Reason: "No room temp data", HouseOverLimit: st.HouseOverLimit}
	}

	room := *in.RoomTemp
	turnOn := base + cfg.DeadbandAbove
	turnOff := base - cfg.DeadbandBelow

	switch {
	case room >= turnOn:
		return Decision{
			Action:         ActionOn,
			Target:         base,
			HasTarget:      true,
			Reason:         fmt.Sprintf("Cooling needed (%.1f°C >= %.1f°C)", room, turnOn),
			HouseOverLimit: st.HouseOverLimit,
		}
	case room <= turnOff:
		return Decision{
			Action:         ActionOff,
			Target:         base,
			HasTarget:      true,
			Reason:         fmt.Sprintf("Cool enough (%.1f°C <= %.1f°C)", room, turnOff),
			HouseOverLimit: st.HouseOverLimit,
		}
	}
	return Decision{Action: st.PrevAction, Target: base, HasTarget: true, Reason: "In deadband", HouseOverLimit: st.HouseOverLimit}
}

// BaseTemperature selects the setpoint from mode priority, before weather
// compensation. Sleep detection selects eco ahead of a manual override, which
// matches the historical behavior of the flag-based implementation.
func BaseTemperature(st State, cfg Settings) float64 {
	if st.HVACMode == HVACCool {
		return cfg.CoolingTemp
	}

	switch st.Mode {
	case ModeForceComfort:
		return cfg.ComfortTemp
	case ModeForceEco:
		return cfg.EcoTemp
	}

	if st.SleepActive {
		return cfg.EcoTemp
	}

	if st.Mode == ModeManualOverride {
		return cfg.ComfortTemp
	}

	switch st.ScheduleMode {
	case ScheduleEco:
		return cfg.EcoTemp
	case ScheduleBoost:
		return cfg.BoostTemp
	default:
		// Schedule off is intercepted by the policy unless force-eco is
		// active, so comfort is only a display fallback here.
		return cfg.ComfortTemp
	}
}

// compensate applies weather compensation to a heating "on" decision when the
// outdoor sensor reads below freezing. The boost is capped, the result is
// clamped to the configured band and rounded to a whole degree. Off decisions
// and cooling are never compensated.
func compensate(d Decision, in Inputs, cfg Settings) Decision {
	if d.Action != ActionOn || in.OutsideTemp == nil || *in.OutsideTemp >= 0 {
		return d
	}

	comp := math.Min(math.Abs(*in.OutsideTemp)*cfg.WeatherCompFactor, maxCompensation)
	target := d.Target + comp
	target = math.Min(target, cfg.MaxCompTemp)
	target = math.Max(target, cfg.MinCompTemp)
	d.Target = math.Round(target)
	return d
}
