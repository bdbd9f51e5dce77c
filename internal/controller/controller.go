// Package controller coordinates one heat pump: it polls sensors once per
// minute, runs the decision engine, and issues de-duplicated commands to the
// climate entity. User commands re-trigger the same recompute synchronously,
// so every externally visible change is immediately re-evaluated.
package controller

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"smartclimate/internal/clock"
	"smartclimate/internal/config"
	"smartclimate/internal/engine"
	"smartclimate/internal/ha"
	"smartclimate/internal/store"
	"smartclimate/internal/telemetry"

	"go.uber.org/zap"
)

const (
	tickInterval = 1 * time.Minute

	// doorOpenThreshold is how long the door must read open before the
	// interlock trips.
	doorOpenThreshold = 70 * time.Second

	// verifySettle is the wait before re-reading the contact sensor after
	// an "on" command.
	verifySettle = 20 * time.Second

	// alertID identifies the persistent notification raised when the device
	// fails verification.
	alertID = "smartclimate_heat_pump_unresponsive"
)

// Setpoint kinds accepted by SetSetpoint.
const (
	SetpointComfort = "comfort"
	SetpointEco     = "eco"
	SetpointBoost   = "boost"
	SetpointCooling = "cooling"
)

// Status is a read-only projection of controller state for views.
type Status struct {
	Name         string               `json:"name"`
	Enabled      bool                 `json:"enabled"`
	Mode         engine.OperatingMode `json:"mode"`
	HVACMode     engine.HVACMode      `json:"hvac_mode"`
	ScheduleMode engine.ScheduleMode  `json:"schedule_mode"`
	SleepActive  bool                 `json:"sleep_active"`
	Action       engine.Action        `json:"action"`
	TargetTemp   float64              `json:"target_temp"`
	Reason       string               `json:"reason"`
	DebugText    string               `json:"debug_text"`
	RoomTemp     *float64             `json:"room_temp"`
	OutsideTemp  *float64             `json:"outside_temp"`
	AvgHouseTemp *float64             `json:"avg_house_temp"`
	DoorOpen     bool                 `json:"door_open"`
	PresenceHome bool                 `json:"presence_home"`
	ComfortTemp  float64              `json:"comfort_temp"`
	EcoTemp      float64              `json:"eco_temp"`
	BoostTemp    float64              `json:"boost_temp"`
	CoolingTemp  float64              `json:"cooling_temp"`
}

// Controller owns the control state for a single configured heat pump. All
// mutation happens under mu: the ticker and every command handler run the
// same recompute, strictly serialized.
type Controller struct {
	client    ha.HAClient
	cfg       *config.Config
	store     *store.Store
	clk       clock.Clock
	publisher telemetry.Publisher
	logger    *zap.Logger
	readOnly  bool

	mu sync.Mutex

	settings engine.Settings
	enabled  bool
	mode     engine.OperatingMode

	scheduleMode   engine.ScheduleMode
	sleepActive    bool
	prevAction     engine.Action
	houseOverLimit bool
	doorOpenSince  *time.Time

	lastSentValid  bool
	lastSentAction engine.Action
	lastSentTarget float64
	lastSentHVAC   engine.HVACMode

	lastInputs   engine.Inputs
	lastDecision engine.Decision
	debugText    string

	lastPublished *telemetry.StatusEvent
	verifying     bool

	ticker     *time.Ticker
	stopChan   chan struct{}
	changeChan chan struct{}
	subs       []ha.Subscription
	started    bool
}

// New creates a controller. publisher may be nil when telemetry is disabled.
func New(client ha.HAClient, cfg *config.Config, st *store.Store, clk clock.Clock,
	publisher telemetry.Publisher, logger *zap.Logger, readOnly bool) *Controller {
	return &Controller{
		client:    client,
		cfg:       cfg,
		store:     st,
		clk:       clk,
		publisher: publisher,
		logger:    logger.Named("controller"),
		readOnly:  readOnly,
		settings: engine.Settings{
			ComfortTemp:       cfg.ComfortTemp,
			EcoTemp:           cfg.EcoTemp,
			BoostTemp:         cfg.BoostTemp,
			CoolingTemp:       cfg.CoolingTemp,
			DeadbandBelow:     cfg.DeadbandBelow,
			DeadbandAbove:     cfg.DeadbandAbove,
			MaxHouseTemp:      cfg.MaxHouseTemp,
			WeatherCompFactor: cfg.WeatherCompFactor,
			MaxCompTemp:       cfg.MaxCompTemp,
			MinCompTemp:       cfg.MinCompTemp,
		},
		enabled:      true,
		mode:         engine.ModeAuto,
		scheduleMode: engine.ScheduleComfort,
		prevAction:   engine.ActionOff,
		stopChan:     make(chan struct{}),
		changeChan:   make(chan struct{}, 1),
	}
}

// Start loads persisted setpoints, runs an initial evaluation, and begins
// the periodic tick.
func (c *Controller) Start() error {
	c.logger.Info("Starting climate controller",
		zap.String("heat_pump", c.cfg.HeatPump),
		zap.Bool("read_only", c.readOnly))

	snap, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load persisted setpoints: %w", err)
	}
	if snap != nil {
		c.mu.Lock()
		c.settings.ComfortTemp = snap.ComfortTemp
		c.settings.EcoTemp = snap.EcoTemp
		c.settings.BoostTemp = snap.BoostTemp
		c.settings.CoolingTemp = snap.CoolingTemp
		c.enabled = snap.Enabled
		c.mu.Unlock()
	}

	c.checkEntities()
	c.recompute()
	c.subscribeEntities()

	c.ticker = time.NewTicker(tickInterval)
	c.started = true
	go c.run()

	c.logger.Info("Climate controller started")
	return nil
}

// Stop halts the tick loop, forces the device off, and releases control.
func (c *Controller) Stop() {
	c.logger.Info("Stopping climate controller")

	if c.started {
		c.ticker.Stop()
		close(c.stopChan)
		c.started = false
	}

	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Debug("Failed to unsubscribe", zap.Error(err))
		}
	}
	c.subs = nil

	if !c.readOnly {
		if err := c.client.ClimateTurnOff(c.cfg.HeatPump); err != nil {
			c.logger.Error("Failed to turn off heat pump on shutdown", zap.Error(err))
		}
	}

	c.logger.Info("Climate controller stopped")
}

func (c *Controller) run() {
	for {
		select {
		case <-c.ticker.C:
			c.recompute()
		case <-c.changeChan:
			c.recompute()
		case <-c.stopChan:
			return
		}
	}
}

// watchedEntities lists every configured input entity.
func (c *Controller) watchedEntities() []string {
	entities := []string{
		c.cfg.RoomSensor,
		c.cfg.OutsideSensor,
		c.cfg.AverageSensor,
		c.cfg.DoorSensor,
		c.cfg.PresenceTracker,
		c.cfg.ScheduleEntity,
	}
	entities = append(entities, c.cfg.BedSensors...)

	watched := entities[:0]
	for _, entityID := range entities {
		if entityID != "" {
			watched = append(watched, entityID)
		}
	}
	return watched
}

// checkEntities fetches the full state list once at startup and warns about
// configured entities Home Assistant does not know.
func (c *Controller) checkEntities() {
	states, err := c.client.GetAllStates()
	if err != nil {
		c.logger.Warn("Failed to fetch initial states", zap.Error(err))
		return
	}

	known := make(map[string]bool, len(states))
	for _, s := range states {
		known[s.EntityID] = true
	}

	for _, entityID := range append(c.watchedEntities(), c.cfg.HeatPump) {
		if !known[entityID] {
			c.logger.Warn("Configured entity not found in Home Assistant",
				zap.String("entity", entityID))
		}
	}
}

// subscribeEntities registers a state-change subscription for every input
// entity so sensor updates are re-evaluated immediately instead of waiting
// for the next tick. The handler only nudges the run loop: recompute must
// not be entered from the event callback itself.
func (c *Controller) subscribeEntities() {
	for _, entityID := range c.watchedEntities() {
		sub, err := c.client.SubscribeStateChanges(entityID,
			func(string, *ha.State, *ha.State) {
				select {
				case c.changeChan <- struct{}{}:
				default:
				}
			})
		if err != nil {
			c.logger.Warn("Failed to subscribe to entity",
				zap.String("entity", entityID), zap.Error(err))
			continue
		}
		c.subs = append(c.subs, sub)
	}
}

// recompute is the single evaluation path, shared by the ticker and every
// command handler. A panic anywhere inside the tick is contained here so the
// next tick proceeds normally.
func (c *Controller) recompute() {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.debugText = fmt.Sprintf("Error: %v", r)
			c.logger.Error("Tick failed", zap.Any("panic", r))
		}
	}()

	in := c.readInputs()
	c.lastInputs = in

	st := engine.State{
		Enabled:        c.enabled,
		Mode:           c.mode,
		ScheduleMode:   c.scheduleMode,
		SleepActive:    c.sleepActive,
		HVACMode:       c.hvacMode(),
		PrevAction:     c.prevAction,
		HouseOverLimit: c.houseOverLimit,
	}

	d := engine.Evaluate(in, st, c.settings)
	c.prevAction = d.Action
	c.houseOverLimit = d.HouseOverLimit
	c.lastDecision = d
	c.debugText = c.formatDebugText(d, in)

	c.logger.Debug("Evaluated",
		zap.String("action", string(d.Action)),
		zap.Float64("target", d.Target),
		zap.String("reason", d.Reason))

	c.dispatch(d)
	c.syncViews(d)
	c.publish(d, in)
}

func (c *Controller) hvacMode() engine.HVACMode {
	if c.mode == engine.ModeForceCooling {
		return engine.HVACCool
	}
	return engine.HVACHeat
}

// readInputs gathers the sensor values and gating conditions for one tick.
// Caller holds mu.
func (c *Controller) readInputs() engine.Inputs {
	outsideDefault := 5.0
	in := engine.Inputs{
		RoomTemp:     c.readTemp(c.cfg.RoomSensor, nil),
		OutsideTemp:  c.readTemp(c.cfg.OutsideSensor, &outsideDefault),
		AvgHouseTemp: c.readTemp(c.cfg.AverageSensor, nil),
		PresenceHome: c.checkPresence(),
	}
	in.DoorOpen = c.checkDoor()
	c.checkSleep()
	c.updateScheduleMode()
	return in
}

// readTemp reads a numeric sensor with a sanity clamp against faulty
// hardware. Unknown, unavailable, unparseable, or out-of-range values all
// collapse to the default; nothing here ever fails the tick.
func (c *Controller) readTemp(entityID string, def *float64) *float64 {
	if entityID == "" {
		return def
	}

	state, err := c.client.GetState(entityID)
	if err != nil {
		c.logger.Debug("Sensor unavailable", zap.String("entity", entityID), zap.Error(err))
		return def
	}
	if state.State == "unknown" || state.State == "unavailable" {
		return def
	}

	value, err := strconv.ParseFloat(state.State, 64)
	if err != nil {
		c.logger.Warn("Sensor value not numeric",
			zap.String("entity", entityID),
			zap.String("state", state.State))
		return def
	}
	if value < -50 || value > 50 {
		c.logger.Warn("Sensor value out of range",
			zap.String("entity", entityID),
			zap.Float64("value", value))
		return def
	}

	return &value
}

// checkDoor tracks contiguous door-open time and reports whether the
// interlock threshold has been reached. Caller holds mu.
func (c *Controller) checkDoor() bool {
	if c.cfg.DoorSensor == "" {
		return false
	}

	state, err := c.client.GetState(c.cfg.DoorSensor)
	if err != nil || state.State != "on" {
		c.doorOpenSince = nil
		return false
	}

	if c.doorOpenSince == nil {
		now := c.clk.Now()
		c.doorOpenSince = &now
		return false
	}

	return c.clk.Since(*c.doorOpenSince) >= doorOpenThreshold
}

// checkPresence resolves the presence tracker; no tracker means home.
func (c *Controller) checkPresence() bool {
	if c.cfg.PresenceTracker == "" {
		return true
	}

	state, err := c.client.GetState(c.cfg.PresenceTracker)
	if err != nil {
		c.logger.Debug("Presence tracker unavailable", zap.Error(err))
		return true
	}

	occupants, _ := strconv.ParseFloat(state.State, 64)
	result := engine.ResolvePresence(c.cfg.PresenceTracker, state.State, occupants)
	if !result.Recognized {
		c.logger.Warn("Unrecognized presence state, assuming home",
			zap.String("entity", c.cfg.PresenceTracker),
			zap.String("state", state.State))
	}
	return result.Home
}

// checkSleep derives sleep mode from the bed occupancy sensors: both must
// read occupied. Caller holds mu.
func (c *Controller) checkSleep() {
	if len(c.cfg.BedSensors) < 2 {
		return
	}

	bed1, err1 := c.client.GetState(c.cfg.BedSensors[0])
	bed2, err2 := c.client.GetState(c.cfg.BedSensors[1])
	if err1 != nil || err2 != nil {
		return
	}

	c.sleepActive = bed1.State == "on" && bed2.State == "on"
}

// updateScheduleMode derives the schedule mode from the external schedule
// entity, preferring its "mode" attribute over the bare state. Caller holds mu.
func (c *Controller) updateScheduleMode() {
	if c.cfg.ScheduleEntity == "" {
		return
	}

	state, err := c.client.GetState(c.cfg.ScheduleEntity)
	if err != nil {
		c.logger.Debug("Schedule entity unavailable", zap.Error(err))
		return
	}

	raw := state.State
	if attr, ok := state.Attributes["mode"].(string); ok && attr != "" {
		raw = attr
	}
	c.scheduleMode = engine.ParseScheduleMode(strings.ToLower(raw))
}

// dispatch compares the decision to the last issued command and to the
// observed entity state, and only then touches the device. lastSent* is
// mutated solely when a command actually goes out. Caller holds mu.
func (c *Controller) dispatch(d engine.Decision) {
	hvac := c.hvacMode()

	if c.lastSentValid &&
		c.lastSentAction == d.Action &&
		c.lastSentTarget == d.Target &&
		c.lastSentHVAC == hvac {
		return
	}

	observed, err := c.client.GetState(c.cfg.HeatPump)
	if err != nil {
		c.logger.Error("Failed to read heat pump state", zap.Error(err))
		observed = nil
	}

	switch d.Action {
	case engine.ActionOn:
		if observed != nil && observed.State == string(hvac) {
			if temp, ok := observed.Attributes["temperature"].(float64); ok && temp == d.Target {
				c.logger.Debug("Heat pump already at target",
					zap.Float64("target", d.Target),
					zap.String("hvac_mode", string(hvac)))
				return
			}
		}

		if c.readOnly {
			c.logger.Info("[READ-ONLY] Would set heat pump",
				zap.Float64("target", d.Target),
				zap.String("hvac_mode", string(hvac)))
			return
		}

		c.logger.Info("Setting heat pump",
			zap.Float64("target", d.Target),
			zap.String("hvac_mode", string(hvac)),
			zap.String("reason", d.Reason))

		if err := c.client.SetClimateTemperature(c.cfg.HeatPump, d.Target, string(hvac)); err != nil {
			c.logger.Error("Failed to command heat pump", zap.Error(err))
			return
		}

		c.lastSentValid = true
		c.lastSentAction = d.Action
		c.lastSentTarget = d.Target
		c.lastSentHVAC = hvac

		c.startVerification(d.Target, hvac)

	case engine.ActionOff:
		if observed != nil && observed.State == "off" {
			c.logger.Debug("Heat pump already off")
			return
		}

		if c.readOnly {
			c.logger.Info("[READ-ONLY] Would turn off heat pump", zap.String("reason", d.Reason))
			return
		}

		c.logger.Info("Turning off heat pump", zap.String("reason", d.Reason))

		if err := c.client.ClimateTurnOff(c.cfg.HeatPump); err != nil {
			c.logger.Error("Failed to turn off heat pump", zap.Error(err))
			return
		}

		c.lastSentValid = true
		c.lastSentAction = d.Action
		c.lastSentTarget = d.Target
		c.lastSentHVAC = hvac
	}
}

// startVerification launches the post-command follow-up if a contact sensor
// is configured: wait for the device to settle, confirm it is running, retry
// once, and raise a persistent alert on continued failure. The follow-up is
// asynchronous so a slow settle never delays the next tick, and single-flight
// so overlapping commands do not stack checks. Caller holds mu.
func (c *Controller) startVerification(target float64, hvac engine.HVACMode) {
	if c.cfg.ContactSensor == "" || c.verifying {
		return
	}
	c.verifying = true

	go func() {
		defer func() {
			c.mu.Lock()
			c.verifying = false
			c.mu.Unlock()
		}()

		c.clk.Sleep(verifySettle)
		if c.deviceRunning() {
			c.clearAlert()
			return
		}

		c.logger.Warn("Heat pump did not confirm running, retrying command",
			zap.Float64("target", target))
		if err := c.client.SetClimateTemperature(c.cfg.HeatPump, target, string(hvac)); err != nil {
			c.logger.Error("Verification retry failed", zap.Error(err))
		}

		c.clk.Sleep(verifySettle)
		if c.deviceRunning() {
			c.clearAlert()
			return
		}

		c.logger.Error("Heat pump unresponsive after retry")
		if err := c.client.CreateNotification(alertID, "Heat pump not responding",
			fmt.Sprintf("The heat pump %s did not start after two commands. Check the device.", c.cfg.HeatPump)); err != nil {
			c.logger.Error("Failed to raise alert", zap.Error(err))
		}
	}()
}

func (c *Controller) deviceRunning() bool {
	state, err := c.client.GetState(c.cfg.ContactSensor)
	if err != nil {
		return false
	}
	return state.State == "on"
}

func (c *Controller) clearAlert() {
	if err := c.client.DismissNotification(alertID); err != nil {
		c.logger.Debug("Failed to dismiss alert", zap.Error(err))
	}
}

// modeLabel names the active setpoint tier for display.
func (c *Controller) modeLabel() string {
	if c.hvacMode() == engine.HVACCool {
		return "Cooling"
	}
	switch {
	case c.mode == engine.ModeForceEco, c.sleepActive:
		return "Eco"
	case c.mode == engine.ModeForceComfort, c.mode == engine.ModeManualOverride:
		return "Comfort"
	case c.scheduleMode == engine.ScheduleEco:
		return "Eco"
	case c.scheduleMode == engine.ScheduleBoost:
		return "Boost"
	}
	return "Comfort"
}

// formatDebugText renders the one-line decision summary. Caller holds mu.
func (c *Controller) formatDebugText(d engine.Decision, in engine.Inputs) string {
	roomStr := "N/A"
	if in.RoomTemp != nil {
		roomStr = fmt.Sprintf("%.1f", *in.RoomTemp)
	}
	avgStr := "N/A"
	if in.AvgHouseTemp != nil {
		avgStr = fmt.Sprintf("%.1f", *in.AvgHouseTemp)
	}
	outStr := "N/A"
	if in.OutsideTemp != nil {
		outStr = fmt.Sprintf("%.1f", *in.OutsideTemp)
	}

	if d.Action == engine.ActionOff {
		return fmt.Sprintf("OFF | R: %s°C | H: %s°C | O: %s°C | %s",
			roomStr, avgStr, outStr, d.Reason)
	}
	return fmt.Sprintf("ON | %s %.1f°C | R: %s°C | H: %s°C | O: %s°C | %s",
		c.modeLabel(), d.Target, roomStr, avgStr, outStr, d.Reason)
}

// syncViews mirrors the decision into the optional helper entities. All
// failures are logged and swallowed. Caller holds mu.
func (c *Controller) syncViews(d engine.Decision) {
	if c.readOnly {
		return
	}

	if c.cfg.StatusText != "" {
		if err := c.client.SetInputText(c.cfg.StatusText, c.debugText); err != nil {
			c.logger.Debug("Failed to update status text", zap.Error(err))
		}
	}
	if c.cfg.ModeText != "" {
		if err := c.client.SetInputText(c.cfg.ModeText, c.modeLabel()); err != nil {
			c.logger.Debug("Failed to update mode text", zap.Error(err))
		}
	}
	if c.cfg.TargetNumber != "" && d.HasTarget {
		if err := c.client.SetInputNumber(c.cfg.TargetNumber, d.Target); err != nil {
			c.logger.Debug("Failed to update target number", zap.Error(err))
		}
	}
}

// publish sends the decision to telemetry when it differs from the last
// published one. Caller holds mu.
func (c *Controller) publish(d engine.Decision, in engine.Inputs) {
	if c.publisher == nil {
		return
	}

	event := telemetry.StatusEvent{
		Timestamp: c.clk.Now(),
		Action:    string(d.Action),
		Target:    d.Target,
		HVACMode:  string(c.hvacMode()),
		Mode:      string(c.mode),
		Reason:    d.Reason,
		RoomTemp:  in.RoomTemp,
	}

	if c.lastPublished != nil &&
		c.lastPublished.Action == event.Action &&
		c.lastPublished.Target == event.Target &&
		c.lastPublished.Reason == event.Reason {
		return
	}

	if err := c.publisher.PublishStatus(event); err != nil {
		c.logger.Warn("Failed to publish telemetry", zap.Error(err))
		return
	}
	c.lastPublished = &event
}

// persist saves the current setpoints and enable flag. Caller holds mu.
func (c *Controller) persist() {
	snap := store.Snapshot{
		ComfortTemp: c.settings.ComfortTemp,
		EcoTemp:     c.settings.EcoTemp,
		BoostTemp:   c.settings.BoostTemp,
		CoolingTemp: c.settings.CoolingTemp,
		Enabled:     c.enabled,
	}
	if err := c.store.Save(snap); err != nil {
		c.logger.Error("Failed to persist setpoints", zap.Error(err))
	}
}

// SetSetpoint updates one of the user-tunable setpoints, persists it, and
// re-evaluates immediately.
func (c *Controller) SetSetpoint(kind string, value float64) error {
	if value < 5 || value > 35 {
		return fmt.Errorf("setpoint %.1f°C out of range", value)
	}

	c.mu.Lock()
	switch kind {
	case SetpointComfort:
		c.settings.ComfortTemp = value
	case SetpointEco:
		c.settings.EcoTemp = value
	case SetpointBoost:
		c.settings.BoostTemp = value
	case SetpointCooling:
		c.settings.CoolingTemp = value
	default:
		c.mu.Unlock()
		return fmt.Errorf("unknown setpoint kind %q", kind)
	}
	c.persist()
	c.mu.Unlock()

	c.logger.Info("Setpoint changed", zap.String("kind", kind), zap.Float64("value", value))
	c.recompute()
	return nil
}

// SetMode switches the operating mode and re-evaluates immediately.
func (c *Controller) SetMode(mode engine.OperatingMode) error {
	if _, err := engine.ParseOperatingMode(string(mode)); err != nil {
		return err
	}

	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()

	c.logger.Info("Operating mode changed", zap.String("mode", string(mode)))
	c.recompute()
	return nil
}

// SetEnabled flips the master gate, persists it, and re-evaluates
// immediately. Disabling forces the device off on the next dispatch.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.persist()
	c.mu.Unlock()

	c.logger.Info("Enabled changed", zap.Bool("enabled", enabled))
	c.recompute()
}

// ResetTemperatures restores the configured default setpoints.
func (c *Controller) ResetTemperatures() {
	c.mu.Lock()
	c.settings.ComfortTemp = config.DefaultComfortTemp
	c.settings.EcoTemp = config.DefaultEcoTemp
	c.settings.BoostTemp = config.DefaultBoostTemp
	c.settings.CoolingTemp = config.DefaultCoolingTemp
	c.persist()
	c.mu.Unlock()

	c.logger.Info("Setpoints reset to defaults")
	c.recompute()
}

// Snapshot returns a read-only projection of the current state.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Name:         c.cfg.Name,
		Enabled:      c.enabled,
		Mode:         c.mode,
		HVACMode:     c.hvacMode(),
		ScheduleMode: c.scheduleMode,
		SleepActive:  c.sleepActive,
		Action:       c.lastDecision.Action,
		TargetTemp:   c.lastDecision.Target,
		Reason:       c.lastDecision.Reason,
		DebugText:    c.debugText,
		RoomTemp:     c.lastInputs.RoomTemp,
		OutsideTemp:  c.lastInputs.OutsideTemp,
		AvgHouseTemp: c.lastInputs.AvgHouseTemp,
		DoorOpen:     c.lastInputs.DoorOpen,
		PresenceHome: c.lastInputs.PresenceHome,
		ComfortTemp:  c.settings.ComfortTemp,
		EcoTemp:      c.settings.EcoTemp,
		BoostTemp:    c.settings.BoostTemp,
		CoolingTemp:  c.settings.CoolingTemp,
	}
}

// Recompute forces a synchronous re-evaluation. Exposed for the API layer.
func (c *Controller) Recompute() {
	c.recompute()
}
