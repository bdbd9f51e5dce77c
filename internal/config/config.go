// Package config loads the per-instance climate configuration from a YAML
// file: the controlled heat pump, the sensor entities feeding the decision
// engine, and the numeric tunables with their documented defaults.
package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Defaults for the user-tunable setpoints and control parameters.
const (
	DefaultComfortTemp       = 20.0
	DefaultEcoTemp           = 18.0
	DefaultBoostTemp         = 23.0
	DefaultCoolingTemp       = 24.0
	DefaultDeadband          = 0.5
	DefaultMaxHouseTemp      = 25.0
	DefaultWeatherCompFactor = 0.5
	DefaultMaxCompTemp       = 25.0
	DefaultMinCompTemp       = 16.0
)

// Config is the climate_config.yaml structure. Entity fields other than the
// heat pump and room sensor are optional; an empty id disables the feature
// that reads it.
type Config struct {
	Name string `yaml:"name"`

	// Controlled entity (climate domain). Required.
	HeatPump string `yaml:"heat_pump"`

	// Sensor entities.
	RoomSensor    string   `yaml:"room_sensor"`
	OutsideSensor string   `yaml:"outside_sensor"`
	AverageSensor string   `yaml:"average_sensor"`
	DoorSensor    string   `yaml:"door_sensor"`
	BedSensors    []string `yaml:"bed_sensors"`

	// Presence, schedule and command verification.
	PresenceTracker string `yaml:"presence_tracker"`
	ScheduleEntity  string `yaml:"schedule_entity"`
	ContactSensor   string `yaml:"heat_pump_contact"`

	// Optional helper entities mirroring the decision state back into
	// Home Assistant (input_text / input_number names without the domain).
	StatusText   string `yaml:"status_text"`
	ModeText     string `yaml:"mode_text"`
	TargetNumber string `yaml:"target_number"`

	// Setpoints.
	ComfortTemp float64 `yaml:"comfort_temp"`
	EcoTemp     float64 `yaml:"eco_temp"`
	BoostTemp   float64 `yaml:"boost_temp"`
	CoolingTemp float64 `yaml:"cooling_temp"`

	// Control parameters.
	DeadbandBelow     float64 `yaml:"deadband_below"`
	DeadbandAbove     float64 `yaml:"deadband_above"`
	MaxHouseTemp      float64 `yaml:"max_house_temp"`
	WeatherCompFactor float64 `yaml:"weather_comp_factor"`
	MaxCompTemp       float64 `yaml:"max_comp_temp"`
	MinCompTemp       float64 `yaml:"min_comp_temp"`
}

// tunables are decoded through pointers so an absent key is distinguishable
// from an explicit zero (weather_comp_factor: 0 disables compensation, it is
// not a request for the default).
type tunables struct {
	ComfortTemp       *float64 `yaml:"comfort_temp"`
	EcoTemp           *float64 `yaml:"eco_temp"`
	BoostTemp         *float64 `yaml:"boost_temp"`
	CoolingTemp       *float64 `yaml:"cooling_temp"`
	DeadbandBelow     *float64 `yaml:"deadband_below"`
	DeadbandAbove     *float64 `yaml:"deadband_above"`
	MaxHouseTemp      *float64 `yaml:"max_house_temp"`
	WeatherCompFactor *float64 `yaml:"weather_comp_factor"`
	MaxCompTemp       *float64 `yaml:"max_comp_temp"`
	MinCompTemp       *float64 `yaml:"min_comp_temp"`
}

// Load reads and validates the configuration file, filling in defaults for
// any tunable the file does not set.
func Load(path string, logger *zap.Logger) (*Config, error) {
	logger.Debug("Loading climate config", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read climate config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse climate config: %w", err)
	}
	var tun tunables
	if err := yaml.Unmarshal(data, &tun); err != nil {
		return nil, fmt.Errorf("failed to parse climate config: %w", err)
	}

	cfg.applyDefaults(&tun)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Climate config loaded",
		zap.String("name", cfg.Name),
		zap.String("heat_pump", cfg.HeatPump),
		zap.String("room_sensor", cfg.RoomSensor))
	return &cfg, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func (c *Config) applyDefaults(t *tunables) {
	if c.Name == "" {
		c.Name = "Smart Climate"
	}
	c.ComfortTemp = orDefault(t.ComfortTemp, DefaultComfortTemp)
	c.EcoTemp = orDefault(t.EcoTemp, DefaultEcoTemp)
	c.BoostTemp = orDefault(t.BoostTemp, DefaultBoostTemp)
	c.CoolingTemp = orDefault(t.CoolingTemp, DefaultCoolingTemp)
	c.DeadbandBelow = orDefault(t.DeadbandBelow, DefaultDeadband)
	c.DeadbandAbove = orDefault(t.DeadbandAbove, DefaultDeadband)
	c.MaxHouseTemp = orDefault(t.MaxHouseTemp, DefaultMaxHouseTemp)
	c.WeatherCompFactor = orDefault(t.WeatherCompFactor, DefaultWeatherCompFactor)
	c.MaxCompTemp = orDefault(t.MaxCompTemp, DefaultMaxCompTemp)
	c.MinCompTemp = orDefault(t.MinCompTemp, DefaultMinCompTemp)
}

// Validate checks the entity requirements the controller cannot run without.
func (c *Config) Validate() error {
	if c.HeatPump == "" {
		return fmt.Errorf("heat_pump entity is required")
	}
	if c.RoomSensor == "" {
		return fmt.Errorf("room_sensor entity is required")
	}
	if len(c.BedSensors) > 2 {
		return fmt.Errorf("at most two bed_sensors are supported, got %d", len(c.BedSensors))
	}
	if c.MinCompTemp > c.MaxCompTemp {
		return fmt.Errorf("min_comp_temp %.1f exceeds max_comp_temp %.1f", c.MinCompTemp, c.MaxCompTemp)
	}
	return nil
}
