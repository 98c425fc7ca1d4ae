// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/relabs-tech/tablet_mode/internal/iio"
	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// Config holds all application configuration values.
type Config struct {
	// Accelerometers
	IIORoot    string
	BaseDevice string // "iio:deviceN", "name" or "name@location"
	LidDevice  string

	// Detection tuning
	TickRateHz          int
	BootstrapIntervalMS int
	IIRCoef             float64
	SkewLimit           float64 // m/s²
	Gravity             float64 // m/s²

	// MQTT (disabled when MQTTBroker is empty)
	MQTTBroker          string
	MQTTClientIDDaemon  string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string

	// Topics
	TopicMode  string
	TopicAngle string

	// Emit SW_TABLET_MODE through a uinput device
	EvdevSwitch bool

	// Web Server
	WebServerPort int
}

// Default returns the configuration used when no file is given. It
// matches the stock Chromebook layout: base on iio:device1, lid on
// iio:device3.
func Default() *Config {
	return &Config{
		IIORoot:             iio.DefaultRoot,
		BaseDevice:          "iio:device1",
		LidDevice:           "iio:device3",
		TickRateHz:          posture.DefaultTickRate,
		BootstrapIntervalMS: int(posture.DefaultBootstrapInterval / time.Millisecond),
		IIRCoef:             posture.DefaultFilterCoef,
		SkewLimit:           posture.DefaultSkewLimit,
		Gravity:             posture.DefaultGravity,
		MQTTClientIDDaemon:  "tablet-mode-daemon",
		MQTTClientIDConsole: "tablet-mode-console",
		MQTTClientIDWeb:     "tablet-mode-web",
		TopicMode:           "tablet_mode/mode",
		TopicAngle:          "tablet_mode/angle",
		WebServerPort:       8080,
	}
}

// Load reads the configuration file on top of Default.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads configPath, or returns Default when it is empty.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}
	return Load(configPath)
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Accelerometers
	case "IIO_ROOT":
		c.IIORoot = value
	case "BASE_DEVICE":
		c.BaseDevice = value
	case "LID_DEVICE":
		c.LidDevice = value

	// Detection tuning
	case "TICK_RATE_HZ":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TICK_RATE_HZ %q: %w", value, err)
		}
		if rate < 1 || rate > 1000 {
			return fmt.Errorf("TICK_RATE_HZ must be 1-1000, got %d", rate)
		}
		c.TickRateHz = rate
	case "BOOTSTRAP_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid BOOTSTRAP_INTERVAL_MS %q: %w", value, err)
		}
		if interval < 1 {
			return fmt.Errorf("BOOTSTRAP_INTERVAL_MS must be positive, got %d", interval)
		}
		c.BootstrapIntervalMS = interval
	case "IIR_COEF":
		coef, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid IIR_COEF %q: %w", value, err)
		}
		if coef <= 0 || coef > 1 {
			return fmt.Errorf("IIR_COEF must be in (0, 1], got %g", coef)
		}
		c.IIRCoef = coef
	case "SKEW_LIMIT":
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SKEW_LIMIT %q: %w", value, err)
		}
		if limit <= 0 {
			return fmt.Errorf("SKEW_LIMIT must be positive, got %g", limit)
		}
		c.SkewLimit = limit
	case "GRAVITY":
		g, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid GRAVITY %q: %w", value, err)
		}
		if g <= 0 {
			return fmt.Errorf("GRAVITY must be positive, got %g", g)
		}
		c.Gravity = g

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_DAEMON":
		c.MQTTClientIDDaemon = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_MODE":
		c.TopicMode = value
	case "TOPIC_ANGLE":
		c.TopicAngle = value

	// Evdev
	case "EVDEV_SWITCH":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid EVDEV_SWITCH %q: %w", value, err)
		}
		c.EvdevSwitch = on

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.IIORoot == "" {
		return fmt.Errorf("IIO_ROOT is required")
	}
	if c.BaseDevice == "" {
		return fmt.Errorf("BASE_DEVICE is required")
	}
	if c.LidDevice == "" {
		return fmt.Errorf("LID_DEVICE is required")
	}
	// A bare driver name may be shared by both accelerometers; it is told
	// apart by location when the devices are resolved.
	if c.BaseDevice == c.LidDevice && (iio.IsIndex(c.BaseDevice) || strings.Contains(c.BaseDevice, "@")) {
		return fmt.Errorf("BASE_DEVICE and LID_DEVICE must differ, both are %q", c.BaseDevice)
	}
	if c.MQTTBroker != "" && (c.TopicMode == "" || c.TopicAngle == "") {
		return fmt.Errorf("TOPIC_MODE and TOPIC_ANGLE are required when MQTT_BROKER is set")
	}
	return nil
}

// Posture converts the detection settings into a posture.Config.
func (c *Config) Posture() posture.Config {
	return posture.Config{
		Estimator: posture.Estimator{
			SkewLimit: c.SkewLimit,
			Gravity:   c.Gravity,
		},
		FilterCoef:        c.IIRCoef,
		Tick:              time.Second / time.Duration(c.TickRateHz),
		BootstrapInterval: time.Duration(c.BootstrapIntervalMS) * time.Millisecond,
	}
}
