// Package config loads the YAML configuration for the rdm-device
// binary.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openlighting/rdm-responder/pkg/ports"
	"github.com/openlighting/rdm-responder/pkg/responder"
	"github.com/openlighting/rdm-responder/pkg/transport"
	"github.com/openlighting/rdm-responder/pkg/uid"
)

// Config is the top-level configuration file.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	Serial SerialConfig `yaml:"serial"`
}

// DeviceConfig describes the responder identity and its indicator
// pins.
type DeviceConfig struct {
	// UID is the responder UID, e.g. "7a70:01020304".
	UID string `yaml:"uid"`

	Identify PinConfig   `yaml:"identify"`
	Mute     PinConfig   `yaml:"mute"`
	Labels   LabelConfig `yaml:"labels"`
}

// PinConfig names one indicator pin.
type PinConfig struct {
	Channel string `yaml:"channel"`
	Bit     uint8  `yaml:"bit"`
}

// LabelConfig overrides the stock device labels. Empty fields keep
// the defaults.
type LabelConfig struct {
	ModelDescription     string `yaml:"model_description"`
	ManufacturerLabel    string `yaml:"manufacturer_label"`
	SoftwareVersionLabel string `yaml:"software_version_label"`
}

// SerialConfig describes the bus port.
type SerialConfig struct {
	// Address is the serial device, e.g. "/dev/ttyUSB0".
	Address string `yaml:"address"`

	// BaudRate defaults to the DMX512/RDM line rate.
	BaudRate int `yaml:"baud_rate"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields with their defaults. Load calls
// this; flags-only setups call it themselves before Validate.
func (c *Config) ApplyDefaults() {
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = transport.DefaultBaudRate
	}
	if c.Device.Identify.Channel == "" {
		c.Device.Identify.Channel = "D"
	}
	if c.Device.Mute.Channel == "" {
		c.Device.Mute.Channel = "D"
		if c.Device.Mute.Bit == 0 && c.Device.Identify.Bit == 0 {
			c.Device.Mute.Bit = 1
		}
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Device.UID == "" {
		return errors.New("config: device.uid is required")
	}
	if _, err := uid.Parse(c.Device.UID); err != nil {
		return fmt.Errorf("config: device.uid: %w", err)
	}
	if _, err := ports.ParseChannel(c.Device.Identify.Channel); err != nil {
		return fmt.Errorf("config: device.identify: %w", err)
	}
	if _, err := ports.ParseChannel(c.Device.Mute.Channel); err != nil {
		return fmt.Errorf("config: device.mute: %w", err)
	}
	if c.Serial.Address == "" {
		return errors.New("config: serial.address is required")
	}
	return nil
}

// Settings converts the device section into responder settings.
// Validate must have passed.
func (c *Config) Settings() responder.Settings {
	id, _ := uid.Parse(c.Device.UID)
	identifyChannel, _ := ports.ParseChannel(c.Device.Identify.Channel)
	muteChannel, _ := ports.ParseChannel(c.Device.Mute.Channel)

	return responder.Settings{
		UID:                  id,
		IdentifyPin:          ports.Pin{Channel: identifyChannel, Bit: c.Device.Identify.Bit},
		MutePin:              ports.Pin{Channel: muteChannel, Bit: c.Device.Mute.Bit},
		ModelDescription:     c.Device.Labels.ModelDescription,
		ManufacturerLabel:    c.Device.Labels.ManufacturerLabel,
		SoftwareVersionLabel: c.Device.Labels.SoftwareVersionLabel,
	}
}
