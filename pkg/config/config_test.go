package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openlighting/rdm-responder/pkg/ports"
	"github.com/openlighting/rdm-responder/pkg/transport"
	"github.com/openlighting/rdm-responder/pkg/uid"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
device:
  uid: "7a70:01020304"
  identify:
    channel: D
    bit: 0
  mute:
    channel: D
    bit: 1
  labels:
    model_description: "Fog Machine"
serial:
  address: /dev/ttyUSB0
  baud_rate: 115200
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Serial.Address != "/dev/ttyUSB0" {
		t.Errorf("Serial.Address = %q, want /dev/ttyUSB0", cfg.Serial.Address)
	}
	if cfg.Serial.BaudRate != 115200 {
		t.Errorf("Serial.BaudRate = %d, want 115200", cfg.Serial.BaudRate)
	}

	settings := cfg.Settings()
	if want := uid.New(0x7a70, 0x01020304); settings.UID != want {
		t.Errorf("Settings().UID = %v, want %v", settings.UID, want)
	}
	if want := (ports.Pin{Channel: ports.ChannelD, Bit: 1}); settings.MutePin != want {
		t.Errorf("Settings().MutePin = %v, want %v", settings.MutePin, want)
	}
	if settings.ModelDescription != "Fog Machine" {
		t.Errorf("Settings().ModelDescription = %q, want \"Fog Machine\"", settings.ModelDescription)
	}
	if settings.ManufacturerLabel != "" {
		t.Errorf("Settings().ManufacturerLabel = %q, want empty (use stock label)", settings.ManufacturerLabel)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
device:
  uid: "7a70:01020304"
serial:
  address: /dev/ttyUSB0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Serial.BaudRate != transport.DefaultBaudRate {
		t.Errorf("Serial.BaudRate = %d, want %d", cfg.Serial.BaudRate, transport.DefaultBaudRate)
	}

	settings := cfg.Settings()
	if want := (ports.Pin{Channel: ports.ChannelD, Bit: 0}); settings.IdentifyPin != want {
		t.Errorf("Settings().IdentifyPin = %v, want %v", settings.IdentifyPin, want)
	}
	// The mute pin moves off the identify pin's default.
	if want := (ports.Pin{Channel: ports.ChannelD, Bit: 1}); settings.MutePin != want {
		t.Errorf("Settings().MutePin = %v, want %v", settings.MutePin, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			"missing uid",
			"serial:\n  address: /dev/ttyUSB0\n",
			"device.uid is required",
		},
		{
			"malformed uid",
			"device:\n  uid: \"banana\"\nserial:\n  address: /dev/ttyUSB0\n",
			"device.uid",
		},
		{
			"bad identify channel",
			"device:\n  uid: \"7a70:01020304\"\n  identify:\n    channel: Z\nserial:\n  address: /dev/ttyUSB0\n",
			"device.identify",
		},
		{
			"missing address",
			"device:\n  uid: \"7a70:01020304\"\n",
			"serial.address is required",
		},
		{
			"not yaml",
			"{{{{",
			"parse",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() succeeded for a missing file, want error")
	}
}
