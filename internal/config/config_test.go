package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/tablet_mode/internal/posture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tablet_mode.conf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesStockTuning(t *testing.T) {
	cfg := Default()
	require.Equal(t, "/sys/bus/iio/devices", cfg.IIORoot)
	require.Equal(t, "iio:device1", cfg.BaseDevice)
	require.Equal(t, "iio:device3", cfg.LidDevice)
	require.Equal(t, posture.DefaultConfig(), cfg.Posture())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
# accelerometers
BASE_DEVICE = cros-ec-accel
LID_DEVICE=iio:device4

TICK_RATE_HZ=10
IIR_COEF=0.5
MQTT_BROKER=tcp://localhost:1883
EVDEV_SWITCH=true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "cros-ec-accel", cfg.BaseDevice)
	require.Equal(t, "iio:device4", cfg.LidDevice)
	require.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	require.True(t, cfg.EvdevSwitch)
	require.Equal(t, "tablet_mode/mode", cfg.TopicMode)

	pc := cfg.Posture()
	require.Equal(t, 100*time.Millisecond, pc.Tick)
	require.Equal(t, 0.5, pc.FilterCoef)
	require.Equal(t, 100*time.Millisecond, pc.BootstrapInterval)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "FOO=1\n", `config line 1: unknown config key: "FOO"`},
		{"no equals", "\nBASE_DEVICE\n", "invalid config line 2"},
		{"bad rate", "TICK_RATE_HZ=fast\n", "invalid TICK_RATE_HZ"},
		{"zero rate", "TICK_RATE_HZ=0\n", "TICK_RATE_HZ must be 1-1000"},
		{"bad coef", "IIR_COEF=1.5\n", "IIR_COEF must be in (0, 1]"},
		{"bad bool", "EVDEV_SWITCH=maybe\n", "invalid EVDEV_SWITCH"},
		{"same device", "LID_DEVICE=iio:device1\n", "must differ"},
		{"same location", "BASE_DEVICE=cros-ec-accel@lid\nLID_DEVICE=cros-ec-accel@lid\n", "must differ"},
		{"empty topic", "MQTT_BROKER=tcp://x:1883\nTOPIC_MODE=\n", "TOPIC_MODE and TOPIC_ANGLE are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSharedDriverName(t *testing.T) {
	cfg, err := Load(writeConfig(t, "BASE_DEVICE=cros-ec-accel\nLID_DEVICE=cros-ec-accel\n"))
	require.NoError(t, err)
	require.Equal(t, "cros-ec-accel", cfg.BaseDevice)
	require.Equal(t, "cros-ec-accel", cfg.LidDevice)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.conf"))
	require.ErrorContains(t, err, "failed to open config file")
}
