package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/tablet_mode/internal/config"
	"github.com/relabs-tech/tablet_mode/internal/iio"
)

// setRaw overwrites a raw channel in place, without truncating, so a
// concurrent reader never sees an empty attribute.
func setRaw(t *testing.T, dir, attr string, v int) {
	t.Helper()
	f, err := os.OpenFile(filepath.Join(dir, attr), os.O_WRONLY|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteAt([]byte(fmt.Sprintf("%6d\n", v)), 0)
	require.NoError(t, err)
}

func fakeAccel(t *testing.T, root, dev string, y, z int) string {
	t.Helper()
	dir := filepath.Join(root, dev)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scale"), []byte("0.01\n"), 0o644))
	setRaw(t, dir, "in_accel_y_raw", y)
	setRaw(t, dir, "in_accel_z_raw", z)
	return dir
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.IIORoot = root
	cfg.TickRateHz = 100
	cfg.BootstrapIntervalMS = 5
	return cfg
}

func TestRunDaemonRunsHookOnEveryMode(t *testing.T) {
	root := t.TempDir()
	fakeAccel(t, root, "iio:device1", 0, 981)
	lid := fakeAccel(t, root, "iio:device3", 981, 0) // 90°: laptop

	out := filepath.Join(t.TempDir(), "modes")
	hook := filepath.Join(t.TempDir(), "hook.sh")
	require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\necho \"$1\" >> "+out+"\n"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunDaemon(ctx, testConfig(root), hook) }()

	hookOutput := func() string {
		b, _ := os.ReadFile(out)
		return string(b)
	}
	require.Eventually(t, func() bool { return hookOutput() == "laptop\n" }, 5*time.Second, 10*time.Millisecond)

	// Fold the lid flat against the back of the base: 180°.
	setRaw(t, lid, "in_accel_z_raw", -981)
	setRaw(t, lid, "in_accel_y_raw", 0)
	require.Eventually(t, func() bool { return hookOutput() == "laptop\ntablet\n" }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}
}

func TestRunDaemonMissingSensorIsFatal(t *testing.T) {
	root := t.TempDir()
	fakeAccel(t, root, "iio:device1", 0, 981)

	err := RunDaemon(context.Background(), testConfig(root), "/bin/true")
	var se *iio.SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, iio.OpenFailure, se.Kind)
	require.Equal(t, "iio:device3", se.Device)
}

func TestRunDaemonSensorReadFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	fakeAccel(t, root, "iio:device1", 0, 981)
	lid := fakeAccel(t, root, "iio:device3", 981, 0)

	// Unparsable after open: the very first sample fails.
	require.NoError(t, os.WriteFile(filepath.Join(lid, "in_accel_y_raw"), []byte("oops\n"), 0o644))

	err := RunDaemon(context.Background(), testConfig(root), "/bin/true")
	var se *iio.SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, iio.ReadFailure, se.Kind)
	require.Equal(t, "in_accel_y_raw", se.Attr)
}
