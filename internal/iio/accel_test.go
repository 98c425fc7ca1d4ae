package iio

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeAttr(t *testing.T, dir, attr, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, attr), []byte(value), 0o644))
}

func fakeDevice(t *testing.T, root, dev, name, scale, y, z string) string {
	t.Helper()
	dir := filepath.Join(root, dev)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeAttr(t, dir, "name", name+"\n")
	if scale != "" {
		writeAttr(t, dir, "scale", scale+"\n")
	}
	writeAttr(t, dir, "in_accel_y_raw", y+"\n")
	writeAttr(t, dir, "in_accel_z_raw", z+"\n")
	return dir
}

func TestOpenAndReadScaled(t *testing.T) {
	root := t.TempDir()
	fakeDevice(t, root, "iio:device1", "cros-ec-accel", "0.009576", "-12", "1024")

	a, err := Open(root, "iio:device1", "base")
	require.NoError(t, err)
	defer a.Close()

	require.Equal(t, 0.009576, a.scale)

	s, err := a.Next()
	require.NoError(t, err)
	require.InDelta(t, -12*0.009576, s.Y, 1e-12)
	require.InDelta(t, 1024*0.009576, s.Z, 1e-12)
}

func TestNextRearmsChannels(t *testing.T) {
	root := t.TempDir()
	dir := fakeDevice(t, root, "iio:device3", "cros-ec-accel", "0.5", "2", "4")

	a, err := Open(root, "iio:device3", "lid")
	require.NoError(t, err)
	defer a.Close()

	for i, raw := range [][2]int{{2, 4}, {-6, 10}, {100, -100}} {
		writeAttr(t, dir, "in_accel_y_raw", strconv.Itoa(raw[0])+"\n")
		writeAttr(t, dir, "in_accel_z_raw", strconv.Itoa(raw[1])+"\n")

		s, err := a.Next()
		require.NoError(t, err, "read %d", i)
		require.Equal(t, float64(raw[0])*0.5, s.Y)
		require.Equal(t, float64(raw[1])*0.5, s.Z)
	}
}

func TestOpenMissingScale(t *testing.T) {
	root := t.TempDir()
	fakeDevice(t, root, "iio:device1", "accel", "", "1", "1")

	_, err := Open(root, "iio:device1", "base")
	var se *SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, OpenFailure, se.Kind)
	require.Equal(t, "scale", se.Attr)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenMissingChannel(t *testing.T) {
	root := t.TempDir()
	dir := fakeDevice(t, root, "iio:device1", "accel", "0.1", "1", "1")
	require.NoError(t, os.Remove(filepath.Join(dir, "in_accel_z_raw")))

	_, err := Open(root, "iio:device1", "base")
	var se *SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, OpenFailure, se.Kind)
	require.Equal(t, "in_accel_z_raw", se.Attr)
}

func TestOpenBadScale(t *testing.T) {
	root := t.TempDir()
	fakeDevice(t, root, "iio:device1", "accel", "fast", "1", "1")

	_, err := Open(root, "iio:device1", "base")
	var se *SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, ReadFailure, se.Kind)
}

func TestNextReadFailures(t *testing.T) {
	root := t.TempDir()
	dir := fakeDevice(t, root, "iio:device1", "accel", "0.1", "1", "1")

	a, err := Open(root, "iio:device1", "base")
	require.NoError(t, err)
	defer a.Close()

	writeAttr(t, dir, "in_accel_y_raw", "garbage\n")
	_, err = a.Next()
	var se *SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, ReadFailure, se.Kind)
	require.Equal(t, "in_accel_y_raw", se.Attr)

	writeAttr(t, dir, "in_accel_y_raw", "1\n")
	writeAttr(t, dir, "in_accel_z_raw", "")
	_, err = a.Next()
	require.True(t, errors.As(err, &se))
	require.Equal(t, ReadFailure, se.Kind)
	require.Equal(t, "in_accel_z_raw", se.Attr)
	require.Contains(t, err.Error(), "iio: read iio:device1/in_accel_z_raw")
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	fakeDevice(t, root, "iio:device0", "cros-ec-light", "1", "0", "0")
	require.NoError(t, os.Remove(filepath.Join(root, "iio:device0", "in_accel_y_raw")))
	fakeDevice(t, root, "iio:device2", "bmi160", "0.1", "0", "0")

	dev, err := Resolve(root, "iio:device7", "base")
	require.NoError(t, err)
	require.Equal(t, "iio:device7", dev)

	dev, err = Resolve(root, "bmi160", "lid")
	require.NoError(t, err)
	require.Equal(t, "iio:device2", dev)

	_, err = Resolve(root, "cros-ec-light", "base")
	var se *SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, OpenFailure, se.Kind)
}

func TestResolveSharedNameByLocation(t *testing.T) {
	root := t.TempDir()
	lid := fakeDevice(t, root, "iio:device1", "cros-ec-accel", "0.1", "0", "0")
	writeAttr(t, lid, "location", "lid\n")
	base := fakeDevice(t, root, "iio:device3", "cros-ec-accel", "0.1", "0", "0")
	writeAttr(t, base, "location", "base\n")

	devs, err := FindByName(root, "cros-ec-accel")
	require.NoError(t, err)
	require.Equal(t, []Device{{Dir: "iio:device1", Location: "lid"}, {Dir: "iio:device3", Location: "base"}}, devs)

	tests := []struct {
		id, role, want string
	}{
		{"cros-ec-accel", "base", "iio:device3"},
		{"cros-ec-accel", "lid", "iio:device1"},
		{"cros-ec-accel@lid", "base", "iio:device1"},
		{"cros-ec-accel@base", "lid", "iio:device3"},
	}
	for _, tt := range tests {
		dev, err := Resolve(root, tt.id, tt.role)
		require.NoError(t, err, "%s as %s", tt.id, tt.role)
		require.Equal(t, tt.want, dev, "%s as %s", tt.id, tt.role)
	}

	_, err = Resolve(root, "cros-ec-accel@camera", "base")
	var se *SensorError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "location", se.Attr)
}

func TestResolveSharedNameWithoutLocation(t *testing.T) {
	root := t.TempDir()
	fakeDevice(t, root, "iio:device1", "accel", "0.1", "0", "0")
	fakeDevice(t, root, "iio:device3", "accel", "0.1", "0", "0")

	// Nothing to tell them apart: both roles get the first device and the
	// caller has to reject the pair.
	base, err := Resolve(root, "accel", "base")
	require.NoError(t, err)
	lid, err := Resolve(root, "accel", "lid")
	require.NoError(t, err)
	require.Equal(t, "iio:device1", base)
	require.Equal(t, base, lid)
}
