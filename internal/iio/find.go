package iio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const devicePrefix = "iio:device"

// Device is an accelerometer found by FindByName.
type Device struct {
	Dir      string // directory name under root, e.g. "iio:device1"
	Location string // "base", "lid" or empty when the driver does not say
}

// IsIndex reports whether id names a device directory directly.
func IsIndex(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), devicePrefix)
}

// Resolve maps id to a device directory name under root.
//
// An id that already looks like "iio:deviceN" is returned untouched.
// Otherwise id is "name" or "name@location" and is matched against each
// device's name and location attributes, which survive reboots where the
// numeric index may not. cros-ec exposes both accelerometers under the
// same name, so a bare name matching several devices picks the one whose
// location equals role.
func Resolve(root, id, role string) (string, error) {
	id = strings.TrimSpace(id)
	if IsIndex(id) {
		return id, nil
	}
	name, location, explicit := strings.Cut(id, "@")

	devs, err := FindByName(root, name)
	if err != nil {
		return "", err
	}
	if !explicit && len(devs) == 1 {
		return devs[0].Dir, nil
	}
	if !explicit {
		location = role
	}
	for _, d := range devs {
		if d.Location == location {
			return d.Dir, nil
		}
	}
	if !explicit {
		return devs[0].Dir, nil
	}
	return "", &SensorError{
		Kind:   OpenFailure,
		Device: id,
		Attr:   "location",
		Err:    fmt.Errorf("no accelerometer named %q at location %q under %s", name, location, root),
	}
}

// FindByName returns every device (in index order) whose name attribute
// equals name and which exposes Y and Z accel channels. It fails when
// there is none.
func FindByName(root, name string) ([]Device, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &SensorError{Kind: OpenFailure, Device: name, Attr: "name", Err: err}
	}

	var dirs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), devicePrefix) {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)

	var devs []Device
	for _, dev := range dirs {
		dir := filepath.Join(root, dev)
		if readTrimmed(filepath.Join(dir, "name")) != name {
			continue
		}
		if !fileExists(filepath.Join(dir, "in_accel_y_raw")) || !fileExists(filepath.Join(dir, "in_accel_z_raw")) {
			continue
		}
		devs = append(devs, Device{Dir: dev, Location: readTrimmed(filepath.Join(dir, "location"))})
	}
	if len(devs) == 0 {
		return nil, &SensorError{
			Kind:   OpenFailure,
			Device: name,
			Attr:   "name",
			Err:    fmt.Errorf("no accelerometer named %q under %s", name, root),
		}
	}
	return devs, nil
}

// readTrimmed returns the attribute at path, or "" when it is unreadable.
func readTrimmed(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
