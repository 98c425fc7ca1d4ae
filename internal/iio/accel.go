// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package iio reads accelerometers exposed by the Linux Industrial I/O
// subsystem under /sys/bus/iio/devices.
package iio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// DefaultRoot is where the kernel publishes IIO devices.
const DefaultRoot = "/sys/bus/iio/devices"

// attrBufSize is large enough for any integer or scale attribute.
const attrBufSize = 20

// Accel is an open accelerometer. The Y and Z raw channels stay open for
// the lifetime of the value; every read rewinds them so the next read
// triggers a fresh conversion.
type Accel struct {
	name  string // "base" or "lid" for logging
	dev   string
	scale float64
	y     *os.File
	z     *os.File
}

// Open reads the scale of device under root once and opens its Y and Z
// raw channels. name is only used in log and error messages.
func Open(root, device, name string) (*Accel, error) {
	dir := filepath.Join(root, device)

	scale, err := readScale(dir, device)
	if err != nil {
		return nil, err
	}

	y, err := openAttr(dir, device, "in_accel_y_raw")
	if err != nil {
		return nil, err
	}
	z, err := openAttr(dir, device, "in_accel_z_raw")
	if err != nil {
		y.Close()
		return nil, err
	}

	log.Printf("iio: %s accelerometer %s opened (scale=%g)", name, device, scale)
	return &Accel{name: name, dev: device, scale: scale, y: y, z: z}, nil
}

// Next reads both channels and returns the scaled sample.
func (a *Accel) Next() (posture.Sample, error) {
	y, err := a.readRaw(a.y, "in_accel_y_raw")
	if err != nil {
		return posture.Sample{}, err
	}
	z, err := a.readRaw(a.z, "in_accel_z_raw")
	if err != nil {
		return posture.Sample{}, err
	}
	return posture.Sample{Y: float64(y) * a.scale, Z: float64(z) * a.scale}, nil
}

// Close releases both channels.
func (a *Accel) Close() error {
	return errors.Join(a.y.Close(), a.z.Close())
}

func (a *Accel) readRaw(f *os.File, attr string) (int64, error) {
	s, err := readRearm(f)
	if err != nil {
		return 0, &SensorError{Kind: ReadFailure, Device: a.dev, Attr: attr, Err: err}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &SensorError{Kind: ReadFailure, Device: a.dev, Attr: attr, Err: err}
	}
	return v, nil
}

// readRearm reads one value from f and seeks back to the start.
func readRearm(f *os.File) (string, error) {
	var buf [attrBufSize]byte
	n, err := f.Read(buf[:])
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			err = errors.New("empty attribute")
		}
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind: %w", err)
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

func openAttr(dir, device, attr string) (*os.File, error) {
	f, err := os.Open(filepath.Join(dir, attr))
	if err != nil {
		return nil, &SensorError{Kind: OpenFailure, Device: device, Attr: attr, Err: err}
	}
	return f, nil
}

func readScale(dir, device string) (float64, error) {
	f, err := openAttr(dir, device, "scale")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	s, err := readRearm(f)
	if err != nil {
		return 0, &SensorError{Kind: ReadFailure, Device: device, Attr: "scale", Err: err}
	}
	scale, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &SensorError{Kind: ReadFailure, Device: device, Attr: "scale", Err: err}
	}
	return scale, nil
}
