// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package iio

import "fmt"

// ErrorKind tells an attribute that could not be opened from one that
// could not be read or parsed.
type ErrorKind int

const (
	OpenFailure ErrorKind = iota
	ReadFailure
)

func (k ErrorKind) String() string {
	switch k {
	case OpenFailure:
		return "open"
	case ReadFailure:
		return "read"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// SensorError is returned for any failure to access an accelerometer.
// There is no safe posture to fall back to, so callers treat it as fatal.
type SensorError struct {
	Kind   ErrorKind
	Device string
	Attr   string
	Err    error
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("iio: %s %s/%s: %v", e.Kind, e.Device, e.Attr, e.Err)
}

func (e *SensorError) Unwrap() error {
	return e.Err
}
