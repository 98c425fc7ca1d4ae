// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package posture

import "fmt"

// Mode is the posture the device is considered to be in.
type Mode int

const (
	Laptop Mode = iota
	Tablet
)

func (m Mode) String() string {
	switch m {
	case Laptop:
		return "laptop"
	case Tablet:
		return "tablet"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "laptop":
		return Laptop, nil
	case "tablet":
		return Tablet, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Band limits in degrees. The laptop and tablet bands overlap in
// (-20, 20) and that overlap is the dead zone: no transition can be
// confirmed from inside it.
const (
	laptopMin = -20.0
	laptopMax = 160.0
	tabletMin = 170.0
	tabletMax = 20.0
)

// IsLaptop reports whether angle lies in the laptop band (-20, 160).
func IsLaptop(angle float64) bool {
	return angle > laptopMin && angle < laptopMax
}

// IsTablet reports whether angle lies in the tablet band, (170, 180]
// or [-180, 20).
func IsTablet(angle float64) bool {
	return angle > tabletMin || angle < tabletMax
}

// Classify returns the mode for angle when exactly one band holds.
func Classify(angle float64) (Mode, bool) {
	laptop, tablet := IsLaptop(angle), IsTablet(angle)
	switch {
	case laptop && !tablet:
		return Laptop, true
	case tablet && !laptop:
		return Tablet, true
	}
	return 0, false
}

// Transition reports the mode to switch to when angle has cleared the
// current mode's band and landed in the other one.
func Transition(current Mode, angle float64) (Mode, bool) {
	switch current {
	case Laptop:
		if IsTablet(angle) && !IsLaptop(angle) {
			return Tablet, true
		}
	case Tablet:
		if IsLaptop(angle) && !IsTablet(angle) {
			return Laptop, true
		}
	}
	return current, false
}
