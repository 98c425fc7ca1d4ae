// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package action holds the things that happen when the device changes
// posture: running the user's hook, flipping the kernel tablet-mode
// switch, and announcing the mode over MQTT.
package action

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// Multi applies every action in order. All of them run even when an
// earlier one fails; the failures are joined.
type Multi []posture.Action

func (m Multi) Apply(mode posture.Mode) error {
	var errs []error
	for _, a := range m {
		if err := a.Apply(mode); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Logger prints "mode: <name>" on stdout for every confirmed mode, with
// no timestamp, so scripts can follow the daemon's output. Out overrides
// stdout.
type Logger struct {
	Out io.Writer
}

func (l Logger) Apply(mode posture.Mode) error {
	out := l.Out
	if out == nil {
		out = os.Stdout
	}
	if _, err := fmt.Fprintf(out, "mode: %s\n", mode); err != nil {
		return fmt.Errorf("mode line: %w", err)
	}
	return nil
}

// Func adapts a plain function.
type Func func(posture.Mode) error

func (f Func) Apply(mode posture.Mode) error {
	return f(mode)
}
