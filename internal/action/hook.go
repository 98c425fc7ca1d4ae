// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package action

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// Hook runs an executable with the mode name as its only argument and
// waits for it to exit. The exit status is not inspected: a hook that
// ran and failed is the hook's business. Only a failure to launch is
// reported.
type Hook struct {
	Path string
}

func (h Hook) Apply(mode posture.Mode) error {
	cmd := exec.Command(h.Path, mode.String())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err == nil || errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("hook %s: %w", h.Path, err)
}
