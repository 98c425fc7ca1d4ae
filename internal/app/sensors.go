// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/relabs-tech/tablet_mode/internal/config"
	"github.com/relabs-tech/tablet_mode/internal/iio"
)

// openSensors resolves and opens the base and lid accelerometers.
func openSensors(cfg *config.Config) (base, lid *iio.Accel, err error) {
	baseDev, err := iio.Resolve(cfg.IIORoot, cfg.BaseDevice, "base")
	if err != nil {
		return nil, nil, err
	}
	lidDev, err := iio.Resolve(cfg.IIORoot, cfg.LidDevice, "lid")
	if err != nil {
		return nil, nil, err
	}
	if baseDev == lidDev {
		return nil, nil, fmt.Errorf("base (%s) and lid (%s) both resolve to %s", cfg.BaseDevice, cfg.LidDevice, baseDev)
	}

	base, err = iio.Open(cfg.IIORoot, baseDev, "base")
	if err != nil {
		return nil, nil, err
	}
	lid, err = iio.Open(cfg.IIORoot, lidDev, "lid")
	if err != nil {
		base.Close()
		return nil, nil, err
	}
	return base, lid, nil
}
