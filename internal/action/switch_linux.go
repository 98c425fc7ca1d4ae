// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build linux

package action

import (
	"fmt"
	"log"
	"syscall"
	"time"

	"github.com/holoplot/go-evdev"

	"github.com/relabs-tech/tablet_mode/internal/posture"
)

const switchDeviceName = "Software Tablet Mode Switch"

// Switch is a virtual input device carrying SW_TABLET_MODE, so desktops
// that already listen for the kernel switch (libinput, GNOME, KDE) react
// without any hook script.
type Switch struct {
	dev *evdev.InputDevice
}

// NewSwitch creates the uinput device. It needs write access to
// /dev/uinput.
func NewSwitch() (*Switch, error) {
	dev, err := evdev.CreateDevice(
		switchDeviceName,
		evdev.InputID{
			BusType: 0x03,
			Vendor:  0x4711,
			Product: 0x0817,
			Version: 1,
		},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_SW: {
				evdev.SW_TABLET_MODE,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create uinput switch: %w", err)
	}
	log.Printf("evdev: created %q", switchDeviceName)
	return &Switch{dev: dev}, nil
}

func (s *Switch) Apply(mode posture.Mode) error {
	evTime := syscall.NsecToTimeval(time.Now().UnixNano())
	var value int32
	if mode == posture.Tablet {
		value = 1
	}

	if err := s.dev.WriteOne(&evdev.InputEvent{
		Time:  evTime,
		Type:  evdev.EV_SW,
		Code:  evdev.SW_TABLET_MODE,
		Value: value,
	}); err != nil {
		return fmt.Errorf("write SW_TABLET_MODE: %w", err)
	}
	if err := s.dev.WriteOne(&evdev.InputEvent{
		Time:  evTime,
		Type:  evdev.EV_SYN,
		Code:  evdev.SYN_REPORT,
		Value: 0,
	}); err != nil {
		return fmt.Errorf("write SYN_REPORT: %w", err)
	}
	return nil
}

// Close destroys the virtual device.
func (s *Switch) Close() error {
	return s.dev.Close()
}
