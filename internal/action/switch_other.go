//go:build !linux

package action

import (
	"errors"

	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// Switch is only available on Linux.
type Switch struct{}

func NewSwitch() (*Switch, error) {
	return nil, errors.New("uinput tablet-mode switch requires linux")
}

func (*Switch) Apply(posture.Mode) error { return nil }

func (*Switch) Close() error { return nil }
