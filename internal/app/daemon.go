// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/relabs-tech/tablet_mode/internal/action"
	"github.com/relabs-tech/tablet_mode/internal/config"
	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// RunDaemon watches the accelerometers and runs hookPath on every mode
// change until ctx is cancelled. Sensor failures are returned as
// *iio.SensorError and must end the process.
func RunDaemon(ctx context.Context, cfg *config.Config, hookPath string) error {
	base, lid, err := openSensors(cfg)
	if err != nil {
		return err
	}
	defer base.Close()
	defer lid.Close()

	actions := action.Multi{
		action.Logger{},
		action.Hook{Path: hookPath},
	}

	if cfg.EvdevSwitch {
		sw, err := action.NewSwitch()
		if err != nil {
			return err
		}
		defer sw.Close()
		actions = append(actions, sw)
	}

	m := posture.NewMachine(base, lid, cfg.Posture())

	if cfg.MQTTBroker != "" {
		pub, err := action.DialMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDaemon, cfg.TopicMode, cfg.TopicAngle)
		if err != nil {
			return err
		}
		defer pub.Close()
		actions = append(actions, pub)
		m.SetObserver(pub.PublishReading)
	}

	log.Printf("posture: waiting for an unambiguous initial posture (hook %s)", hookPath)

	err = m.Run(ctx, actions)
	if errors.Is(err, context.Canceled) {
		log.Println("posture: shutting down")
		return nil
	}
	if err != nil {
		return fmt.Errorf("posture: %w", err)
	}
	return nil
}
