// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tablet_mode/internal/action"
	"github.com/relabs-tech/tablet_mode/internal/config"
	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// RunConsoleMQTT prints mode changes and, when verbose, every reading the
// daemon publishes.
func RunConsoleMQTT(cfg *config.Config, verbose bool) error {
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is not configured")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to mode (retained, so the current mode arrives at once)
	modeToken := client.Subscribe(cfg.TopicMode, 1, func(_ mqtt.Client, msg mqtt.Message) {
		m, err := decodeMode(msg.Payload())
		if err != nil {
			log.Printf("console: %v", err)
			return
		}
		fmt.Println(formatMode(m))
	})
	modeToken.Wait()
	if modeToken.Error() != nil {
		return modeToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicMode)

	if verbose {
		angleToken := client.Subscribe(cfg.TopicAngle, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var r posture.Reading
			if err := json.Unmarshal(msg.Payload(), &r); err != nil {
				log.Printf("console: reading unmarshal error: %v", err)
				return
			}
			fmt.Println(formatReading(r))
		})
		angleToken.Wait()
		if angleToken.Error() != nil {
			return angleToken.Error()
		}
		log.Printf("console: subscribed to %s", cfg.TopicAngle)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

// decodeMode parses a mode topic payload and checks that it names a
// known mode.
func decodeMode(payload []byte) (action.ModeMessage, error) {
	var m action.ModeMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return m, fmt.Errorf("mode unmarshal: %w", err)
	}
	if _, err := posture.ParseMode(m.Mode); err != nil {
		return m, fmt.Errorf("mode payload: %w", err)
	}
	return m, nil
}

func formatMode(m action.ModeMessage) string {
	return fmt.Sprintf("[MODE]  %-6s  at %s", m.Mode, m.Time)
}

func formatReading(r posture.Reading) string {
	if !r.Valid {
		return fmt.Sprintf(
			"[ANGLE] rejected  |base|=%5.2f |lid|=%5.2f",
			r.Base.Norm(), r.Lid.Norm(),
		)
	}
	return fmt.Sprintf(
		"[ANGLE] raw=%7.2f  avg=%7.2f  mode=%s",
		r.Angle, r.Smoothed, r.Mode,
	)
}
