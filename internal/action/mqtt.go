// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package action

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tablet_mode/internal/posture"
)

const publishTimeout = 2 * time.Second

// ModeMessage is the retained payload published on the mode topic.
type ModeMessage struct {
	Mode string `json:"mode"`
	Time string `json:"time"` // RFC3339
}

// MQTT announces confirmed modes (retained, QoS 1) and streams every
// reading as telemetry (QoS 0).
type MQTT struct {
	client     mqtt.Client
	topicMode  string
	topicAngle string
	now        func() time.Time

	// last telemetry publish, checked on the next one
	pending mqtt.Token
}

// DialMQTT connects to broker and returns a publisher.
func DialMQTT(broker, clientID, topicMode, topicAngle string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	log.Printf("mqtt: connected to %s as %s", broker, clientID)
	return NewMQTT(client, topicMode, topicAngle), nil
}

// NewMQTT wraps an already connected client.
func NewMQTT(client mqtt.Client, topicMode, topicAngle string) *MQTT {
	return &MQTT{
		client:     client,
		topicMode:  topicMode,
		topicAngle: topicAngle,
		now:        time.Now,
	}
}

func (p *MQTT) Apply(mode posture.Mode) error {
	payload, err := json.Marshal(ModeMessage{
		Mode: mode.String(),
		Time: p.now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("mode marshal: %w", err)
	}
	token := p.client.Publish(p.topicMode, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("MQTT publish %s: timed out", p.topicMode)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("MQTT publish %s: %w", p.topicMode, err)
	}
	return nil
}

// PublishReading sends r on the angle topic without waiting for the
// broker. The outcome of the previous telemetry publish is logged here,
// so a failing broker shows up at most one tick late.
func (p *MQTT) PublishReading(r posture.Reading) {
	if err := p.checkPending(); err != nil {
		log.Printf("mqtt: publish error (%s): %v", p.topicAngle, err)
	}
	payload, err := json.Marshal(r)
	if err != nil {
		log.Printf("mqtt: reading marshal error: %v", err)
		return
	}
	p.pending = p.client.Publish(p.topicAngle, 0, false, payload)
}

// checkPending returns the error of the previous telemetry publish once
// it has completed. A publish still in flight is dropped unchecked.
func (p *MQTT) checkPending() error {
	token := p.pending
	p.pending = nil
	if token == nil {
		return nil
	}
	select {
	case <-token.Done():
		return token.Error()
	default:
		return nil
	}
}

// Close disconnects, giving in-flight messages 250ms to drain.
func (p *MQTT) Close() {
	p.client.Disconnect(250)
}
