// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/tablet_mode/internal/action"
	"github.com/relabs-tech/tablet_mode/internal/config"
	"github.com/relabs-tech/tablet_mode/internal/posture"
)

const wsWriteTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsMessage is the envelope pushed to websocket clients.
// Type is "snapshot", "mode" or "reading".
type wsMessage struct {
	Type    string              `json:"type"`
	Mode    *action.ModeMessage `json:"mode,omitempty"`
	Reading *posture.Reading    `json:"reading,omitempty"`
}

// postureState is the latest data seen on MQTT plus the connected
// websocket clients.
type postureState struct {
	mu          sync.RWMutex
	mode        action.ModeMessage
	haveMode    bool
	reading     posture.Reading
	haveReading bool

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}
}

func newPostureState() *postureState {
	return &postureState{conns: make(map[*websocket.Conn]struct{})}
}

func (s *postureState) snapshot() wsMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg := wsMessage{Type: "snapshot"}
	if s.haveMode {
		m := s.mode
		msg.Mode = &m
	}
	if s.haveReading {
		r := s.reading
		msg.Reading = &r
	}
	return msg
}

func (s *postureState) onMode(payload []byte) error {
	m, err := decodeMode(payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.mode = m
	s.haveMode = true
	s.mu.Unlock()

	s.broadcast(wsMessage{Type: "mode", Mode: &m})
	return nil
}

func (s *postureState) onReading(payload []byte) error {
	var r posture.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("reading unmarshal: %w", err)
	}
	s.mu.Lock()
	s.reading = r
	s.haveReading = true
	s.mu.Unlock()

	s.broadcast(wsMessage{Type: "reading", Reading: &r})
	return nil
}

// broadcast writes msg to every client. Clients that cannot keep up are
// dropped.
func (s *postureState) broadcast(msg wsMessage) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	for c := range s.conns {
		c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.WriteJSON(msg); err != nil {
			log.Printf("web: dropping websocket client %s: %v", c.RemoteAddr(), err)
			c.Close()
			delete(s.conns, c)
		}
	}
}

func (s *postureState) handlePosture(w http.ResponseWriter, r *http.Request) {
	msg := s.snapshot()
	if msg.Mode == nil && msg.Reading == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *postureState) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	// Register and send the snapshot under the same lock so the client
	// never sees a broadcast before its snapshot.
	s.connMu.Lock()
	s.conns[conn] = struct{}{}
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	err = conn.WriteJSON(s.snapshot())
	s.connMu.Unlock()
	if err != nil {
		log.Printf("web: websocket snapshot error: %v", err)
		s.drop(conn)
		return
	}

	// Clients never send anything meaningful; reading only detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("web: websocket error: %v", err)
			}
			break
		}
	}
	s.drop(conn)
}

func (s *postureState) drop(conn *websocket.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
	conn.Close()
}

func (s *postureState) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/posture", s.handlePosture)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// RunWeb serves the latest posture over HTTP and streams updates over a
// websocket, fed from the daemon's MQTT topics.
func RunWeb(cfg *config.Config) error {
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is not configured")
	}
	state := newPostureState()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	subs := []struct {
		topic string
		qos   byte
		fn    func([]byte) error
	}{
		{cfg.TopicMode, 1, state.onMode},
		{cfg.TopicAngle, 0, state.onReading},
	}
	for _, sub := range subs {
		fn := sub.fn
		token := client.Subscribe(sub.topic, sub.qos, func(_ mqtt.Client, msg mqtt.Message) {
			if err := fn(msg.Payload()); err != nil {
				log.Printf("web: %s: %v", msg.Topic(), err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("web: subscribed to MQTT topic %s", sub.topic)
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, state.routes())
}
