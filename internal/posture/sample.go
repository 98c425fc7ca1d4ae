// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package posture

import (
	"math"
	"time"
)

// Sample is a single in-plane acceleration reading in m/s².
// Y runs across the panel, Z is perpendicular to it. The hinge-parallel
// X axis carries no information about the fold angle and is not read.
type Sample struct {
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the Euclidean length of s.
func (s Sample) Norm() float64 {
	return math.Hypot(s.Y, s.Z)
}

// Scale returns s multiplied by k.
func (s Sample) Scale(k float64) Sample {
	return Sample{Y: s.Y * k, Z: s.Z * k}
}

func cross(a, b Sample) float64 {
	return a.Y*b.Z - a.Z*b.Y
}

func dot(a, b Sample) float64 {
	return a.Y*b.Y + a.Z*b.Z
}

// Source is anything that can provide accelerometer samples on demand.
// The IIO sysfs reader is the production source; tests and the debug
// tool use scripted or synthetic ones.
type Source interface {
	Next() (Sample, error)
}

// Reading is what the machine reports for every sampled tick.
type Reading struct {
	Time     time.Time `json:"time"`
	Base     Sample    `json:"base"`
	Lid      Sample    `json:"lid"`
	Valid    bool      `json:"valid"`
	Angle    float64   `json:"angle"`
	Smoothed float64   `json:"smoothed"`
	Mode     string    `json:"mode"` // "" while the initial mode is not settled
}
