// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package posture

import (
	"math"
	"time"
)

// StandardGravity is used by the synthetic sources.
const StandardGravity = 9.80665

// SampleAt returns a vector of the given magnitude rotated angle degrees
// from the +Z axis. Against a base reading of SampleAt(0, g) it estimates
// to angle.
func SampleAt(angle, magnitude float64) Sample {
	rad := angle * math.Pi / 180.0
	return Sample{Y: magnitude * math.Sin(rad), Z: magnitude * math.Cos(rad)}
}

type fixedSource struct {
	s Sample
}

func (f fixedSource) Next() (Sample, error) {
	return f.s, nil
}

type sweepSource struct {
	start time.Time
}

// NewMockSources creates a base source lying flat and a lid source that
// slowly folds back and forth through the whole hinge range, passing
// through both laptop and tablet postures.
func NewMockSources() (base, lid Source) {
	return fixedSource{s: SampleAt(0, StandardGravity)}, &sweepSource{start: time.Now()}
}

func (m *sweepSource) Next() (Sample, error) {
	elapsed := time.Since(m.start).Seconds()
	return SampleAt(179*math.Sin(elapsed*0.2), StandardGravity), nil
}
