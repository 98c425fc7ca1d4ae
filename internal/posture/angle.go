// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package posture

import "math"

const (
	// DefaultSkewLimit is the tolerance in m/s² around the expected
	// gravity magnitude. It doubles as the minimum usable magnitude.
	DefaultSkewLimit = 1.0
	// DefaultGravity is the nominal gravity magnitude in m/s².
	DefaultGravity = 10.0
)

// Estimator turns a base/lid sample pair into a signed hinge angle.
type Estimator struct {
	SkewLimit float64
	Gravity   float64
}

// DefaultEstimator returns an Estimator with the stock thresholds.
func DefaultEstimator() Estimator {
	return Estimator{SkewLimit: DefaultSkewLimit, Gravity: DefaultGravity}
}

// Estimate returns the hinge angle in degrees, in (-180, 180].
//
// The angle is 0 when the device lies flat and open, around 90 in laptop
// posture, around -90 when the base is used as a stand and near ±180 when
// folded into a tablet. ok is false when either vector is too short for its
// direction to be trusted, or longer than gravity allows, which means the
// device is being shaken or moved and the vectors do not reflect posture.
func (e Estimator) Estimate(base, lid Sample) (angle float64, ok bool) {
	mBase := base.Norm()
	mLid := lid.Norm()

	if mBase < e.SkewLimit || mLid < e.SkewLimit {
		return 0, false
	}
	limit := e.Gravity + e.SkewLimit
	if mBase > limit || mLid > limit {
		return 0, false
	}

	base = base.Scale(1 / mBase)
	lid = lid.Scale(1 / mLid)

	return math.Atan2(cross(lid, base), dot(lid, base)) * 180.0 / math.Pi, true
}
