// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package posture

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	// DefaultTickRate is the steady-state sampling rate in Hz.
	DefaultTickRate = 5
	// DefaultBootstrapInterval is the retry period while the initial
	// mode is being determined.
	DefaultBootstrapInterval = 100 * time.Millisecond
)

// Action reacts to a confirmed mode.
type Action interface {
	Apply(mode Mode) error
}

// Sleeper blocks for d. It returns early only when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Config tunes a Machine.
type Config struct {
	Estimator         Estimator
	FilterCoef        float64
	Tick              time.Duration
	BootstrapInterval time.Duration
}

// DefaultConfig returns the stock tuning: 5Hz ticks, 100ms bootstrap
// retries, IIR coefficient 0.2 and a 1 m/s² skew limit around 10 m/s².
func DefaultConfig() Config {
	return Config{
		Estimator:         DefaultEstimator(),
		FilterCoef:        DefaultFilterCoef,
		Tick:              time.Second / DefaultTickRate,
		BootstrapInterval: DefaultBootstrapInterval,
	}
}

// Machine polls the base and lid sources and decides when the device has
// really changed posture. It is not safe for concurrent use; a single
// control loop owns it for the life of the process.
type Machine struct {
	base, lid Source
	cfg       Config
	filter    *IIRFilter
	sleep     Sleeper
	observe   func(Reading)
	now       func() time.Time
}

// NewMachine creates a machine reading from base and lid.
func NewMachine(base, lid Source, cfg Config) *Machine {
	return &Machine{
		base:   base,
		lid:    lid,
		cfg:    cfg,
		filter: NewIIRFilter(cfg.FilterCoef),
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// SetObserver installs fn to receive every sampled Reading, rejected
// ones included. fn runs on the control loop and must not block.
func (m *Machine) SetObserver(fn func(Reading)) {
	m.observe = fn
}

// SetSleeper replaces the timed sleep between samples.
func (m *Machine) SetSleeper(s Sleeper) {
	m.sleep = s
}

// sample reads both sources and estimates the hinge angle. A read error
// is returned as is; the caller treats it as fatal.
func (m *Machine) sample() (Reading, error) {
	base, err := m.base.Next()
	if err != nil {
		return Reading{}, fmt.Errorf("base: %w", err)
	}
	lid, err := m.lid.Next()
	if err != nil {
		return Reading{}, fmt.Errorf("lid: %w", err)
	}
	angle, ok := m.cfg.Estimator.Estimate(base, lid)
	return Reading{
		Time:  m.now(),
		Base:  base,
		Lid:   lid,
		Valid: ok,
		Angle: angle,
	}, nil
}

func (m *Machine) report(r Reading) {
	if m.observe != nil {
		m.observe(r)
	}
}

// Initial blocks until a sample falls in exactly one band and returns the
// corresponding mode. Ambiguous and rejected samples are discarded and
// retried every BootstrapInterval with no upper bound.
func (m *Machine) Initial(ctx context.Context) (Mode, error) {
	for {
		r, err := m.sample()
		if err != nil {
			return 0, err
		}
		if r.Valid {
			if mode, ok := Classify(r.Angle); ok {
				r.Mode = mode.String()
				m.report(r)
				return mode, nil
			}
		}
		m.report(r)
		if err := m.sleep(ctx, m.cfg.BootstrapInterval); err != nil {
			return 0, err
		}
	}
}

// WaitForChange polls once per tick and returns as soon as a raw sample
// confirms a transition away from current. Rejected samples skip the tick
// without touching the filter. The smoothed angle is kept for telemetry
// only; the decision is made on the instantaneous angle.
func (m *Machine) WaitForChange(ctx context.Context, current Mode) (Mode, error) {
	for {
		if err := m.sleep(ctx, m.cfg.Tick); err != nil {
			return current, err
		}

		r, err := m.sample()
		if err != nil {
			return current, err
		}
		r.Mode = current.String()
		if !r.Valid {
			r.Smoothed = m.filter.Value()
			m.report(r)
			continue
		}

		r.Smoothed = m.filter.Update(r.Angle)

		next, changed := Transition(current, r.Angle)
		if changed {
			r.Mode = next.String()
		}
		m.report(r)
		if changed {
			return next, nil
		}
	}
}

// Run determines the initial mode, applies it, and then applies every
// confirmed transition. It returns only when a source fails or ctx is
// cancelled. Action errors are logged and do not stop the loop.
func (m *Machine) Run(ctx context.Context, action Action) error {
	mode, err := m.Initial(ctx)
	if err != nil {
		return err
	}
	log.Printf("posture: initial mode %s", mode)
	m.apply(action, mode)

	for {
		mode, err = m.WaitForChange(ctx, mode)
		if err != nil {
			return err
		}
		m.apply(action, mode)
	}
}

func (m *Machine) apply(action Action, mode Mode) {
	if err := action.Apply(mode); err != nil {
		log.Printf("posture: action for %s failed: %v", mode, err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
