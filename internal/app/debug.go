// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gosuri/uilive"

	"github.com/relabs-tech/tablet_mode/internal/action"
	"github.com/relabs-tech/tablet_mode/internal/config"
	"github.com/relabs-tech/tablet_mode/internal/posture"
)

// RunDebug shows the live accelerometer vectors, hinge angle and mode
// without running any hook. With mock set, synthetic sources stand in for
// the hardware.
func RunDebug(ctx context.Context, cfg *config.Config, mock bool) error {
	var base, lid posture.Source
	if mock {
		log.Println("debug: using mock accelerometers")
		base, lid = posture.NewMockSources()
	} else {
		b, l, err := openSensors(cfg)
		if err != nil {
			return err
		}
		defer b.Close()
		defer l.Close()
		base, lid = b, l
	}

	writer := uilive.New()
	writer.Start()
	defer writer.Stop()
	log.SetOutput(writer.Bypass())

	m := posture.NewMachine(base, lid, cfg.Posture())
	m.SetObserver(func(r posture.Reading) {
		fmt.Fprint(writer, formatDebug(r))
	})

	transitions := 0
	err := m.Run(ctx, action.Func(func(mode posture.Mode) error {
		transitions++
		log.Printf("mode: %s (change #%d)", mode, transitions)
		return nil
	}))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func formatDebug(r posture.Reading) string {
	var b strings.Builder
	writeVec(&b, "Base", r.Base)
	writeVec(&b, "Lid", r.Lid)
	if !r.Valid {
		fmt.Fprintf(&b, "Hinge angle: rejected\n")
	} else {
		fmt.Fprintf(&b, "Hinge angle: %7.1f°\n", r.Angle)
		fmt.Fprintf(&b, "Laptop band: %t  Tablet band: %t\n", posture.IsLaptop(r.Angle), posture.IsTablet(r.Angle))
	}
	fmt.Fprintf(&b, "Smoothed:    %7.1f°\n", r.Smoothed)

	mode := r.Mode
	if mode == "" {
		mode = "undetermined"
	}
	fmt.Fprintf(&b, "\nMode: %s\n", mode)
	return b.String()
}

func writeVec(w io.Writer, name string, s posture.Sample) {
	fmt.Fprintf(w, "%-5s y=%7.2f z=%7.2f |v|=%6.2f m/s²\n", name+":", s.Y, s.Z, s.Norm())
}
