// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/tablet_mode/internal/app"
	"github.com/relabs-tech/tablet_mode/internal/config"
	"github.com/relabs-tech/tablet_mode/internal/iio"
)

var (
	flagConfig string
	flagEvdev  bool
)

func main() {
	if err := newRootCmd(run).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command line; runE receives exactly one
// argument, the hook path.
func newRootCmd(runE func(*cobra.Command, []string) error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablet_mode <hook>",
		Short: "Detect laptop/tablet posture from the hinge accelerometers",
		Long: `tablet_mode reads the base and lid accelerometers through the Linux IIO
sysfs interface, works out the hinge angle, and runs <hook> with a single
argument, "laptop" or "tablet", at startup and whenever the posture changes.

The hook runs synchronously; detection pauses until it exits.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing hook argument")
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE:         runE,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to configuration file (KEY=VALUE)")
	rootCmd.Flags().BoolVar(&flagEvdev, "evdev", false, "Also report the posture as SW_TABLET_MODE through /dev/uinput")
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(flagConfig)
	if err != nil {
		return err
	}
	if flagEvdev {
		cfg.EvdevSwitch = true
	}

	log.Println("starting tablet_mode posture daemon")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.RunDaemon(ctx, cfg, args[0])
	var sensorErr *iio.SensorError
	if errors.As(err, &sensorErr) {
		log.Fatalf("fatal: accelerometer unavailable: %v", err)
	}
	return err
}
