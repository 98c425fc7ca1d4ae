// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/tablet_mode/internal/app"
	"github.com/relabs-tech/tablet_mode/internal/config"
)

func main() {
	var (
		configPath string
		mock       bool
	)

	cmd := &cobra.Command{
		Use:   "angle_debug",
		Short: "Live view of accelerometer vectors, hinge angle and posture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.RunDebug(ctx, cfg, mock)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to configuration file (KEY=VALUE)")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use synthetic accelerometers (no hardware needed)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
