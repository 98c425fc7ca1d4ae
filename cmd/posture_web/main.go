// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/tablet_mode/internal/app"
	"github.com/relabs-tech/tablet_mode/internal/config"
)

func main() {
	configPath := flag.String("config", "./tablet_mode.conf", "path to configuration file")
	flag.Parse()

	log.Println("starting tablet_mode web server (MQTT subscriber)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("Note: the daemon must run with MQTT_BROKER set for data to appear")

	if err := app.RunWeb(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
