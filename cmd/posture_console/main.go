package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/tablet_mode/internal/app"
	"github.com/relabs-tech/tablet_mode/internal/config"
)

func main() {
	configPath := flag.String("config", "./tablet_mode.conf", "path to configuration file")
	verbose := flag.Bool("v", false, "also print every angle reading")
	flag.Parse()

	log.Println("starting tablet_mode console (MQTT subscriber)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(cfg, *verbose); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
