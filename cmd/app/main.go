package main

import (
	"context"
	"flag"
	"log"
	"os"

	"LedgerSeek/internal/di"
	"LedgerSeek/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	target := flag.String("target", "", "target time (RFC3339 or unix seconds); runs one search and exits")
	serve := flag.Bool("serve", false, "run the HTTP service")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s endpoint=%s transport=%s", cfg.Environment, cfg.XRPL.Endpoint, cfg.XRPL.Transport)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if *target != "" {
		if err := app.RunOnce(context.Background(), *target); err != nil {
			log.Printf("locate error: %v", err)
			os.Exit(1)
		}
		return
	}

	if !*serve {
		log.Fatalf("nothing to do: pass -target for a one-shot search or -serve for the HTTP service")
	}

	// Run service (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
