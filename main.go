package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"minerdash/internal/config"
	"minerdash/internal/output"
	"minerdash/ui/console"
	"minerdash/ui/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	dataPath := flag.String("data", "", "snapshot data file (overrides config)")
	index := flag.Int("index", -1, "snapshot entry to show (overrides config)")
	consoleMode := flag.Bool("console", false, "print a plain-text report instead of starting the dashboard")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg = cfg.WithDataPath(*dataPath)
	}
	if *index >= 0 {
		cfg = cfg.WithSnapshotIndex(*index)
	}

	if *consoleMode {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.LoadTimeout)
		defer cancel()

		payload, err := output.RunPipeline(ctx, cfg.Source())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		console.Print(os.Stdout, payload.View)
		return
	}

	// Use the interface to allow for different snapshot sources
	if err := tui.Start(cfg.Source(), cfg); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
