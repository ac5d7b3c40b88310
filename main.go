package main

import (
	"flag"
	"fmt"
	"os"

	"DigitalWhiteboard/internal/config"
	"DigitalWhiteboard/internal/logging"
	"DigitalWhiteboard/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default ~/.whiteboard/config.toml)")
	sessionPath := flag.String("session", "", "session file to restore on startup")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whiteboard: config: %v\n", err)
		os.Exit(1)
	}
	if *sessionPath != "" {
		cfg.Session.Path = *sessionPath
		cfg.Session.Autoload = true
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger := logging.Init(false, logging.ParseLevel(cfg.LogLevel()))
	logger.Debug("config loaded", "path", *configPath, "canvas_w", cfg.Canvas.Width, "canvas_h", cfg.Canvas.Height)
	ui.RunApp(cfg, logger)
}
