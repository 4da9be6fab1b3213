package main

import (
	"flag"

	"go.uber.org/zap"

	"go-url-shortener/config"
	"go-url-shortener/server"
)

var logger *zap.Logger

func init() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		panic("Failed to initialize zap logger: " + err.Error())
	}
}

func main() {
	defer logger.Sync()

	configPath := flag.String("config", "", "Path to a YAML configuration file")
	disableRateLimit := flag.Bool("disable-rate-limit", false, "Disable rate limiting for performance testing")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
	}
	if *disableRateLimit {
		cfg.DisableRateLimit = true
	}

	logger.Info("Starting URL shortener",
		zap.String("app", cfg.AppName),
		zap.String("version", cfg.AppVersion))
	if err := server.Run(logger, cfg); err != nil {
		logger.Fatal("Application error", zap.Error(err))
	}
	logger.Info("URL shortener stopped.")
}
