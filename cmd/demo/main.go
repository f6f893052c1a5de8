package main

import (
	"fmt"
	"os"

	"Prism3D/internal/config"
	"Prism3D/internal/engine"
	"Prism3D/internal/logger"

	"go.uber.org/zap"
)

const defaultConfigPath = "config.json"

func main() {
	configPath := defaultConfigPath
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// A bad file still yields usable defaults; report it once logging is up.
	cfg, cfgErr := config.Load(configPath)

	opts := logger.DefaultOptions()
	opts.Console = cfg.Logging.Console
	opts.File = cfg.Logging.File
	if cfg.Logging.Path != "" {
		opts.FilePath = cfg.Logging.Path
	}
	level, ok := logger.ParseLevel(cfg.Logging.Level)
	if ok {
		opts.MinLevel = level
	}
	if err := logger.Init(opts); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Log.Warn("Using default configuration", zap.String("path", configPath), zap.Error(cfgErr))
	}
	if !ok {
		logger.Write(logger.Warning, fmt.Sprintf("unknown log level %q, logging everything", cfg.Logging.Level))
	}

	if err := engine.NewEngine(cfg).Run(); err != nil {
		logger.Write(logger.Critical, err.Error())
		logger.Sync()
		os.Exit(1)
	}
	logger.Write(logger.Info, "[CORE] App closed")
}
