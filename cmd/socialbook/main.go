package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialbook/config"
	"socialbook/logger"

	"go.uber.org/zap"
)

func main() {
	var (
		configPath string
		baseURL    string
		load       LoadConfig
	)
	flag.StringVar(&configPath, "config", "", "Path to the configuration file")
	flag.StringVar(&baseURL, "url", "", "API base URL (overrides the config)")
	flag.BoolVar(&load.Enabled, "load", false, "Run the load generator instead of the interactive client")
	flag.IntVar(&load.Workers, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&load.Duration, "duration", time.Minute, "Load test duration (0 for infinite)")
	flag.IntVar(&load.RequestsPerSec, "rps", 50, "Requests per second target")
	flag.Parse()

	conf, err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err = logger.Init(conf.Logs.Level); err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	defer logger.Sync()
	if baseURL != "" {
		conf.Client.BaseURL = baseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if load.Enabled {
		load.BaseURL = conf.Client.BaseURL
		logger.Info("starting load generator", zap.Any("config", load))
		stats, err := RunLoad(ctx, load)
		if err != nil {
			logger.Error("load generator failed", zap.Error(err))
			os.Exit(2)
		}
		stats.Print(os.Stdout)
		return
	}

	r, err := newREPL(conf, os.Stdout)
	if err != nil {
		logger.Error("failed to start client", zap.Error(err))
		os.Exit(1)
	}
	defer r.Close()
	r.Run(ctx, os.Stdin)
}
