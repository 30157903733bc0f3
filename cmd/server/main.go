package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialbook/app"
	"socialbook/config"
	"socialbook/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath   string
		seed         int
		seedPassword string
	)
	flag.StringVar(&configPath, "config", "", "Path to the configuration file")
	flag.IntVar(&seed, "seed", 0, "Create N fake users with follows before serving")
	flag.StringVar(&seedPassword, "seed-password", "password123", "Password of the seeded users")
	flag.Parse()

	conf, err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err = logger.Init(conf.Logs.Level); err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	defer logger.Sync()
	if conf.Logs.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(conf)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if seed > 0 {
		a.Seeder.Password = seedPassword
		if _, err = a.Seeder.Seed(context.Background(), seed); err != nil {
			logger.Error("seeding failed", zap.Error(err))
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := a.Server()
	go func() {
		logger.Info("Starting server...", zap.String("addr", srv.Addr), zap.String("db", conf.Databases.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
