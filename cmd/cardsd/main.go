package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alovak/cardflow-cards/cards"
	"github.com/alovak/cardflow-cards/internal/logging"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// a missing .env is fine, the environment is used as is
	envErr := godotenv.Load()

	cfg, err := cards.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}
	logger.Info("configuration loaded",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("store", cfg.StoreBackend),
		slog.String("expiry_tz", cfg.ExpiryTZ),
	)

	app := cards.NewApp(logger, cfg)
	if err := app.Start(); err != nil {
		logger.Error("starting app", slog.String("err", err.Error()))
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	logger.Info("shutting down", slog.String("signal", sig.String()))
	app.Shutdown()
}
