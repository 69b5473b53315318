package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/IgorGrieder/short-links/internal/config"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/short-links/internal/infrastructure/migrations"
	"go.uber.org/zap"
)

const usage = "usage: migrate up|down|version|force <version>"

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	m, err := migrations.New(cfg.Postgres.URL())
	if err != nil {
		logger.Fatal("Failed to open migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "force":
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		var version int
		version, err = strconv.Atoi(os.Args[2])
		if err == nil {
			err = m.Force(version)
		}
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = m.Version()
		if err == nil {
			logger.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Migration command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}
