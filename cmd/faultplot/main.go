package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/faultplot/internal/catalog"
	"codeberg.org/mutker/faultplot/internal/chart"
	"codeberg.org/mutker/faultplot/internal/config"
	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/logger"
	"codeberg.org/mutker/faultplot/internal/pid"
	"codeberg.org/mutker/faultplot/internal/study"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger.Init(cfg.Debug, cfg.Verbose)
	logger.Debug().
		Str("output_dir", cfg.OutputDir).
		Int("dpi", cfg.DPI).
		Int("runs", len(cfg.Runs)).
		Bool("keep_going", cfg.KeepGoing).
		Msg("Config loaded")
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := pid.Write(cfg.OutputDir); err != nil {
		logger.ErrorWithCode(err).Msg("failed to lock output directory")
		return 1
	}
	defer func() {
		if err := pid.Remove(cfg.OutputDir); err != nil {
			logger.Warn().Err(err).Msg("failed to remove PID file")
		}
	}()

	rec, err := catalog.NewService(catalog.Config{
		DBPath:  cfg.Catalog.DBPath,
		Enabled: cfg.Catalog.Enabled,
	}, logger.Global())
	if err != nil {
		logger.ErrorWithCode(err).Msg("failed to open catalog")
		return 1
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logger.ErrorWithCode(err).Msg("failed to close catalog")
		}
	}()

	artifacts, err := study.Run(ctx, cfg, chart.NewBuilder(cfg, logger.Global()), rec)
	for _, a := range artifacts {
		fmt.Println(a.Path)
	}
	if err != nil {
		logger.ErrorWithCode(err).Msg("chart generation failed")
		return 1
	}

	return 0
}
