package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/randutil"
	"github.com/cardroomlabs/holdem/internal/server"
)

// ServeCmd runs the table server
type ServeCmd struct {
	Config string `kong:"default='holdem.hcl',help='Path to HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for the deck (optional)'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	} else if level, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}

	table := game.NewTable(game.Config{
		SmallBlind:    cfg.Table.SmallBlind,
		BigBlind:      cfg.Table.BigBlind,
		StartingChips: cfg.Table.StartingChips,
	}, randutil.New(seed), logger)

	timeout := time.Duration(cfg.Table.TurnTimeoutSec) * time.Second
	timer := server.NewTurnTimer(table, quartz.NewReal(), timeout, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := server.NewServer(addr, table, timer, logger)

	logger.Info("Starting hold'em server",
		"addr", addr,
		"small_blind", cfg.Table.SmallBlind,
		"big_blind", cfg.Table.BigBlind,
		"starting_chips", cfg.Table.StartingChips,
		"turn_timeout", timeout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", "signal", sig)
		return srv.Stop()
	case err := <-errCh:
		return err
	}
}
