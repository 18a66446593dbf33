package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Neon-Grid/internal/city"
	"github.com/Garsondee/Neon-Grid/internal/config"
	"github.com/Garsondee/Neon-Grid/internal/game"
	"github.com/Garsondee/Neon-Grid/internal/uplink"
)

func main() {
	if err := run(); err != nil {
		slog.Error("neon grid exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "neongrid.yaml", "optional YAML settings file")
	seed := flag.Int64("seed", 0, "simulation seed (0 = wall clock, overrides config)")
	uplinkAddr := flag.String("uplink", "", "serve the transmission uplink on this address, e.g. :8077 (overrides config)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if *seed != 0 {
		settings.Seed = *seed
	}
	if *uplinkAddr != "" {
		settings.UplinkAddr = *uplinkAddr
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.SlogLevel()}))
	slog.SetDefault(logger)

	if settings.Seed == 0 {
		settings.Seed = time.Now().UnixNano()
	}
	sess := city.NewSession(city.Options{
		Seed:             settings.Seed,
		UpdateInterval:   settings.UpdateInterval,
		TransmitInterval: settings.TransmitInterval,
		WheelSensitivity: settings.WheelSensitivity,
		JournalCap:       settings.JournalCap,
		Logger:           logger,
	})
	logger.Info("session ready", "seed", settings.Seed, "tps", settings.TPS)

	if settings.UplinkAddr != "" {
		hub := uplink.NewHub(logger.With("component", "hub"))
		feed := uplink.NewFeed(hub, logger.With("component", "feed"))
		srv := uplink.NewServer(feed, hub, logger.With("component", "uplink"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := srv.Start(ctx, settings.UplinkAddr); err != nil {
			return err
		}
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer scancel()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Error("uplink shutdown", "err", err)
			}
		}()
		sess.Recorder.SetSink(feed)
	}

	g, err := game.New(game.Options{
		Session: sess,
		Width:   settings.Window.Width,
		Height:  settings.Window.Height,
		TPS:     settings.TPS,
		Seed:    settings.Seed,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle("Neon Grid")
	ebiten.SetWindowSize(settings.Window.Width, settings.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(settings.TPS)
	defer sess.Stop()
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
