package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/bot"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/config"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/relay"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/security"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/webhook"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err.Error())
		os.Exit(1)
	}

	client := messenger.NewClient(
		cfg.Messenger.GraphAPIBase,
		cfg.Messenger.PageAccessToken,
		cfg.Dispatch.SendsPerSecond,
		log,
	)

	// The operator relay is optional: left unconfigured, events is nil and
	// every Publish is a no-op.
	var events *relay.Client
	if cfg.Relay.URL != "" {
		events = relay.NewClient(cfg.Relay.URL, cfg.Relay.Token, log)
		if err := events.Connect(); err != nil {
			log.Warn("relay unavailable, continuing without it", "error", err.Error())
			events = nil
		}
	}

	verifier := security.NewVerifier(cfg.Messenger.AppSecret)
	policy := bot.NewPolicy(cfg.Server.PublicURL)
	dispatcher := webhook.NewDispatcher(client, events, cfg.Dispatch.MaxWorkers, log)

	server, err := webhook.NewServer(cfg, verifier, policy, dispatcher, client, events, log)
	if err != nil {
		log.Error("failed to build webhook server", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})

	err = g.Wait()

	// Let in-flight sends finish before exiting.
	drainCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Dispatch.DrainTimeoutSecs)*time.Second)
	defer cancel()
	if drainErr := dispatcher.Close(drainCtx); drainErr != nil {
		log.Warn("dispatcher drain incomplete", "error", drainErr.Error())
	}
	if events != nil {
		events.Close()
	}

	if err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
