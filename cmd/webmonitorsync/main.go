package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/webmonitorsync/internal/config"
	"github.com/hamed0406/webmonitorsync/internal/kuma"
	"github.com/hamed0406/webmonitorsync/internal/logging"
	"github.com/hamed0406/webmonitorsync/internal/notify"
	"github.com/hamed0406/webmonitorsync/internal/source"
	"github.com/hamed0406/webmonitorsync/internal/syncer"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Printf("logger: %v", err)
		return 1
	}
	defer logger.Sync()

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logger.Warn("credentials_missing", zap.Strings("vars", missing))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sites := source.New(cfg.DomainsAPIBase, cfg.DomainsAPIKey, cfg.HTTPTimeout)
	kc := kuma.New(cfg.KumaURL, kuma.Credentials{Username: cfg.KumaUsername, Password: cfg.KumaPassword}, cfg.KumaTimeout, logger)

	var notifier syncer.Notifier
	if slack := notify.NewSlack(cfg.SlackWebhook, cfg.HTTPTimeout); slack != nil {
		notifier = notify.Multi{slack}
	}

	s := syncer.New(logger, sites, syncer.KumaService(kc), notifier)
	sum, err := s.Run(ctx)
	if err != nil {
		return 1
	}
	if cfg.StrictExit && !sum.Clean() {
		logger.Warn("strict_exit", zap.Bool("degraded", sum.Degraded), zap.Int("failed", len(sum.Failed)), zap.Bool("aborted", sum.Aborted))
		return 1
	}
	return 0
}
