package main

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/orrn/labelserver/internal/config"
	"github.com/orrn/labelserver/internal/core"
	"github.com/orrn/labelserver/internal/db"
	"github.com/orrn/labelserver/internal/logging"
	"github.com/orrn/labelserver/internal/webhook"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	directory *core.Directory
	printer   *core.PrintService
	database  *sql.DB
	history   *db.History
	webhooks  *webhook.WebhookSender
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newApp wires the core. withObservers also opens the history database and
// starts webhook delivery.
func newApp(withObservers bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Logging)

	runner := core.NewExecRunner(cfg.Printers.CommandTimeout, logger.Named("exec"))
	pool := core.NewPool(cfg.Printers.WorkerCount)
	directory := core.NewDirectory(runner, pool, core.DirectoryConfig{
		LPStatCommand: cfg.Printers.LPStatCommand,
		Match:         cfg.Printers.DiscoveryMatch,
	}, logger.Named("directory"))
	printer := core.NewPrintService(runner, pool, directory, core.PrintServiceConfig{
		LPCommand:    cfg.Printers.LPCommand,
		DefaultMedia: cfg.Printers.DefaultMedia,
		Orientation:  cfg.Printers.Orientation,
	}, logger.Named("print"))

	a := &app{
		cfg:       cfg,
		logger:    logger,
		directory: directory,
		printer:   printer,
	}

	if !withObservers {
		return a, nil
	}

	if cfg.Database.Path != "" {
		if err := a.openHistory(); err != nil {
			return nil, err
		}
		printer.AddObserver(a.history)
	}

	if len(cfg.Webhooks.URLs) > 0 {
		a.webhooks = webhook.NewWebhookSender(webhook.WebhookConfig{
			URLs:        cfg.Webhooks.URLs,
			Secret:      cfg.Webhooks.Secret,
			RetryCount:  cfg.Webhooks.RetryCount,
			RetryDelay:  cfg.Webhooks.RetryDelay,
			Timeout:     cfg.Webhooks.Timeout,
			WorkerCount: cfg.Webhooks.WorkerCount,
			QueueSize:   cfg.Webhooks.QueueSize,
		}, logger)
		a.webhooks.Start()
		printer.AddObserver(a.webhooks)
	}

	return a, nil
}

func (a *app) openHistory() error {
	database, err := db.Open(db.Config{Path: a.cfg.Database.Path})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	a.database = database
	a.history = db.NewHistory(database, a.logger.Named("history"))
	return nil
}

func (a *app) Close() {
	if a.webhooks != nil {
		a.webhooks.Stop()
	}
	if a.history != nil {
		a.history.Stop()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
