package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/platform/postgres"
	"github.com/lumenlearn/lumen/internal/platform/search"
	"github.com/lumenlearn/lumen/internal/queue"
	"github.com/lumenlearn/lumen/internal/task"
)

// application holds the resources shared by the commands. Fields are filled
// by the open* methods a command needs and released by close.
type application struct {
	config *config.Config
	logger *slog.Logger

	db       *sql.DB
	broker   *queue.Broker
	index    *search.Index
	producer *task.Producer

	closers []func() error
}

// newApplication loads configuration and sets up logging.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"queue", cfg.Queue.Name,
		"consumer", cfg.Queue.ConsumerName,
		"log_level", cfg.Server.LogLevel)

	return &application{config: cfg, logger: log}, nil
}

func (app *application) openDatabase(ctx context.Context) error {
	db, err := postgres.Open(ctx, app.config.Database)
	if err != nil {
		return err
	}
	app.db = db
	app.closers = append(app.closers, db.Close)
	return nil
}

// openBroker connects to the broker and builds the task producer on top of
// it. Only the worker opens it as a consumer.
func (app *application) openBroker(ctx context.Context, consume bool) error {
	newBroker := queue.NewBroker
	if consume {
		newBroker = queue.NewConsumer
	}
	broker := newBroker(app.config.Queue, app.logger)
	app.closers = append(app.closers, broker.Close)
	if err := broker.Connect(ctx); err != nil {
		return err
	}
	app.broker = broker
	app.producer = task.NewProducer(broker, app.config.Queue.Name, app.logger)
	return nil
}

// openIndex connects the keyword index. The index is optional: when Redis
// is unreachable a warning is logged and search stays disabled.
func (app *application) openIndex(ctx context.Context) {
	index, err := search.NewIndex(ctx, app.config.Search, app.logger)
	if err != nil {
		app.logger.Warn("module index unavailable, search disabled", "error", err)
		return
	}
	app.index = index
	app.closers = append(app.closers, index.Close)
}

func (app *application) migrateOnStart(ctx context.Context) error {
	if !app.config.Server.MigrateOnStart {
		return nil
	}
	return postgres.Migrate(ctx, app.db, "up", app.logger)
}

// close releases resources in reverse order of acquisition.
func (app *application) close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	if err := errors.Join(errs...); err != nil {
		app.logger.Error("failed to release resources", "error", err)
		return err
	}
	return nil
}
