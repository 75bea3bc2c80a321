package main

import (
	"context"

	"github.com/lumenlearn/lumen/internal/platform/blob"
	"github.com/lumenlearn/lumen/internal/platform/gemini"
	"github.com/lumenlearn/lumen/internal/platform/postgres"
	"github.com/lumenlearn/lumen/internal/task"
	"github.com/spf13/cobra"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume the task queue",
		Long: `Consume the task queue one message at a time until interrupted.

A message being handled when the worker is interrupted runs to completion
or to the handler timeout before the worker exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}
			defer func() { _ = app.close() }()
			return app.work(cmd.Context())
		},
	}
}

func (app *application) work(ctx context.Context) error {
	if err := app.openDatabase(ctx); err != nil {
		return err
	}
	if err := app.openBroker(ctx, true); err != nil {
		return err
	}
	app.openIndex(ctx)

	handlers, err := app.taskService(ctx)
	if err != nil {
		return err
	}

	dispatcher, err := task.NewDispatcher(app.broker, handlers, app.config.Queue, app.config.Worker, app.logger)
	if err != nil {
		return err
	}

	app.logger.Info("worker started",
		"queue", app.config.Queue.Name,
		"handler_timeout", app.config.Worker.HandlerTimeout.String())
	if err := dispatcher.Run(ctx); err != nil {
		return err
	}
	app.logger.Info("worker stopped")
	return nil
}

func (app *application) taskService(ctx context.Context) (*task.Service, error) {
	uploader, err := blob.NewS3Uploader(ctx, app.config.Storage)
	if err != nil {
		return nil, err
	}
	provider, err := gemini.NewProvider(ctx, app.logger, app.config.LLM, uploader)
	if err != nil {
		return nil, err
	}

	deps := task.Deps{
		DB:                  app.db,
		Requests:            postgres.NewPostgresRequestStore(app.db, app.logger),
		StudyPaths:          postgres.NewPostgresStudyPathStore(app.db, app.logger),
		Quizzes:             postgres.NewPostgresQuizStore(app.db, app.logger),
		TTSJobs:             postgres.NewPostgresTTSJobStore(app.db, app.logger),
		Text:                provider,
		Embedder:            provider,
		Images:              provider,
		Speech:              provider,
		Blobs:               uploader,
		Enqueuer:            app.producer,
		Logger:              app.logger,
		ContentLanguage:     app.config.LLM.ContentLanguage,
		EmbeddingDimensions: app.config.LLM.EmbeddingDimensions,
	}
	if app.index != nil {
		deps.Index = app.index
	}
	return task.NewService(deps)
}
