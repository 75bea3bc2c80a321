package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lumenlearn/lumen/internal/api"
	"github.com/lumenlearn/lumen/internal/platform/blob"
	"github.com/lumenlearn/lumen/internal/platform/gemini"
	"github.com/lumenlearn/lumen/internal/platform/postgres"
	"github.com/lumenlearn/lumen/internal/queue"
	"github.com/lumenlearn/lumen/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication()
			if err != nil {
				return err
			}
			defer func() { _ = app.close() }()
			return app.serve(cmd.Context())
		},
	}
}

func (app *application) serve(ctx context.Context) error {
	if err := app.openDatabase(ctx); err != nil {
		return err
	}
	if err := app.migrateOnStart(ctx); err != nil {
		return err
	}
	if err := app.openBroker(ctx, false); err != nil {
		return err
	}
	app.openIndex(ctx)

	handler, err := app.router(app.queryEmbedder(ctx))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), app.config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	app.logger.Info("server stopped")
	return nil
}

// queryEmbedder builds the provider used to embed semantic search queries.
// Semantic search is optional: when the provider cannot be built a warning is
// logged and the endpoint answers 503.
func (app *application) queryEmbedder(ctx context.Context) service.QueryEmbedder {
	uploader, err := blob.NewS3Uploader(ctx, app.config.Storage)
	if err == nil {
		var provider *gemini.Provider
		provider, err = gemini.NewProvider(ctx, app.logger, app.config.LLM, uploader)
		if err == nil {
			return provider
		}
	}
	app.logger.Warn("embedding provider unavailable, semantic search disabled", "error", err)
	return nil
}

func (app *application) router(embedder service.QueryEmbedder) (http.Handler, error) {
	requests := postgres.NewPostgresRequestStore(app.db, app.logger)
	studyPaths := postgres.NewPostgresStudyPathStore(app.db, app.logger)
	quizzes := postgres.NewPostgresQuizStore(app.db, app.logger)
	ttsJobs := postgres.NewPostgresTTSJobStore(app.db, app.logger)
	progress := postgres.NewPostgresProgressStore(app.db, app.logger)

	var searcher service.ModuleSearcher
	if app.index != nil {
		searcher = app.index
	}

	semantic := service.SemanticSearch{
		Embedder:   embedder,
		Dimensions: app.config.LLM.EmbeddingDimensions,
	}
	studyPathService, err := service.NewStudyPathService(requests, studyPaths, app.producer, searcher, semantic, app.logger)
	if err != nil {
		return nil, err
	}
	quizService, err := service.NewQuizService(studyPaths, quizzes, app.producer, app.logger)
	if err != nil {
		return nil, err
	}
	ttsService, err := service.NewTTSService(ttsJobs, app.producer, app.logger)
	if err != nil {
		return nil, err
	}
	progressService, err := service.NewProgressService(studyPaths, progress, app.logger)
	if err != nil {
		return nil, err
	}

	return api.NewRouter(api.RouterDeps{
		StudyPaths: studyPathService,
		Quizzes:    quizService,
		TTS:        ttsService,
		Progress:   progressService,
		Health: map[string]api.HealthCheck{
			"database": app.db.PingContext,
			"queue": func(context.Context) error {
				if !app.broker.Connected() {
					return queue.ErrChannelUnavailable
				}
				return nil
			},
		},
		Logger: app.logger,
	}), nil
}
