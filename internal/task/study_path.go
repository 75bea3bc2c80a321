package task

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/generation"
	"github.com/lumenlearn/lumen/internal/platform/search"
	"github.com/lumenlearn/lumen/internal/redact"
	"github.com/lumenlearn/lumen/internal/store"
)

// HandleStudyPath generates a study path for t.Topic and stores it with one
// embedded module per generated entry. With a request id the request moves
// to processing first and then to completed in the same transaction that
// stores the path, or to failed with a sanitized message. A request that is
// already terminal is skipped.
func (s *Service) HandleStudyPath(ctx context.Context, t StudyPathTask) error {
	log := s.log(ctx).With("topic", t.Topic)

	if t.RequestID != nil {
		log = log.With("request_id", t.RequestID.String())
		req, err := s.requests.GetByID(ctx, *t.RequestID)
		if err != nil {
			return fmt.Errorf("failed to load study path request: %w", err)
		}
		if req.Status.IsTerminal() {
			log.InfoContext(ctx, "study path request already finished, skipping", "status", string(req.Status))
			return nil
		}
		if err := s.requests.MarkProcessing(ctx, req.ID); err != nil {
			return fmt.Errorf("failed to mark study path request processing: %w", err)
		}
	}

	path, modules, err := s.generateStudyPath(ctx, t)
	if err != nil {
		log.ErrorContext(ctx, "study path generation failed", "error", redact.Error(err))
		if t.RequestID == nil {
			return err
		}
		return s.failRequest(ctx, *t.RequestID, err)
	}

	log.InfoContext(ctx, "study path created",
		"study_path_id", path.ID,
		"modules", len(modules))

	if err := s.enqueuer.Enqueue(ctx, ImagesTask{StudyPathID: path.ID}); err != nil {
		log.ErrorContext(ctx, "failed to enqueue image generation",
			"study_path_id", path.ID,
			"error", err)
	}
	s.indexModules(ctx, path, modules)
	return nil
}

// generateStudyPath asks the text provider for the path, then stores it and
// its embedded modules atomically. The request, if any, is completed inside
// the same transaction.
func (s *Service) generateStudyPath(ctx context.Context, t StudyPathTask) (*domain.StudyPath, []domain.Module, error) {
	raw, err := s.text.GenerateStructuredText(ctx,
		generation.StudyPathPrompt(t.Topic, s.language),
		generation.StudyPathSchema())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate study path: %w", err)
	}
	draft, err := generation.ParseStudyPath(raw)
	if err != nil {
		return nil, nil, err
	}

	path := &domain.StudyPath{UserID: t.UserID, Topic: t.Topic}
	var modules []domain.Module

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		paths := s.studyPaths.WithTx(tx)
		if err := paths.CreateStudyPath(ctx, path); err != nil {
			return fmt.Errorf("failed to create study path: %w", err)
		}

		modules = make([]domain.Module, 0, len(draft.Modules))
		for i, md := range draft.Modules {
			vec, err := s.embedder.GenerateEmbedding(ctx, md.EmbeddingText())
			if err != nil {
				return fmt.Errorf("failed to embed module %d: %w", i, err)
			}
			if err := domain.ValidateEmbedding(vec, s.dimensions); err != nil {
				return fmt.Errorf("module %d: %w", i, err)
			}

			module := domain.Module{
				StudyPathID: path.ID,
				Position:    i,
				Title:       md.Title,
				Description: md.Description,
				Subtopics:   md.Subtopics,
				Embedding:   vec,
			}
			if err := paths.CreateModule(ctx, &module); err != nil {
				return fmt.Errorf("failed to create module %d: %w", i, err)
			}
			modules = append(modules, module)
		}

		if t.RequestID != nil {
			if err := s.requests.WithTx(tx).MarkCompleted(ctx, *t.RequestID, path.ID); err != nil {
				return fmt.Errorf("failed to complete study path request: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return path, modules, nil
}

// failRequest records cause on the request. The returned error is a
// RecordedFailure unless the record itself could not be written.
func (s *Service) failRequest(ctx context.Context, id uuid.UUID, cause error) error {
	rctx, cancel := recordContext(ctx)
	defer cancel()

	if err := s.requests.MarkFailed(rctx, id, redact.Message(cause)); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to record study path request failure",
			"request_id", id.String(),
			"error", err)
		return fmt.Errorf("%w (recording the failure also failed: %v)", cause, err)
	}
	return &RecordedFailure{Err: cause}
}

// indexModules adds modules to the keyword index. Failures are logged only.
func (s *Service) indexModules(ctx context.Context, path *domain.StudyPath, modules []domain.Module) {
	if s.index == nil {
		return
	}
	for _, m := range modules {
		if err := s.index.IndexModule(ctx, moduleDocument(path, m)); err != nil {
			s.log(ctx).WarnContext(ctx, "failed to index module",
				"module_id", m.ID,
				"error", err)
		}
	}
}

func moduleDocument(path *domain.StudyPath, m domain.Module) search.ModuleDocument {
	doc := search.ModuleDocument{
		ID:          m.ID,
		StudyPathID: m.StudyPathID,
		Topic:       path.Topic,
		Title:       m.Title,
		Description: m.Description,
		Subtopics:   m.Subtopics,
	}
	if m.ImageURL != nil {
		doc.ImageURL = *m.ImageURL
	}
	return doc
}
