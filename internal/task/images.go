package task

import (
	"context"
	"fmt"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/iconprompt"
	"github.com/lumenlearn/lumen/internal/redact"
)

// HandleImages generates an icon for every module of the study path that has
// none. A module whose image fails is logged and skipped; an image is stored
// only if the module still has none, so concurrent runs keep the first.
func (s *Service) HandleImages(ctx context.Context, t ImagesTask) error {
	log := s.log(ctx).With("study_path_id", t.StudyPathID)

	path, err := s.studyPaths.GetStudyPath(ctx, t.StudyPathID)
	if err != nil {
		return fmt.Errorf("failed to load study path: %w", err)
	}
	modules, err := s.studyPaths.ListModulesWithoutImage(ctx, t.StudyPathID)
	if err != nil {
		return fmt.Errorf("failed to list modules without image: %w", err)
	}
	if len(modules) == 0 {
		log.InfoContext(ctx, "all modules already have images")
		return nil
	}

	var generated, failed int
	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("image generation interrupted after %d modules: %w", generated+failed, err)
		}

		c := iconprompt.Classify(iconprompt.Subject{
			Title:       m.Title,
			Description: m.Description,
			Topic:       path.Topic,
			Subtopics:   m.Subtopics,
		})
		mlog := log.With("module_id", m.ID, "icon_kind", string(c.Kind))

		url, err := s.images.GenerateImage(ctx, c.Prompt, imagePrefix(c, m))
		if err != nil {
			failed++
			mlog.WarnContext(ctx, "failed to generate module image", "error", redact.Error(err))
			continue
		}

		updated, err := s.studyPaths.SetModuleImage(ctx, m.ID, url)
		if err != nil {
			failed++
			mlog.ErrorContext(ctx, "failed to store module image", "error", err)
			continue
		}
		if !updated {
			mlog.InfoContext(ctx, "module image was set concurrently, keeping existing")
			continue
		}
		generated++

		if s.index != nil {
			m.ImageURL = &url
			if err := s.index.IndexModule(ctx, moduleDocument(path, m)); err != nil {
				mlog.WarnContext(ctx, "failed to reindex module", "error", err)
			}
		}
	}

	log.InfoContext(ctx, "module images generated",
		"generated", generated,
		"failed", failed,
		"total", len(modules))
	return nil
}

func imagePrefix(c iconprompt.Classification, m domain.Module) string {
	if c.Subject != "" {
		return c.Subject
	}
	return m.Title
}
