package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	apimw "github.com/lumenlearn/lumen/internal/api/middleware"
	"github.com/lumenlearn/lumen/internal/api/shared"
	"github.com/lumenlearn/lumen/internal/service"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterDeps are the services and checks behind the producer API.
type RouterDeps struct {
	StudyPaths service.StudyPathService
	Quizzes    service.QuizService
	TTS        service.TTSService
	Progress   service.ProgressService
	// Health checks run by GET /health, keyed by dependency name.
	Health map[string]HealthCheck
	Logger *slog.Logger
}

// NewRouter builds the producer API.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	studyPaths := NewStudyPathHandler(deps.StudyPaths, logger)
	quizzes := NewQuizHandler(deps.Quizzes, logger)
	tts := NewTTSHandler(deps.TTS, logger)
	progress := NewProgressHandler(deps.Progress, logger)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(apimw.NewTraceMiddleware(logger))
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/study-paths", studyPaths.CreateStudyPath)
		r.Get("/study-paths", studyPaths.ListStudyPaths)
		r.Get("/study-path-requests/{id}", studyPaths.GetRequest)
		r.Get("/study-paths/{id}", studyPaths.GetModules)
		r.Get("/study-paths/{id}/modules", studyPaths.GetModules)
		r.Post("/study-paths/{id}/images", studyPaths.GenerateImages)

		r.Post("/modules/{id}/quiz", quizzes.GenerateQuiz)
		r.Get("/modules/{id}/quiz", quizzes.GetQuiz)
		r.Post("/modules/{id}/complete", progress.CompleteModule)
		r.Post("/quizzes/{id}/submit", quizzes.SubmitQuiz)

		r.Get("/users/{id}/performance", quizzes.GetUserPerformance)
		r.Get("/users/{id}/progress", progress.GetUserProgress)

		r.Post("/tts", tts.CreateJob)
		r.Get("/tts", tts.ListJobs)
		r.Get("/tts/{id}", tts.GetJob)

		r.Get("/search/modules", studyPaths.SearchModules)
		r.Get("/search/semantic", studyPaths.SemanticSearch)
	})

	r.Get("/health", healthHandler(deps.Health))

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = "unavailable"
				continue
			}
			results[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		shared.RespondWithJSON(w, r, status, map[string]any{"status": overall, "checks": results})
	}
}
