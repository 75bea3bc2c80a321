package api

import (
	"log/slog"
	"net/http"

	"github.com/lumenlearn/lumen/internal/api/shared"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/service"
)

// QuizHandler serves module quizzes, submissions and quiz performance.
type QuizHandler struct {
	quizzes service.QuizService
	logger  *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizzes service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		quizzes: quizzes,
		logger:  logger.With("component", "quiz_handler"),
	}
}

// GenerateQuiz handles POST /api/modules/{id}/quiz.
func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	moduleID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.quizzes.RequestQuiz(r.Context(), moduleID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "quiz generation accepted", "module_id", moduleID)
	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]int64{"moduleId": moduleID})
}

// GetQuiz handles GET /api/modules/{id}/quiz. Answer keys are never returned.
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	moduleID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	quiz, err := h.quizzes.GetLatestQuiz(r.Context(), moduleID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quizToResponse(quiz))
}

// SubmitQuiz handles POST /api/quizzes/{id}/submit. The graded attempt,
// including correct indices, is returned with 201.
func (h *QuizHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req SubmitQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	answers := make([]domain.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.Answer{QuestionID: a.QuestionID, SelectedOptionIndex: *a.SelectedOptionIndex})
	}

	attempt, err := h.quizzes.SubmitQuiz(r.Context(), quizID, req.UserID, answers)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, attemptToResponse(attempt))
}

// GetUserPerformance handles GET /api/users/{id}/performance.
func (h *QuizHandler) GetUserPerformance(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	perf, err := h.quizzes.GetUserPerformance(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, performanceToResponse(perf))
}
