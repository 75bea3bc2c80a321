package api

import (
	"time"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/search"
)

// CreateStudyPathRequest is the body of POST /api/study-paths.
type CreateStudyPathRequest struct {
	Topic  string `json:"topic" validate:"required,max=500"`
	UserID *int64 `json:"userId,omitempty" validate:"omitempty,gt=0"`
}

// CreateTTSRequest is the body of POST /api/tts.
type CreateTTSRequest struct {
	Text     string `json:"text" validate:"required,max=5000"`
	UserID   *int64 `json:"userId,omitempty" validate:"omitempty,gt=0"`
	ModuleID *int64 `json:"moduleId,omitempty" validate:"omitempty,gt=0"`
}

// SubmitQuizRequest is the body of POST /api/quizzes/{id}/submit.
type SubmitQuizRequest struct {
	UserID  int64           `json:"userId" validate:"required,gt=0"`
	Answers []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// AnswerRequest selects one option of a question. The index is a pointer so
// that option 0 passes the required check.
type AnswerRequest struct {
	QuestionID          int64 `json:"questionId" validate:"required,gt=0"`
	SelectedOptionIndex *int  `json:"selectedOptionIndex" validate:"required,gte=0"`
}

// CompleteModuleRequest is the body of POST /api/modules/{id}/complete.
type CompleteModuleRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

// RequestAcceptedResponse acknowledges a queued study path request.
type RequestAcceptedResponse struct {
	RequestID string `json:"requestId"`
}

// JobAcceptedResponse acknowledges a queued TTS job.
type JobAcceptedResponse struct {
	JobID string `json:"jobId"`
}

// StudyPathRequestResponse is the polling view of a study path request.
type StudyPathRequestResponse struct {
	ID           string     `json:"id"`
	UserID       *int64     `json:"userId,omitempty"`
	Topic        string     `json:"topic"`
	Status       string     `json:"status"`
	StudyPathID  *int64     `json:"studyPathId,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// ModuleResponse is a study path module without its embedding.
type ModuleResponse struct {
	ID          int64    `json:"id"`
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subtopics   []string `json:"subtopics"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

// StudyPathModulesResponse is a study path with its ordered modules.
type StudyPathModulesResponse struct {
	ID        int64            `json:"id"`
	Topic     string           `json:"topic"`
	CreatedAt time.Time        `json:"createdAt"`
	Modules   []ModuleResponse `json:"modules"`
}

// StudyPathSummaryResponse is a study path in a listing.
type StudyPathSummaryResponse struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"userId,omitempty"`
	Topic       string    `json:"topic"`
	CreatedAt   time.Time `json:"createdAt"`
	ModuleCount int       `json:"moduleCount"`
}

// ModuleMatchResponse is a module ranked by semantic distance.
type ModuleMatchResponse struct {
	ModuleResponse
	StudyPathID int64   `json:"studyPathId"`
	Distance    float64 `json:"distance"`
}

// SemanticSearchResponse lists the modules closest to a query.
type SemanticSearchResponse struct {
	Query   string                `json:"query"`
	Results []ModuleMatchResponse `json:"results"`
}

// QuestionResponse is a quiz question without its answer key.
type QuestionResponse struct {
	ID       int64    `json:"id"`
	Question string   `json:"questionText"`
	Options  []string `json:"options"`
}

// QuizResponse is the learner view of a quiz.
type QuizResponse struct {
	ID        int64              `json:"id"`
	ModuleID  int64              `json:"moduleId"`
	Title     string             `json:"title"`
	Questions []QuestionResponse `json:"questions"`
}

// AnswerResultResponse is a graded answer.
type AnswerResultResponse struct {
	QuestionID          int64 `json:"questionId"`
	SelectedOptionIndex int   `json:"selectedOptionIndex"`
	CorrectOptionIndex  int   `json:"correctOptionIndex"`
	Correct             bool  `json:"correct"`
}

// QuizAttemptResponse is a graded quiz submission.
type QuizAttemptResponse struct {
	ID          int64                  `json:"id"`
	QuizID      int64                  `json:"quizId"`
	UserID      int64                  `json:"userId"`
	Score       int                    `json:"score"`
	Total       int                    `json:"total"`
	Answers     []AnswerResultResponse `json:"answers"`
	SubmittedAt time.Time              `json:"submittedAt"`
}

// QuizPerformanceResponse summarizes a user's attempts at one quiz.
type QuizPerformanceResponse struct {
	QuizID        int64     `json:"quizId"`
	ModuleID      int64     `json:"moduleId"`
	Title         string    `json:"title"`
	Attempts      int       `json:"attempts"`
	BestScore     int       `json:"bestScore"`
	LastScore     int       `json:"lastScore"`
	QuestionCount int       `json:"questionCount"`
	LastAttemptAt time.Time `json:"lastAttemptAt"`
}

// UserPerformanceResponse is a user's quiz history.
type UserPerformanceResponse struct {
	UserID              int64                     `json:"userId"`
	TotalAttempts       int                       `json:"totalAttempts"`
	AverageScorePercent float64                   `json:"averageScorePercent"`
	Quizzes             []QuizPerformanceResponse `json:"quizzes"`
}

// ModuleCompletionResponse acknowledges a completed module.
type ModuleCompletionResponse struct {
	UserID      int64     `json:"userId"`
	ModuleID    int64     `json:"moduleId"`
	CompletedAt time.Time `json:"completedAt"`
}

// StudyPathProgressResponse is a user's completion of one study path.
type StudyPathProgressResponse struct {
	StudyPathID      int64     `json:"studyPathId"`
	Topic            string    `json:"topic"`
	CompletedModules int       `json:"completedModules"`
	TotalModules     int       `json:"totalModules"`
	Percent          int       `json:"percent"`
	LastCompletedAt  time.Time `json:"lastCompletedAt"`
}

// UserProgressResponse is a user's completion across study paths.
type UserProgressResponse struct {
	UserID           int64                       `json:"userId"`
	CompletedModules int                         `json:"completedModules"`
	TotalModules     int                         `json:"totalModules"`
	StudyPaths       []StudyPathProgressResponse `json:"studyPaths"`
}

// TTSJobResponse is the polling view of a TTS job.
type TTSJobResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	UserID       *int64     `json:"userId,omitempty"`
	ModuleID     *int64     `json:"moduleId,omitempty"`
	AudioURL     *string    `json:"audioUrl,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// SearchResponse lists modules matching a keyword query.
type SearchResponse struct {
	Query   string                  `json:"query"`
	Results []search.ModuleDocument `json:"results"`
}

func requestToResponse(req *domain.StudyPathRequest) StudyPathRequestResponse {
	return StudyPathRequestResponse{
		ID:           req.ID.String(),
		UserID:       req.UserID,
		Topic:        req.Topic,
		Status:       string(req.Status),
		StudyPathID:  req.StudyPathID,
		ErrorMessage: req.ErrorMessage,
		CreatedAt:    req.CreatedAt,
		CompletedAt:  req.CompletedAt,
	}
}

func studyPathToResponse(path *domain.StudyPath, modules []domain.Module) StudyPathModulesResponse {
	resp := StudyPathModulesResponse{
		ID:        path.ID,
		Topic:     path.Topic,
		CreatedAt: path.CreatedAt,
		Modules:   make([]ModuleResponse, 0, len(modules)),
	}
	for _, m := range modules {
		resp.Modules = append(resp.Modules, moduleToResponse(m))
	}
	return resp
}

func moduleToResponse(m domain.Module) ModuleResponse {
	return ModuleResponse{
		ID:          m.ID,
		Position:    m.Position,
		Title:       m.Title,
		Description: m.Description,
		Subtopics:   m.Subtopics,
		ImageURL:    m.ImageURL,
	}
}

func summariesToResponse(paths []domain.StudyPathSummary) []StudyPathSummaryResponse {
	resp := make([]StudyPathSummaryResponse, 0, len(paths))
	for _, p := range paths {
		resp = append(resp, StudyPathSummaryResponse{
			ID:          p.ID,
			UserID:      p.UserID,
			Topic:       p.Topic,
			CreatedAt:   p.CreatedAt,
			ModuleCount: p.ModuleCount,
		})
	}
	return resp
}

func matchesToResponse(query string, matches []domain.ModuleMatch) SemanticSearchResponse {
	resp := SemanticSearchResponse{Query: query, Results: make([]ModuleMatchResponse, 0, len(matches))}
	for _, m := range matches {
		resp.Results = append(resp.Results, ModuleMatchResponse{
			ModuleResponse: moduleToResponse(m.Module),
			StudyPathID:    m.StudyPathID,
			Distance:       m.Distance,
		})
	}
	return resp
}

func quizToResponse(view *domain.QuizView) QuizResponse {
	resp := QuizResponse{
		ID:        view.ID,
		ModuleID:  view.ModuleID,
		Title:     view.Title,
		Questions: make([]QuestionResponse, 0, len(view.Questions)),
	}
	for _, q := range view.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{ID: q.ID, Question: q.Text, Options: q.Options})
	}
	return resp
}

func attemptToResponse(attempt *domain.QuizAttempt) QuizAttemptResponse {
	resp := QuizAttemptResponse{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		UserID:      attempt.UserID,
		Score:       attempt.Score,
		Total:       attempt.Total,
		Answers:     make([]AnswerResultResponse, 0, len(attempt.Answers)),
		SubmittedAt: attempt.SubmittedAt,
	}
	for _, a := range attempt.Answers {
		resp.Answers = append(resp.Answers, AnswerResultResponse(a))
	}
	return resp
}

func performanceToResponse(perf *domain.UserPerformance) UserPerformanceResponse {
	resp := UserPerformanceResponse{
		UserID:              perf.UserID,
		TotalAttempts:       perf.TotalAttempts,
		AverageScorePercent: perf.AverageScorePercent,
		Quizzes:             make([]QuizPerformanceResponse, 0, len(perf.Quizzes)),
	}
	for _, q := range perf.Quizzes {
		resp.Quizzes = append(resp.Quizzes, QuizPerformanceResponse{
			QuizID:        q.QuizID,
			ModuleID:      q.ModuleID,
			Title:         q.Title,
			Attempts:      q.Attempts,
			BestScore:     q.BestScore,
			LastScore:     q.LastScore,
			QuestionCount: q.QuestionCount,
			LastAttemptAt: q.LastAttemptAt,
		})
	}
	return resp
}

func progressToResponse(progress *domain.UserProgress) UserProgressResponse {
	resp := UserProgressResponse{
		UserID:           progress.UserID,
		CompletedModules: progress.CompletedModules,
		TotalModules:     progress.TotalModules,
		StudyPaths:       make([]StudyPathProgressResponse, 0, len(progress.StudyPaths)),
	}
	for _, p := range progress.StudyPaths {
		resp.StudyPaths = append(resp.StudyPaths, StudyPathProgressResponse(p))
	}
	return resp
}

func jobToResponse(job *domain.TTSJob) TTSJobResponse {
	return TTSJobResponse{
		ID:           job.ID.String(),
		Status:       string(job.Status),
		UserID:       job.UserID,
		ModuleID:     job.ModuleID,
		AudioURL:     job.AudioURL,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
	}
}
