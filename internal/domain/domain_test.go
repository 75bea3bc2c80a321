package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudyPathRequest(t *testing.T) {
	userID := int64(42)

	t.Run("valid request", func(t *testing.T) {
		req, err := NewStudyPathRequest(&userID, "  Aprende Python  ")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, req.ID)
		assert.Equal(t, "Aprende Python", req.Topic)
		assert.Equal(t, RequestStatusPending, req.Status)
		assert.Nil(t, req.StudyPathID)
		assert.Nil(t, req.CompletedAt)
	})

	t.Run("empty topic", func(t *testing.T) {
		_, err := NewStudyPathRequest(nil, "   ")
		assert.ErrorIs(t, err, ErrEmptyTopic)
	})
}

func TestRequestStatus(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.False(t, RequestStatusProcessing.IsTerminal())
	assert.True(t, RequestStatusCompleted.IsTerminal())
	assert.True(t, RequestStatusFailed.IsTerminal())
	assert.False(t, RequestStatus("archived").IsValid())
}

func TestStudyPathDraft(t *testing.T) {
	t.Run("embedding text", func(t *testing.T) {
		d := ModuleDraft{Title: "Variables", Description: "Tipos básicos", Subtopics: []string{"int", "str"}}
		assert.Equal(t, "Title: Variables\nDescription: Tipos básicos\nSubtopics: int, str", d.EmbeddingText())
	})

	t.Run("parses provider shape", func(t *testing.T) {
		raw := `{"studyPath":[{"title":"Intro","description":"d","subtopics":["a"]}]}`
		var d StudyPathDraft
		require.NoError(t, json.Unmarshal([]byte(raw), &d))
		require.NoError(t, d.Validate())
		assert.Equal(t, "Intro", d.Modules[0].Title)
	})

	t.Run("no modules", func(t *testing.T) {
		assert.ErrorIs(t, StudyPathDraft{}.Validate(), ErrNoModules)
	})

	t.Run("untitled module", func(t *testing.T) {
		d := StudyPathDraft{Modules: []ModuleDraft{{Title: "ok"}, {Title: " "}}}
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})
}

func TestValidateEmbedding(t *testing.T) {
	assert.NoError(t, ValidateEmbedding(make([]float32, 3072), 3072))
	assert.ErrorIs(t, ValidateEmbedding(make([]float32, 768), 3072), ErrInvalidEmbedding)
}

func TestTTSJob(t *testing.T) {
	t.Run("new job", func(t *testing.T) {
		job, err := NewTTSJob("Hola", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, TTSJobStatusPending, job.Status)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := NewTTSJob(" ", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("public view hides audio until completed", func(t *testing.T) {
		url := "https://cdn.example.com/tts/x.wav"
		job := TTSJob{Status: TTSJobStatusPending, AudioURL: &url}
		assert.Nil(t, job.PublicView().AudioURL)
		assert.NotNil(t, job.AudioURL, "original must not be modified")

		job.Status = TTSJobStatusCompleted
		assert.Equal(t, &url, job.PublicView().AudioURL)
	})
}

func TestQuizDraftValidate(t *testing.T) {
	valid := QuestionDraft{Text: "¿Qué es?", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 2}

	tests := []struct {
		name    string
		draft   QuizDraft
		wantErr error
	}{
		{"valid", QuizDraft{Title: "t", Questions: []QuestionDraft{valid}}, nil},
		{"no questions", QuizDraft{Title: "t"}, ErrNoQuestions},
		{"index out of range", QuizDraft{Questions: []QuestionDraft{{Text: "q", Options: []string{"a", "b"}, CorrectOptionIndex: 2}}}, ErrInvalidQuestion},
		{"negative index", QuizDraft{Questions: []QuestionDraft{{Text: "q", Options: []string{"a", "b"}, CorrectOptionIndex: -1}}}, ErrInvalidQuestion},
		{"empty text", QuizDraft{Questions: []QuestionDraft{{Text: "", Options: []string{"a", "b"}}}}, ErrInvalidQuestion},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestQuizLearnerViewOmitsAnswers(t *testing.T) {
	quiz := &Quiz{
		ID:       7,
		ModuleID: 3,
		Title:    "Repaso",
		Questions: []Question{
			{ID: 1, Text: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: 1},
			{ID: 2, Text: "q2", Options: []string{"c", "d"}, CorrectOptionIndex: 0},
		},
	}

	view := quiz.LearnerView()
	require.Len(t, view.Questions, 2)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "correct_option_index"))
	assert.Equal(t, []string{"a", "b"}, view.Questions[0].Options)
}
