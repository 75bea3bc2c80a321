package generation

import (
	"testing"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStudyPath(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		draft, err := ParseStudyPath(`{"studyPath":[{"title":"Intro","description":"d","subtopics":["a","b"]}]}`)
		require.NoError(t, err)
		require.Len(t, draft.Modules, 1)
		assert.Equal(t, []string{"a", "b"}, draft.Modules[0].Subtopics)
	})

	t.Run("fenced json", func(t *testing.T) {
		raw := "```json\n{\"studyPath\":[{\"title\":\"Intro\",\"description\":\"\",\"subtopics\":[]}]}\n```"
		draft, err := ParseStudyPath(raw)
		require.NoError(t, err)
		assert.Equal(t, "Intro", draft.Modules[0].Title)
	})

	t.Run("fence inside a value is kept", func(t *testing.T) {
		raw := "```json\n{\"studyPath\":[{\"title\":\"Bloques\",\"description\":\"Usa ```go fmt.Println()``` para imprimir\",\"subtopics\":[]}]}\n```\n"
		draft, err := ParseStudyPath(raw)
		require.NoError(t, err)
		assert.Equal(t, "Usa ```go fmt.Println()``` para imprimir", draft.Modules[0].Description)

		draft, err = ParseStudyPath("{\"studyPath\":[{\"title\":\"Bloques\",\"description\":\"a ``` b\",\"subtopics\":[]}]}")
		require.NoError(t, err)
		assert.Equal(t, "a ``` b", draft.Modules[0].Description)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseStudyPath("Here is your study path!")
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := ParseStudyPath(`{"studyPath":[]}`)
		assert.ErrorIs(t, err, ErrMalformedOutput)
		assert.ErrorIs(t, err, domain.ErrNoModules)
	})
}

func TestParseQuiz(t *testing.T) {
	t.Run("valid quiz", func(t *testing.T) {
		raw := `{"title":"Repaso","questions":[{"question_text":"q","options":["a","b","c","d"],"correct_option_index":3}]}`
		draft, err := ParseQuiz(raw)
		require.NoError(t, err)
		assert.Equal(t, 3, draft.Questions[0].CorrectOptionIndex)
	})

	t.Run("no questions", func(t *testing.T) {
		_, err := ParseQuiz(`{"title":"Repaso","questions":[]}`)
		assert.ErrorIs(t, err, ErrMalformedOutput)
		assert.ErrorIs(t, err, domain.ErrNoQuestions)
	})

	t.Run("unparsable", func(t *testing.T) {
		_, err := ParseQuiz(`{"title":`)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})
}

func TestPrompts(t *testing.T) {
	p := StudyPathPrompt("Aprende Python", "Spanish")
	assert.Contains(t, p, `"Aprende Python"`)
	assert.Contains(t, p, "Spanish")

	q := QuizPrompt(&domain.Module{Title: "Bucles", Description: "for y while", Subtopics: []string{"for", "while"}}, "Spanish")
	assert.Contains(t, q, "EXACTLY 5 questions")
	assert.Contains(t, q, "Subtopics: for, while")
	assert.Contains(t, q, "4 distinct options")
}

func TestSchemasRequireTopLevelKeys(t *testing.T) {
	assert.Equal(t, []string{"studyPath"}, StudyPathSchema().Required)
	assert.ElementsMatch(t, []string{"title", "questions"}, QuizSchema().Required)
	assert.Equal(t, TypeInteger, QuizSchema().Properties["questions"].Items.Properties["correct_option_index"].Type)
}
