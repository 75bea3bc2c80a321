package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumenlearn/lumen/internal/domain"
)

// QuizQuestionCount is the number of questions requested per quiz.
const QuizQuestionCount = 5

// QuizOptionCount is the number of options requested per question.
const QuizOptionCount = 4

// StudyPathPrompt asks for a beginner-friendly, step-by-step decomposition of topic.
func StudyPathPrompt(topic, language string) string {
	return fmt.Sprintf(`Create a detailed, step-by-step study path for learning %q.
The path must suit a beginner and cover the main topics in a sensible order.
For each module give a short title, a one or two sentence description and a list of subtopics.
Write every title, description and subtopic in %s.
Return a JSON object with a "studyPath" array of objects with the keys "title", "description" and "subtopics".`,
		topic, language)
}

// StudyPathSchema is the response schema matching domain.StudyPathDraft.
func StudyPathSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"studyPath": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"title":       {Type: TypeString},
						"description": {Type: TypeString},
						"subtopics":   {Type: TypeArray, Items: &Schema{Type: TypeString}},
					},
					Required: []string{"title", "description", "subtopics"},
				},
			},
		},
		Required: []string{"studyPath"},
	}
}

// QuizPrompt asks for a multiple-choice quiz covering module.
func QuizPrompt(module *domain.Module, language string) string {
	return fmt.Sprintf(`You are an expert author of educational content.
Based on the study module below, generate a multiple-choice quiz with EXACTLY %d questions.

Module content:
- Title: %s
- Description: %s
- Subtopics: %s

Instructions:
1. The quiz must assess the key concepts of the module.
2. Every question must have %d distinct options and exactly one correct answer.
3. correct_option_index is the zero-based index of the correct option.
4. All text, including the quiz title, questions and options, must be in %s.`,
		QuizQuestionCount,
		module.Title,
		module.Description,
		strings.Join(module.Subtopics, ", "),
		QuizOptionCount,
		language)
}

// QuizSchema is the response schema matching domain.QuizDraft.
func QuizSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"title": {Type: TypeString},
			"questions": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"question_text":        {Type: TypeString},
						"options":              {Type: TypeArray, Items: &Schema{Type: TypeString}},
						"correct_option_index": {Type: TypeInteger},
					},
					Required: []string{"question_text", "options", "correct_option_index"},
				},
			},
		},
		Required: []string{"title", "questions"},
	}
}

// stripCodeFences removes a markdown fence some models wrap JSON in even when
// a response schema is set. Only an opening fence line and a closing fence
// are removed; fences inside string values are content.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	newline := strings.IndexByte(cleaned, '\n')
	if newline < 0 {
		return cleaned
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned[newline+1:]), "```")
	return strings.TrimSpace(cleaned)
}

// ParseStudyPath decodes and validates provider output for a study path.
func ParseStudyPath(raw string) (*domain.StudyPathDraft, error) {
	var draft domain.StudyPathDraft
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &draft); err != nil {
		return nil, fmt.Errorf("%w: study path is not valid JSON: %v", ErrMalformedOutput, err)
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	return &draft, nil
}

// ParseQuiz decodes and validates provider output for a quiz.
func ParseQuiz(raw string) (*domain.QuizDraft, error) {
	var draft domain.QuizDraft
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &draft); err != nil {
		return nil, fmt.Errorf("%w: quiz is not valid JSON: %v", ErrMalformedOutput, err)
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	return &draft, nil
}
