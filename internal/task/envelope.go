package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Envelope is the wire form of a task: a type tag and its payload.
type Envelope struct {
	TaskType Type            `json:"taskType"`
	Payload  json.RawMessage `json:"payload"`
}

// Encode returns the envelope JSON for t.
func Encode(t Task) ([]byte, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", t.Type(), err)
	}
	return json.Marshal(Envelope{TaskType: t.Type(), Payload: payload})
}

// Decode parses an envelope and its payload into the matching task variant.
// It returns ErrMalformedEnvelope or ErrUnknownTaskType for messages that can
// never be processed.
func Decode(body []byte) (Task, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.TaskType == "" {
		return nil, fmt.Errorf("%w: missing taskType", ErrMalformedEnvelope)
	}

	switch env.TaskType {
	case TypeGenerateStudyPath:
		return decodePayload[StudyPathTask](env)
	case TypeGenerateQuiz:
		return decodePayload[QuizTask](env)
	case TypeGenerateImages:
		return decodePayload[ImagesTask](env)
	case TypeGenerateTTS:
		return decodePayload[TTSTask](env)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, env.TaskType)
	}
}

type normalizer interface {
	normalize()
}

func decodePayload[T Task](env Envelope) (Task, error) {
	var t T
	raw := bytes.TrimSpace(env.Payload)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: %s has no payload", ErrMalformedEnvelope, env.TaskType)
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedEnvelope, env.TaskType, err)
	}
	if n, ok := any(&t).(normalizer); ok {
		n.normalize()
	}
	if err := validate.Struct(t); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedEnvelope, env.TaskType, err)
	}
	return t, nil
}

func (t *StudyPathTask) normalize() {
	t.Topic = strings.TrimSpace(t.Topic)
}

func (t *TTSTask) normalize() {
	t.Text = strings.TrimSpace(t.Text)
}
