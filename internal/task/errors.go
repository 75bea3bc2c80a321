package task

import "errors"

var (
	// ErrMalformedEnvelope is returned when a message body is not a valid
	// envelope or its payload does not fit the named task type.
	ErrMalformedEnvelope = errors.New("malformed task envelope")

	// ErrUnknownTaskType is returned when an envelope names no known task.
	ErrUnknownTaskType = errors.New("unknown task type")

	// ErrMissingDependency is returned by NewService when a required
	// collaborator is nil.
	ErrMissingDependency = errors.New("missing task dependency")
)

// RecordedFailure reports a handler failure that has already been written to
// the durable record the client polls. The message is settled as handled.
type RecordedFailure struct {
	Err error
}

func (e *RecordedFailure) Error() string {
	return "recorded failure: " + e.Err.Error()
}

func (e *RecordedFailure) Unwrap() error {
	return e.Err
}
