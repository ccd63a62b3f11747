package quiz

import (
	"errors"
	"fmt"
)

// User-facing alert texts.
const (
	LoadFailedMessage   = "Failed to load quiz questions. Please try again."
	SubmitFailedMessage = "Failed to submit quiz. Please try again."
)

var (
	// ErrNoQuestions means the backend returned an empty question list.
	ErrNoQuestions = errors.New("no quiz questions available")
	// ErrUnknownQuestion means an answer was given for a question not in the loaded sequence.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrEmptyAnswer means an answer value was empty.
	ErrEmptyAnswer = errors.New("answer must not be empty")
	// ErrUnanswered means Advance was called before the current question was answered.
	ErrUnanswered = errors.New("current question has not been answered")
	// ErrNotFinished means a submission was requested before the last question was reached.
	ErrNotFinished = errors.New("quiz is not finished")
)

// Stage names the submission step that failed.
type Stage string

const (
	StagePersist  Stage = "persist"
	StageGenerate Stage = "generate"
)

// QuestionsLoadFailedError reports that the question list could not be fetched.
type QuestionsLoadFailedError struct {
	Message string
	Cause   error
}

func (e *QuestionsLoadFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("questions load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("questions load error: %s", e.Message)
}

func (e *QuestionsLoadFailedError) Unwrap() error {
	return e.Cause
}

// SubmitFailedError reports that persisting answers or generating recommendations failed.
// The answer map is left untouched so the submission can be retried.
type SubmitFailedError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *SubmitFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quiz submit error (%s): %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("quiz submit error (%s): %s", e.Stage, e.Message)
}

func (e *SubmitFailedError) Unwrap() error {
	return e.Cause
}

// AlertMessage returns the user-facing text for an engine error.
func AlertMessage(err error) string {
	var loadErr *QuestionsLoadFailedError
	var submitErr *SubmitFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &loadErr):
		return loadErr.Message
	case errors.As(err, &submitErr):
		return submitErr.Message
	case errors.Is(err, ErrNoQuestions):
		return "No quiz questions are available yet."
	case errors.Is(err, ErrUnanswered):
		return "Please select an answer before continuing."
	case errors.Is(err, ErrNotFinished):
		return "Please answer every question before submitting."
	default:
		return err.Error()
	}
}
