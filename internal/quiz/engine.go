// Package quiz implements the quiz progression engine: it holds the ordered questions, the
// current position and the answer map, and turns a finished quiz into recommendations.
package quiz

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/career-guide/internal/types"
)

// Gateway is the subset of the backend the engine talks to.
type Gateway interface {
	Questions(ctx context.Context) ([]types.Question, error)
	SubmitAnswers(ctx context.Context, answers types.Answers) (*types.QuizResponse, error)
	GenerateRecommendations(ctx context.Context) ([]types.Recommendation, error)
}

// State is the lifecycle phase of an engine.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateEmpty      State = "empty"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Options tunes engine behavior.
type Options struct {
	// AllowUnanswered lets Advance move past a question with no recorded answer.
	AllowUnanswered bool
}

// Engine drives one pass through the quiz. It is safe for concurrent use.
type Engine struct {
	gateway Gateway
	logger  *zap.Logger
	opts    Options
	flight  singleflight.Group

	mu        sync.Mutex
	questions []types.Question
	index     int
	answers   types.Answers
	state     State
	err       error
	recs      []types.Recommendation
}

// NewEngine creates an idle engine.
func NewEngine(gateway Gateway, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		gateway: gateway,
		logger:  logger.Named("quiz"),
		opts:    opts,
		answers: types.Answers{},
		state:   StateIdle,
	}
}

// LoadQuestions fetches the question list and resets position and answers.
func (e *Engine) LoadQuestions(ctx context.Context) error {
	e.mu.Lock()
	e.state = StateLoading
	e.err = nil
	e.mu.Unlock()

	questions, err := e.gateway.Questions(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.index = 0
	e.answers = types.Answers{}
	e.recs = nil

	if err != nil {
		e.questions = nil
		e.state = StateFailed
		e.err = &QuestionsLoadFailedError{Message: LoadFailedMessage, Cause: err}
		e.logger.Warn("failed to load questions", zap.Error(err))
		return e.err
	}
	if len(questions) == 0 {
		e.questions = nil
		e.state = StateEmpty
		e.err = ErrNoQuestions
		e.logger.Info("question list is empty")
		return ErrNoQuestions
	}

	e.questions = questions
	e.state = StateReady
	e.logger.Debug("questions loaded", zap.Int("count", len(questions)))
	return nil
}

// RecordAnswer sets the answer for a question, replacing any earlier one. The value is not
// checked against the question's options.
func (e *Engine) RecordAnswer(questionID int, value string) error {
	if value == "" {
		return ErrEmptyAnswer
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasQuestionLocked(questionID) {
		return fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}
	e.answers[types.QuestionKey(questionID)] = value
	return nil
}

// Advance moves to the next question. At the last question it submits the quiz instead.
func (e *Engine) Advance(ctx context.Context) error {
	e.mu.Lock()
	if len(e.questions) == 0 {
		e.mu.Unlock()
		return ErrNoQuestions
	}
	if e.state == StateCompleted {
		e.mu.Unlock()
		return nil
	}
	current := e.questions[e.index]
	if _, answered := e.answers[current.Key()]; !answered && !e.opts.AllowUnanswered && e.state != StateSubmitting {
		e.mu.Unlock()
		return ErrUnanswered
	}
	if e.index < len(e.questions)-1 {
		e.index++
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	_, err := e.Submit(ctx)
	return err
}

// Retreat moves to the previous question. It is a no-op on the first question.
func (e *Engine) Retreat() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index > 0 {
		e.index--
	}
}

// Submit persists the answer map and then requests recommendations. Generation is never
// requested when persisting fails. Concurrent calls share one submission. After a
// successful submission the answer map is cleared and later calls return the same
// recommendations without contacting the backend.
//
// The shared submission runs under the ctx of the caller that started it. Callers that join
// it fail with that caller's cancellation, so concurrent callers should share one context.
// Submit does not check the position; use Submittable before a direct submission.
func (e *Engine) Submit(ctx context.Context) ([]types.Recommendation, error) {
	v, err, shared := e.flight.Do("submit", func() (any, error) {
		return e.submit(ctx)
	})
	if shared {
		e.logger.Debug("joined in-flight submission")
	}
	if err != nil {
		return nil, err
	}
	return v.([]types.Recommendation), nil
}

// Submittable reports whether the quiz may be submitted directly. That holds at the last
// question once it is answered (or with AllowUnanswered), and after a submission has
// started, failed or completed.
func (e *Engine) Submittable() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.questions) == 0 {
		return ErrNoQuestions
	}
	switch e.state {
	case StateSubmitting, StateFailed, StateCompleted:
		return nil
	}
	if e.index < len(e.questions)-1 {
		return ErrNotFinished
	}
	if _, answered := e.answers[e.questions[e.index].Key()]; !answered && !e.opts.AllowUnanswered {
		return ErrUnanswered
	}
	return nil
}

func (e *Engine) submit(ctx context.Context) ([]types.Recommendation, error) {
	e.mu.Lock()
	if e.state == StateCompleted {
		recs := e.recs
		e.mu.Unlock()
		return recs, nil
	}
	if len(e.questions) == 0 {
		e.mu.Unlock()
		return nil, ErrNoQuestions
	}
	answers := e.answers.Clone()
	e.state = StateSubmitting
	e.err = nil
	e.mu.Unlock()

	if _, err := e.gateway.SubmitAnswers(ctx, answers); err != nil {
		return nil, e.fail(StagePersist, err)
	}
	recs, err := e.gateway.GenerateRecommendations(ctx)
	if err != nil {
		return nil, e.fail(StageGenerate, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.recs = recs
	e.answers = types.Answers{}
	e.state = StateCompleted
	e.logger.Info("quiz submitted", zap.Int("answers", len(answers)), zap.Int("recommendations", len(recs)))
	return recs, nil
}

func (e *Engine) fail(stage Stage, cause error) error {
	err := &SubmitFailedError{Stage: stage, Message: SubmitFailedMessage, Cause: cause}
	e.mu.Lock()
	e.state = StateFailed
	e.err = err
	e.mu.Unlock()
	e.logger.Warn("quiz submission failed", zap.String("stage", string(stage)), zap.Error(cause))
	return err
}

// Progress returns the completion percentage of the current position, rounded to the
// nearest integer. It is 0 when no questions are loaded.
func (e *Engine) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(e.index+1) / float64(len(e.questions)) * 100))
}

// Current returns the question at the current position.
func (e *Engine) Current() (types.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.questions) == 0 {
		return types.Question{}, false
	}
	return e.questions[e.index], true
}

// Questions returns the loaded sequence.
func (e *Engine) Questions() []types.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Question(nil), e.questions...)
}

// Index returns the zero-based current position.
func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Total returns the number of loaded questions.
func (e *Engine) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.questions)
}

// Answers returns a copy of the answer map.
func (e *Engine) Answers() types.Answers {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.answers.Clone()
}

// Answer returns the recorded answer for a question.
func (e *Engine) Answer(questionID int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.answers[types.QuestionKey(questionID)]
	return v, ok
}

// IsLast reports whether the current question is the last one.
func (e *Engine) IsLast() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.questions) > 0 && e.index == len(e.questions)-1
}

// CanAdvance reports whether Advance would move forward or submit.
func (e *Engine) CanAdvance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.questions) == 0 || e.state == StateSubmitting || e.state == StateCompleted {
		return false
	}
	if e.opts.AllowUnanswered {
		return true
	}
	_, ok := e.answers[e.questions[e.index].Key()]
	return ok
}

// CanRetreat reports whether Retreat would move back.
func (e *Engine) CanRetreat() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index > 0
}

// Recommendations returns the recommendations from a completed submission.
func (e *Engine) Recommendations() []types.Recommendation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Recommendation(nil), e.recs...)
}

// State returns the lifecycle phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the last surfaced error, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Engine) hasQuestionLocked(id int) bool {
	for _, q := range e.questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
