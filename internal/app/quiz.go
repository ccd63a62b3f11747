package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jonathan/career-guide/internal/quiz"
	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

// QuizModel wraps the progression engine of one quiz mount.
type QuizModel struct {
	status
	gateway Gateway
	logger  *zap.Logger
	opts    quiz.Options

	engine *quiz.Engine
}

// Engine returns the engine of the current mount, or nil before the first mount.
func (m *QuizModel) Engine() *quiz.Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine
}

// Completed reports whether the current mount's submission has finished.
func (m *QuizModel) Completed() bool {
	e := m.Engine()
	return e != nil && e.State() == quiz.StateCompleted
}

// Answer records value for the current question.
func (m *QuizModel) Answer(value string) error {
	e := m.Engine()
	if e == nil {
		return ErrNotMounted
	}
	q, ok := e.Current()
	if !ok {
		return quiz.ErrNoQuestions
	}
	return e.RecordAnswer(q.ID, value)
}

// Advance moves forward, submitting at the last question.
func (m *QuizModel) Advance() error {
	return m.step("advance quiz", func(ctx context.Context, e *quiz.Engine) error {
		return e.Advance(ctx)
	})
}

// Retreat moves back one question.
func (m *QuizModel) Retreat() {
	if e := m.Engine(); e != nil {
		e.Retreat()
	}
}

// Submit submits the quiz. It is refused before the last question is answered, except to
// retry a failed submission.
func (m *QuizModel) Submit() error {
	return m.step("submit quiz", func(ctx context.Context, e *quiz.Engine) error {
		if err := e.Submittable(); err != nil {
			return err
		}
		_, err := e.Submit(ctx)
		return err
	})
}

// Retry repeats the failed operation. A failed submission is resubmitted and a failed or
// empty question load is reloaded. Answer validation alerts leave the quiz untouched.
func (m *QuizModel) Retry() error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	e := m.Engine()
	var submitErr *quiz.SubmitFailedError
	switch {
	case errors.As(e.Err(), &submitErr):
		return m.Submit()
	case e.Total() == 0:
		return m.load(scope)
	}
	return nil
}

func (m *QuizModel) step(name string, fn func(ctx context.Context, e *quiz.Engine) error) error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	e := m.Engine()
	if err := m.begin(scope); err != nil {
		return err
	}
	_, err = task.Run(scope, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx, e)
	})
	return m.finish(scope, err, nil)
}

func (m *QuizModel) reset(scope *task.Scope) {
	m.attach(scope, func() {
		m.engine = quiz.NewEngine(m.gateway, m.logger, m.opts)
	})
}

func (m *QuizModel) load(scope *task.Scope) error {
	e := m.Engine()
	if err := m.begin(scope); err != nil {
		return err
	}
	_, err := task.Run(scope, "load questions", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.LoadQuestions(ctx)
	})
	return m.finish(scope, err, nil)
}

// CurrentQuestion returns the question at the current position.
func (m *QuizModel) CurrentQuestion() (types.Question, bool) {
	e := m.Engine()
	if e == nil {
		return types.Question{}, false
	}
	return e.Current()
}
