package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/career-guide/internal/api"
	"github.com/jonathan/career-guide/internal/quiz"
	"github.com/jonathan/career-guide/internal/task"
)

// ErrNotMounted is returned when a model is used while its view is not mounted.
var ErrNotMounted = errors.New("view is not mounted")

// LoadFailedError carries the alert text shown for a failed view operation.
type LoadFailedError struct {
	Message string
	Cause   error
}

func (e *LoadFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadFailedError) Unwrap() error {
	return e.Cause
}

func loadFailed(message string) func(error) error {
	return func(err error) error {
		return &LoadFailedError{Message: message, Cause: err}
	}
}

// alertText maps an operation error to the text a view shows.
func alertText(err error) string {
	var loadErr *LoadFailedError
	var submitErr *quiz.SubmitFailedError
	var questionsErr *quiz.QuestionsLoadFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &loadErr):
		return loadErr.Message
	case errors.As(err, &submitErr), errors.As(err, &questionsErr),
		errors.Is(err, quiz.ErrNoQuestions), errors.Is(err, quiz.ErrUnanswered):
		return quiz.AlertMessage(err)
	default:
		return api.Message(err)
	}
}

func isUnauthorized(err error) bool {
	return api.StatusCode(err) == http.StatusUnauthorized
}

// model is the per-view state the root controller mounts.
type model interface {
	reset(scope *task.Scope)
	load(scope *task.Scope) error
}

// status is the mount and alert bookkeeping shared by every model. The mutex also guards
// the embedding model's own fields.
type status struct {
	mu      sync.Mutex
	scope   *task.Scope
	loading bool
	alert   string
}

// Loading reports whether an operation of the view is in flight.
func (s *status) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Alert returns the alert text of the last failed operation, or "".
func (s *status) Alert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alert
}

func (s *status) attach(scope *task.Scope, empty func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = scope
	s.loading = false
	s.alert = ""
	if empty != nil {
		empty()
	}
}

// active returns the scope of the live mount.
func (s *status) active() (*task.Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scope == nil || s.scope.Done() {
		return nil, ErrNotMounted
	}
	return s.scope, nil
}

func (s *status) begin(scope *task.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scope != scope || scope.Done() {
		return ErrNotMounted
	}
	s.loading = true
	s.alert = ""
	return nil
}

// finish applies the outcome of an operation started under scope. Outcomes of a scope
// that is no longer mounted are dropped. onSuccess runs with the lock held.
func (s *status) finish(scope *task.Scope, err error, onSuccess func()) error {
	if errors.Is(err, task.ErrDiscarded) {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scope != scope || scope.Done() {
		return fmt.Errorf("%s: %w: %w", scope.Name(), task.ErrDiscarded, context.Cause(scope.Context()))
	}
	s.loading = false
	if err != nil {
		s.alert = alertText(err)
		return err
	}
	s.alert = ""
	if onSuccess != nil {
		onSuccess()
	}
	return nil
}
