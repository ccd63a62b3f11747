// Package task ties asynchronous work to the lifetime of a mounted view. Closing a scope
// cancels every request started under it, and results that arrive after the close are
// dropped instead of being applied to a view that is gone.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrViewUnmounted is the cancel cause of a closed scope.
var ErrViewUnmounted = errors.New("view unmounted")

// ErrDiscarded reports that a task finished after its scope ended.
var ErrDiscarded = errors.New("task result discarded")

// Scope is the set of tasks started for one view mount.
type Scope struct {
	name   string
	ctx    context.Context
	cancel context.CancelCauseFunc
	group  *errgroup.Group
	logger *zap.Logger

	once sync.Once
}

// NewScope creates a scope derived from parent.
func NewScope(parent context.Context, name string, logger *zap.Logger) *Scope {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancelCause(parent)
	return &Scope{
		name:   name,
		ctx:    ctx,
		cancel: cancel,
		group:  &errgroup.Group{},
		logger: logger.With(zap.String("scope", name)),
	}
}

// Name returns the scope name, normally the view it belongs to.
func (s *Scope) Name() string {
	return s.name
}

// Context returns the scope context. It is cancelled when the scope closes.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Done reports whether the scope has been closed or its parent cancelled.
func (s *Scope) Done() bool {
	return s.ctx.Err() != nil
}

// Close cancels every task of the scope. It is safe to call more than once.
func (s *Scope) Close() {
	s.once.Do(func() {
		s.cancel(ErrViewUnmounted)
		s.logger.Debug("scope closed")
	})
}

// Go runs fn in the background under the scope context. Errors are logged; Wait returns
// the first one.
func (s *Scope) Go(name string, fn func(ctx context.Context) error) {
	id := uuid.NewString()
	s.group.Go(func() error {
		log := s.logger.With(zap.String("task", name), zap.String("task_id", id))
		log.Debug("task started")
		err := fn(s.ctx)
		if err != nil {
			if s.Done() {
				log.Debug("task ended after scope close", zap.Error(err))
				return nil
			}
			log.Warn("task failed", zap.Error(err))
			return err
		}
		log.Debug("task finished")
		return nil
	})
}

// Wait blocks until every task started with Go has returned.
func (s *Scope) Wait() error {
	return s.group.Wait()
}

// Run executes fn synchronously under the scope context. If the scope ends before fn
// returns, the result is dropped and an error wrapping ErrDiscarded and the cancel cause
// is returned.
func Run[T any](s *Scope, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if s.Done() {
		return zero, discarded(s)
	}

	id := uuid.NewString()
	log := s.logger.With(zap.String("task", name), zap.String("task_id", id))
	log.Debug("task started")

	result, err := fn(s.ctx)
	if s.Done() {
		log.Debug("task result discarded", zap.Error(context.Cause(s.ctx)))
		return zero, discarded(s)
	}
	if err != nil {
		log.Debug("task failed", zap.Error(err))
		return zero, err
	}
	log.Debug("task finished")
	return result, nil
}

func discarded(s *Scope) error {
	return fmt.Errorf("%s: %w: %w", s.name, ErrDiscarded, context.Cause(s.ctx))
}
