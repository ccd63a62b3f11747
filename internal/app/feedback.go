package app

import (
	"context"
	"fmt"

	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

// Alert texts of the feedback view.
const (
	FeedbackLoadFailedMessage   = "Failed to load feedback. Please try again."
	FeedbackSubmitFailedMessage = "Failed to submit feedback. Please try again."
)

// FeedbackModel lists the user's feedback and submits new messages.
type FeedbackModel struct {
	status
	gateway Gateway

	items []types.Feedback
}

// Items returns the user's feedback, newest first.
func (m *FeedbackModel) Items() []types.Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Feedback(nil), m.items...)
}

// Submit sends a feedback message. An empty message is rejected before any request.
func (m *FeedbackModel) Submit(message string) (*types.Feedback, error) {
	req := types.FeedbackRequest{Message: message}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: message is required", ErrMissingField)
	}
	scope, err := m.active()
	if err != nil {
		return nil, err
	}
	if err := m.begin(scope); err != nil {
		return nil, err
	}
	fb, err := task.Run(scope, "submit feedback", func(ctx context.Context) (*types.Feedback, error) {
		fb, err := m.gateway.SubmitFeedback(ctx, req.Message)
		if err != nil {
			return nil, loadFailed(FeedbackSubmitFailedMessage)(err)
		}
		return fb, nil
	})
	if err := m.finish(scope, err, func() {
		if fb != nil {
			m.items = append([]types.Feedback{*fb}, m.items...)
		}
	}); err != nil {
		return nil, err
	}
	return fb, nil
}

// Retry reloads the list.
func (m *FeedbackModel) Retry() error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	return m.load(scope)
}

func (m *FeedbackModel) reset(scope *task.Scope) {
	m.attach(scope, func() { m.items = nil })
}

func (m *FeedbackModel) load(scope *task.Scope) error {
	if err := m.begin(scope); err != nil {
		return err
	}
	items, err := task.Run(scope, "load feedback", func(ctx context.Context) ([]types.Feedback, error) {
		items, err := m.gateway.Feedback(ctx)
		if err != nil {
			return nil, loadFailed(FeedbackLoadFailedMessage)(err)
		}
		return items, nil
	})
	return m.finish(scope, err, func() { m.items = items })
}
