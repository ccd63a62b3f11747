package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

// AdminLoadFailedMessage is shown when any admin listing cannot be fetched.
const AdminLoadFailedMessage = "Failed to load admin data. Please try again."

// AdminModel holds the system-wide listings of the admin view.
type AdminModel struct {
	status
	gateway Gateway

	data AdminData
}

// AdminData is one snapshot of the admin listings.
type AdminData struct {
	Users           []types.User
	Questions       []types.Question
	Responses       []types.QuizResponse
	Recommendations []types.Recommendation
	Feedback        []types.Feedback
}

// Data returns a copy of the loaded listings.
func (m *AdminModel) Data() AdminData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return AdminData{
		Users:           append([]types.User(nil), m.data.Users...),
		Questions:       append([]types.Question(nil), m.data.Questions...),
		Responses:       append([]types.QuizResponse(nil), m.data.Responses...),
		Recommendations: append([]types.Recommendation(nil), m.data.Recommendations...),
		Feedback:        append([]types.Feedback(nil), m.data.Feedback...),
	}
}

// CreateQuestion adds a quiz question.
func (m *AdminModel) CreateQuestion(req types.CreateQuestionRequest) (*types.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: question text, category and options are required", ErrMissingField)
	}
	scope, err := m.active()
	if err != nil {
		return nil, err
	}
	if err := m.begin(scope); err != nil {
		return nil, err
	}
	q, err := task.Run(scope, "create question", func(ctx context.Context) (*types.Question, error) {
		return m.gateway.CreateQuestion(ctx, req)
	})
	if err := m.finish(scope, err, func() {
		if q != nil {
			m.data.Questions = append(m.data.Questions, *q)
		}
	}); err != nil {
		return nil, err
	}
	return q, nil
}

// DeleteQuestion removes a quiz question.
func (m *AdminModel) DeleteQuestion(id int) error {
	return m.remove("delete question", id, m.gateway.DeleteQuestion, func() {
		m.data.Questions = without(m.data.Questions, func(q types.Question) bool { return q.ID == id })
	})
}

// DeleteFeedback removes a feedback entry.
func (m *AdminModel) DeleteFeedback(id int) error {
	return m.remove("delete feedback", id, m.gateway.DeleteFeedback, func() {
		m.data.Feedback = without(m.data.Feedback, func(f types.Feedback) bool { return f.ID == id })
	})
}

func (m *AdminModel) remove(name string, id int, del func(context.Context, int) error, onSuccess func()) error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	if err := m.begin(scope); err != nil {
		return err
	}
	_, err = task.Run(scope, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, del(ctx, id)
	})
	return m.finish(scope, err, onSuccess)
}

// Retry reloads every listing.
func (m *AdminModel) Retry() error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	return m.load(scope)
}

func (m *AdminModel) reset(scope *task.Scope) {
	m.attach(scope, func() { m.data = AdminData{} })
}

func (m *AdminModel) load(scope *task.Scope) error {
	if err := m.begin(scope); err != nil {
		return err
	}
	data, err := task.Run(scope, "load admin data", func(ctx context.Context) (AdminData, error) {
		var d AdminData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Users, err = m.gateway.Users(gctx)
			return err
		})
		g.Go(func() (err error) {
			d.Questions, err = m.gateway.Questions(gctx)
			return err
		})
		g.Go(func() (err error) {
			d.Responses, err = m.gateway.AllQuizResponses(gctx)
			return err
		})
		g.Go(func() (err error) {
			d.Recommendations, err = m.gateway.AllRecommendations(gctx)
			return err
		})
		g.Go(func() (err error) {
			d.Feedback, err = m.gateway.AllFeedback(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return AdminData{}, loadFailed(AdminLoadFailedMessage)(err)
		}
		return d, nil
	})
	return m.finish(scope, err, func() { m.data = data })
}

func without[T any](items []T, match func(T) bool) []T {
	out := items[:0:0]
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}
