package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

// DashboardLoadFailedMessage is shown when the user's quiz responses cannot be fetched.
const DashboardLoadFailedMessage = "Failed to load dashboard data. Please try again."

// dashboardTop is the number of recommendations previewed on the dashboard.
const dashboardTop = 3

// DashboardModel is the home view of a student.
type DashboardModel struct {
	status
	gateway Gateway

	responses []types.QuizResponse
	top       []types.Recommendation
	completed bool
}

// QuizCompleted reports whether the user has at least one stored quiz response.
func (m *DashboardModel) QuizCompleted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed
}

// Responses returns the user's stored quiz responses.
func (m *DashboardModel) Responses() []types.QuizResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.QuizResponse(nil), m.responses...)
}

// TopRecommendations returns up to three recommendations, only once the quiz is completed.
func (m *DashboardModel) TopRecommendations() []types.Recommendation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Recommendation(nil), m.top...)
}

// Retry reloads the dashboard.
func (m *DashboardModel) Retry() error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	return m.load(scope)
}

func (m *DashboardModel) reset(scope *task.Scope) {
	m.attach(scope, func() {
		m.responses = nil
		m.top = nil
		m.completed = false
	})
}

type dashboardData struct {
	responses []types.QuizResponse
	recs      []types.Recommendation
}

func (m *DashboardModel) load(scope *task.Scope) error {
	if err := m.begin(scope); err != nil {
		return err
	}
	data, err := task.Run(scope, "load dashboard", func(ctx context.Context) (dashboardData, error) {
		var d dashboardData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			responses, err := m.gateway.QuizResponses(gctx)
			if err != nil {
				return loadFailed(DashboardLoadFailedMessage)(err)
			}
			d.responses = responses
			return nil
		})
		g.Go(func() error {
			// The preview is optional; a failure leaves it empty.
			if recs, err := m.gateway.Recommendations(gctx); err == nil {
				d.recs = recs
			}
			return nil
		})
		return d, g.Wait()
	})
	return m.finish(scope, err, func() {
		m.responses = data.responses
		m.completed = len(data.responses) > 0
		m.top = nil
		if m.completed {
			m.top = data.recs[:min(len(data.recs), dashboardTop)]
		}
	})
}
