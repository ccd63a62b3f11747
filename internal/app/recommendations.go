package app

import (
	"context"
	"fmt"

	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

// Alert texts of the recommendations view.
const (
	RecommendationsLoadFailedMessage = "Failed to load career recommendations. Please try again."
	NoRecommendationsMessage         = "No career recommendations found. Please take the quiz first."
)

// RecommendationsModel lists the user's ranked recommendations and tracks the selected one.
type RecommendationsModel struct {
	status
	gateway Gateway

	recs     []types.Recommendation
	selected int
}

// List returns the ranked recommendations.
func (m *RecommendationsModel) List() []types.Recommendation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Recommendation(nil), m.recs...)
}

// Select makes the recommendation with the given id current.
func (m *RecommendationsModel) Select(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.recs {
		if rec.ID == id {
			m.selected = i
			return nil
		}
	}
	return fmt.Errorf("recommendation %d not found", id)
}

// Selected returns the current recommendation and its 1-based rank.
func (m *RecommendationsModel) Selected() (types.Recommendation, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected < 0 || m.selected >= len(m.recs) {
		return types.Recommendation{}, 0, false
	}
	return m.recs[m.selected], m.selected + 1, true
}

// Retry reloads the list.
func (m *RecommendationsModel) Retry() error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	return m.load(scope)
}

func (m *RecommendationsModel) reset(scope *task.Scope) {
	m.attach(scope, func() {
		m.recs = nil
		m.selected = -1
	})
}

// load fetches the stored list and falls back to generating one when it is empty.
func (m *RecommendationsModel) load(scope *task.Scope) error {
	if err := m.begin(scope); err != nil {
		return err
	}
	recs, err := task.Run(scope, "load recommendations", func(ctx context.Context) ([]types.Recommendation, error) {
		recs, err := m.gateway.Recommendations(ctx)
		if err != nil {
			return nil, loadFailed(RecommendationsLoadFailedMessage)(err)
		}
		if len(recs) > 0 {
			return recs, nil
		}
		recs, err = m.gateway.GenerateRecommendations(ctx)
		if err != nil {
			return nil, loadFailed(NoRecommendationsMessage)(err)
		}
		return recs, nil
	})
	return m.finish(scope, err, func() {
		m.recs = recs
		m.selected = -1
		if len(recs) > 0 {
			m.selected = 0
		} else {
			m.alert = NoRecommendationsMessage
		}
	})
}
