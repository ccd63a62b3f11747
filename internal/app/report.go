package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-guide/internal/report"
	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

// ReportLoadFailedMessage is shown when the report data cannot be fetched.
const ReportLoadFailedMessage = "Failed to load career report. Please try again."

// ReportModel builds the printable career report.
type ReportModel struct {
	status
	gateway Gateway
	now     func() time.Time

	report *report.Report
}

// Report returns the built report, or nil before a successful load.
func (m *ReportModel) Report() *report.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report
}

// Retry reloads the report.
func (m *ReportModel) Retry() error {
	scope, err := m.active()
	if err != nil {
		return err
	}
	return m.load(scope)
}

func (m *ReportModel) reset(scope *task.Scope) {
	m.attach(scope, func() { m.report = nil })
}

func (m *ReportModel) load(scope *task.Scope) error {
	if err := m.begin(scope); err != nil {
		return err
	}
	r, err := task.Run(scope, "load report", func(ctx context.Context) (*report.Report, error) {
		var (
			user *types.User
			recs []types.Recommendation
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = m.gateway.CurrentUser(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			recs, err = m.gateway.Recommendations(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, loadFailed(ReportLoadFailedMessage)(err)
		}
		return report.Build(user, recs, m.now()), nil
	})
	return m.finish(scope, err, func() {
		m.report = r
		if len(r.Entries) == 0 {
			m.alert = NoRecommendationsMessage
		}
	})
}
