// Package app is the root controller of the client. It owns navigation, the task scope of
// the mounted view, and one model per stateful view. Every navigation closes the previous
// view's scope, which cancels its requests, and mounts the target view.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-guide/internal/navigation"
	"github.com/jonathan/career-guide/internal/quiz"
	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

// Gateway is the backend surface used by the views.
type Gateway interface {
	quiz.Gateway

	Register(ctx context.Context, req types.RegisterRequest) (*types.User, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*types.User, error)

	QuizResponses(ctx context.Context) ([]types.QuizResponse, error)
	Recommendations(ctx context.Context) ([]types.Recommendation, error)

	SubmitFeedback(ctx context.Context, message string) (*types.Feedback, error)
	Feedback(ctx context.Context) ([]types.Feedback, error)

	Users(ctx context.Context) ([]types.User, error)
	AllQuizResponses(ctx context.Context) ([]types.QuizResponse, error)
	AllRecommendations(ctx context.Context) ([]types.Recommendation, error)
	AllFeedback(ctx context.Context) ([]types.Feedback, error)
	CreateQuestion(ctx context.Context, req types.CreateQuestionRequest) (*types.Question, error)
	DeleteQuestion(ctx context.Context, id int) error
	DeleteFeedback(ctx context.Context, id int) error
}

// ErrMissingField is returned when a required form field is empty.
var ErrMissingField = errors.New("missing required field")

// Options configures the root controller.
type Options struct {
	Quiz   quiz.Options
	Logger *zap.Logger
	// Now stamps generated reports. Defaults to time.Now.
	Now func() time.Time
}

// App is the explicit application state.
type App struct {
	ctx     context.Context
	gateway Gateway
	nav     *navigation.Controller
	logger  *zap.Logger

	mu    sync.Mutex
	scope *task.Scope

	Dashboard       *DashboardModel
	Quiz            *QuizModel
	Recommendations *RecommendationsModel
	Report          *ReportModel
	Feedback        *FeedbackModel
	Admin           *AdminModel
}

// New creates the application on the landing view. ctx bounds every view scope.
func New(ctx context.Context, gateway Gateway, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.Named("app")

	a := &App{
		ctx:     ctx,
		gateway: gateway,
		nav:     navigation.NewController(gateway, opts.Logger),
		logger:  logger,
	}
	a.Dashboard = &DashboardModel{gateway: gateway}
	a.Quiz = &QuizModel{gateway: gateway, logger: opts.Logger, opts: opts.Quiz}
	a.Recommendations = &RecommendationsModel{gateway: gateway}
	a.Report = &ReportModel{gateway: gateway, now: opts.Now}
	a.Feedback = &FeedbackModel{gateway: gateway}
	a.Admin = &AdminModel{gateway: gateway}

	a.scope = task.NewScope(ctx, string(navigation.ViewLanding), logger)
	a.nav.OnChange(a.mount)
	return a
}

// Navigation exposes the navigation controller.
func (a *App) Navigation() *navigation.Controller {
	return a.nav
}

// View returns the active view.
func (a *App) View() navigation.View {
	return a.nav.Current()
}

// User returns the session user.
func (a *App) User() *types.User {
	return a.nav.User()
}

// Navigate switches views without an authentication check.
func (a *App) Navigate(target navigation.View) {
	a.nav.Navigate(target)
}

// NavigateGuarded switches views, refusing auth-gated views without a session.
func (a *App) NavigateGuarded(target navigation.View) error {
	return a.nav.NavigateGuarded(target)
}

// Wait blocks until the mounted view has finished loading.
func (a *App) Wait() error {
	return a.currentScope().Wait()
}

// Close ends the mounted view's scope.
func (a *App) Close() {
	a.currentScope().Close()
}

func (a *App) currentScope() *task.Scope {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scope
}

// mount replaces the view scope and starts the target view's load.
func (a *App) mount(from, to navigation.View) {
	scope := task.NewScope(a.ctx, string(to), a.logger)

	a.mu.Lock()
	prev := a.scope
	a.scope = scope
	a.mu.Unlock()
	prev.Close()

	a.logger.Debug("view mounted", zap.Stringer("from", from), zap.Stringer("to", to))

	var m model
	switch to {
	case navigation.ViewDashboard:
		m = a.Dashboard
	case navigation.ViewQuiz:
		m = a.Quiz
	case navigation.ViewRecommendations:
		m = a.Recommendations
	case navigation.ViewReport:
		m = a.Report
	case navigation.ViewFeedback:
		m = a.Feedback
	case navigation.ViewAdmin:
		m = a.Admin
	default:
		return
	}
	m.reset(scope)
	scope.Go("load "+string(to), func(context.Context) error {
		return m.load(scope)
	})
}

// Retry re-runs the failed operation of the mounted view.
func (a *App) Retry() error {
	switch a.View() {
	case navigation.ViewDashboard:
		return a.Dashboard.Retry()
	case navigation.ViewQuiz:
		if err := a.Quiz.Retry(); err != nil {
			return err
		}
		a.afterQuizStep()
		return nil
	case navigation.ViewRecommendations:
		return a.Recommendations.Retry()
	case navigation.ViewReport:
		return a.Report.Retry()
	case navigation.ViewFeedback:
		return a.Feedback.Retry()
	case navigation.ViewAdmin:
		return a.Admin.Retry()
	}
	return nil
}

// Login authenticates and routes to the role's home view.
func (a *App) Login(ctx context.Context, email, password string) error {
	req := types.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: email and password are required", ErrMissingField)
	}
	user, err := a.gateway.Login(ctx, req)
	if err != nil {
		return err
	}
	return a.nav.CompleteAuth(user)
}

// Register creates an account and routes to the role's home view.
func (a *App) Register(ctx context.Context, req types.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: name, email and password are required", ErrMissingField)
	}
	user, err := a.gateway.Register(ctx, req)
	if err != nil {
		return err
	}
	return a.nav.CompleteAuth(user)
}

// Resume restores a session from the current cookie. It returns false when there is none.
func (a *App) Resume(ctx context.Context) (bool, error) {
	user, err := a.gateway.CurrentUser(ctx)
	if err != nil {
		if isUnauthorized(err) {
			return false, nil
		}
		return false, err
	}
	return true, a.nav.CompleteAuth(user)
}

// Logout ends the session and returns to the landing view.
func (a *App) Logout(ctx context.Context) {
	a.nav.Logout(ctx)
}

// AnswerQuiz records value for the current quiz question.
func (a *App) AnswerQuiz(value string) error {
	return a.Quiz.Answer(value)
}

// AdvanceQuiz moves to the next question, or submits at the last one. A completed
// submission routes to the recommendations view.
func (a *App) AdvanceQuiz() error {
	if err := a.Quiz.Advance(); err != nil {
		return err
	}
	a.afterQuizStep()
	return nil
}

// RetreatQuiz moves to the previous question.
func (a *App) RetreatQuiz() {
	a.Quiz.Retreat()
}

// SubmitQuiz submits the answered quiz from its last question, or retries a failed
// submission, and routes to recommendations on success.
func (a *App) SubmitQuiz() error {
	if err := a.Quiz.Submit(); err != nil {
		return err
	}
	a.afterQuizStep()
	return nil
}

func (a *App) afterQuizStep() {
	if a.View() == navigation.ViewQuiz && a.Quiz.Completed() {
		a.nav.Navigate(navigation.ViewRecommendations)
	}
}
