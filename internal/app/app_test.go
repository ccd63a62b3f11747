package app_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-guide/internal/api"
	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/apitest"
	"github.com/jonathan/career-guide/internal/navigation"
	"github.com/jonathan/career-guide/internal/quiz"
	"github.com/jonathan/career-guide/internal/task"
	"github.com/jonathan/career-guide/internal/types"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// researchAnswers rank Research Scientist first with the default catalog.
var researchAnswers = []string{"analytical", "team", "stem", "technical", "laboratory", "innovation"}

func newClient(t *testing.T, base string) *api.Client {
	t.Helper()
	opts := api.DefaultOptions()
	opts.BaseURL = base
	opts.Timeout = 5 * time.Second
	client, err := api.New(opts)
	require.NoError(t, err)
	return client
}

func newApp(t *testing.T, client *api.Client) *app.App {
	t.Helper()
	a := app.New(context.Background(), client, app.Options{Now: func() time.Time { return fixedNow }})
	t.Cleanup(a.Close)
	return a
}

func loginAs(t *testing.T, role types.Role) (*apitest.Server, *app.App) {
	t.Helper()
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", role)
	require.NoError(t, err)
	a := newApp(t, newClient(t, base))
	require.NoError(t, a.Login(context.Background(), "ada@example.com", "secret"))
	return srv, a
}

func takeQuiz(t *testing.T, a *app.App) {
	t.Helper()
	a.Navigate(navigation.ViewQuiz)
	require.NoError(t, a.Wait())
	for _, value := range researchAnswers {
		require.NoError(t, a.AnswerQuiz(value))
		require.NoError(t, a.AdvanceQuiz())
	}
}

func TestLogin_StudentLandsOnEmptyDashboard(t *testing.T) {
	_, a := loginAs(t, types.RoleStudent)

	assert.Equal(t, navigation.ViewDashboard, a.View())
	require.NoError(t, a.Wait())
	assert.False(t, a.Dashboard.QuizCompleted())
	assert.Empty(t, a.Dashboard.TopRecommendations())
	assert.Empty(t, a.Dashboard.Alert())
	assert.False(t, a.Dashboard.Loading())
}

func TestLogin_AdminLandsOnAdmin(t *testing.T) {
	_, a := loginAs(t, types.RoleAdmin)
	assert.Equal(t, navigation.ViewAdmin, a.View())
	require.NoError(t, a.Wait())
	assert.Len(t, a.Admin.Data().Users, 1)
	assert.Len(t, a.Admin.Data().Questions, 6)
}

func TestLogin_MissingFields(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	a := newApp(t, newClient(t, base))

	err := a.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, app.ErrMissingField)
	assert.Zero(t, srv.Calls(http.MethodPost, "/auth/login"))
	assert.Equal(t, navigation.ViewLanding, a.View())
}

func TestLogin_BadCredentials(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)
	a := newApp(t, newClient(t, base))

	err = a.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.Message(err))
	assert.Nil(t, a.User())
}

func TestRegister_RoutesToDashboard(t *testing.T) {
	_, base := apitest.NewTestServer(t)
	a := newApp(t, newClient(t, base))

	err := a.Register(context.Background(), types.RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewDashboard, a.View())
	require.NotNil(t, a.User())
	assert.Equal(t, types.RoleStudent, a.User().Role)

	err = a.Register(context.Background(), types.RegisterRequest{Name: "Grace"})
	assert.ErrorIs(t, err, app.ErrMissingField)
}

func TestResume(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)

	client := newClient(t, base)
	first := newApp(t, client)
	require.NoError(t, first.Login(context.Background(), "ada@example.com", "secret"))

	resumed := newApp(t, client)
	ok, err := resumed.Resume(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, navigation.ViewDashboard, resumed.View())

	fresh := newApp(t, newClient(t, base))
	ok, err = fresh.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, navigation.ViewLanding, fresh.View())
}

func TestLogout(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	require.NoError(t, a.Wait())

	a.Logout(context.Background())
	assert.Equal(t, navigation.ViewLanding, a.View())
	assert.Nil(t, a.User())
	assert.Zero(t, srv.ActiveSessions())
	assert.ErrorIs(t, a.Dashboard.Retry(), app.ErrNotMounted)
}

func TestNavigateGuarded_RequiresSession(t *testing.T) {
	_, base := apitest.NewTestServer(t)
	a := newApp(t, newClient(t, base))

	err := a.NavigateGuarded(navigation.ViewDashboard)
	assert.ErrorIs(t, err, navigation.ErrAuthRequired)
	assert.Equal(t, navigation.ViewLanding, a.View())
}

func TestQuiz_FullFlowRoutesToRecommendations(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	takeQuiz(t, a)

	assert.Equal(t, navigation.ViewRecommendations, a.View())
	require.NoError(t, a.Wait())

	recs := a.Recommendations.List()
	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 8)
	assert.Equal(t, "Research Scientist", recs[0].Career)
	assert.Empty(t, a.Recommendations.Alert())

	selected, rank, ok := a.Recommendations.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, rank)
	assert.Equal(t, recs[0].ID, selected.ID)

	require.NoError(t, a.Recommendations.Select(recs[2].ID))
	_, rank, _ = a.Recommendations.Selected()
	assert.Equal(t, 3, rank)
	assert.Error(t, a.Recommendations.Select(-1))

	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/quiz/responses"))
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/recommendations/generate"))

	a.Navigate(navigation.ViewDashboard)
	require.NoError(t, a.Wait())
	assert.True(t, a.Dashboard.QuizCompleted())
	top := a.Dashboard.TopRecommendations()
	require.Len(t, top, 3)
	assert.Equal(t, "Research Scientist", top[0].Career)
}

func TestQuiz_UnansweredShowsAlert(t *testing.T) {
	_, a := loginAs(t, types.RoleStudent)
	a.Navigate(navigation.ViewQuiz)
	require.NoError(t, a.Wait())

	err := a.AdvanceQuiz()
	assert.ErrorIs(t, err, quiz.ErrUnanswered)
	assert.Equal(t, "Please select an answer before continuing.", a.Quiz.Alert())
	assert.Equal(t, 0, a.Quiz.Engine().Index())
	assert.Equal(t, navigation.ViewQuiz, a.View())
}

func TestQuiz_RetryAfterUnansweredKeepsProgress(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	a.Navigate(navigation.ViewQuiz)
	require.NoError(t, a.Wait())
	for _, value := range researchAnswers[:3] {
		require.NoError(t, a.AnswerQuiz(value))
		require.NoError(t, a.AdvanceQuiz())
	}
	require.ErrorIs(t, a.AdvanceQuiz(), quiz.ErrUnanswered)

	require.NoError(t, a.Retry())
	e := a.Quiz.Engine()
	assert.Equal(t, 3, e.Index())
	assert.Len(t, e.Answers(), 3)
	assert.Equal(t, navigation.ViewQuiz, a.View())
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/quiz/questions"), "questions are not reloaded")
}

func TestQuiz_SubmitRequiresFinishedQuiz(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	a.Navigate(navigation.ViewQuiz)
	require.NoError(t, a.Wait())

	require.NoError(t, a.AnswerQuiz(researchAnswers[0]))
	assert.ErrorIs(t, a.SubmitQuiz(), quiz.ErrNotFinished)
	assert.Equal(t, "Please answer every question before submitting.", a.Quiz.Alert())
	assert.Equal(t, navigation.ViewQuiz, a.View())
	assert.Zero(t, srv.Calls(http.MethodPost, "/quiz/responses"))

	last := len(researchAnswers) - 1
	for _, value := range researchAnswers[:last] {
		require.NoError(t, a.AnswerQuiz(value))
		require.NoError(t, a.AdvanceQuiz())
	}
	assert.ErrorIs(t, a.SubmitQuiz(), quiz.ErrUnanswered)
	assert.Zero(t, srv.Calls(http.MethodPost, "/quiz/responses"))

	require.NoError(t, a.AnswerQuiz(researchAnswers[last]))
	require.NoError(t, a.SubmitQuiz())
	assert.Equal(t, navigation.ViewRecommendations, a.View())
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/quiz/responses"))
}

func TestQuiz_SubmitFailureThenRetry(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	srv.Fail(http.MethodPost, "/quiz/responses", http.StatusInternalServerError, "database unavailable")

	a.Navigate(navigation.ViewQuiz)
	require.NoError(t, a.Wait())
	for i, value := range researchAnswers {
		require.NoError(t, a.AnswerQuiz(value))
		err := a.AdvanceQuiz()
		if i < len(researchAnswers)-1 {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
		}
	}

	assert.Equal(t, navigation.ViewQuiz, a.View())
	assert.Equal(t, quiz.SubmitFailedMessage, a.Quiz.Alert())
	assert.Len(t, a.Quiz.Engine().Answers(), 6)
	assert.Zero(t, srv.Calls(http.MethodPost, "/recommendations/generate"))

	srv.ClearFaults()
	require.NoError(t, a.Retry())
	assert.Equal(t, navigation.ViewRecommendations, a.View())
	assert.Equal(t, 2, srv.Calls(http.MethodPost, "/quiz/responses"))
}

func TestQuiz_LoadFailureThenRetry(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	srv.Fail(http.MethodGet, "/quiz/questions", http.StatusServiceUnavailable, "maintenance")

	a.Navigate(navigation.ViewQuiz)
	require.Error(t, a.Wait())
	assert.Equal(t, quiz.LoadFailedMessage, a.Quiz.Alert())

	srv.ClearFaults()
	require.NoError(t, a.Retry())
	assert.Empty(t, a.Quiz.Alert())
	q, ok := a.Quiz.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, 1, q.ID)
}

func TestQuiz_EmptyQuestionList(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	srv.SetQuestions([]types.Question{})

	a.Navigate(navigation.ViewQuiz)
	assert.ErrorIs(t, a.Wait(), quiz.ErrNoQuestions)
	assert.Equal(t, "No quiz questions are available yet.", a.Quiz.Alert())
	assert.ErrorIs(t, a.AnswerQuiz("x"), quiz.ErrNoQuestions)
}

func TestRecommendations_GeneratesWhenEmpty(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)
	client := newClient(t, base)
	a := newApp(t, client)
	require.NoError(t, a.Login(context.Background(), "ada@example.com", "secret"))
	_, err = client.SubmitAnswers(context.Background(), types.Answers{"1": "creative", "3": "arts", "4": "creativity"})
	require.NoError(t, err)

	a.Navigate(navigation.ViewRecommendations)
	require.NoError(t, a.Wait())
	recs := a.Recommendations.List()
	require.NotEmpty(t, recs)
	assert.Equal(t, "Graphic Designer", recs[0].Career)
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/recommendations/generate"))
}

func TestRecommendations_NoQuizTaken(t *testing.T) {
	_, a := loginAs(t, types.RoleStudent)

	a.Navigate(navigation.ViewRecommendations)
	require.Error(t, a.Wait())
	assert.Equal(t, app.NoRecommendationsMessage, a.Recommendations.Alert())
	assert.Empty(t, a.Recommendations.List())
	_, _, ok := a.Recommendations.Selected()
	assert.False(t, ok)
}

func TestRecommendations_FetchFailureThenRetry(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	takeQuiz(t, a)
	require.NoError(t, a.Wait())

	srv.Fail(http.MethodGet, "/recommendations", http.StatusInternalServerError, "boom")
	a.Navigate(navigation.ViewRecommendations)
	require.Error(t, a.Wait())
	assert.Equal(t, app.RecommendationsLoadFailedMessage, a.Recommendations.Alert())
	assert.Empty(t, a.Recommendations.List())

	srv.ClearFaults()
	require.NoError(t, a.Retry())
	assert.NotEmpty(t, a.Recommendations.List())
	assert.Empty(t, a.Recommendations.Alert())
}

func TestDashboard_ResponsesFailure(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)
	srv.Fail(http.MethodGet, "/quiz/responses", http.StatusInternalServerError, "boom")
	a := newApp(t, newClient(t, base))
	require.NoError(t, a.Login(context.Background(), "ada@example.com", "secret"))

	require.Error(t, a.Wait())
	assert.Equal(t, app.DashboardLoadFailedMessage, a.Dashboard.Alert())
	assert.False(t, a.Dashboard.QuizCompleted())
}

func TestDashboard_RecommendationsFailureIsSwallowed(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	takeQuiz(t, a)
	require.NoError(t, a.Wait())

	srv.Fail(http.MethodGet, "/recommendations", http.StatusInternalServerError, "boom")
	a.Navigate(navigation.ViewDashboard)
	require.NoError(t, a.Wait())
	assert.True(t, a.Dashboard.QuizCompleted())
	assert.Empty(t, a.Dashboard.TopRecommendations())
	assert.Empty(t, a.Dashboard.Alert())
}

func TestNavigationDiscardsInFlightLoad(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)
	release := srv.Hold(http.MethodGet, "/quiz/responses")
	defer release()

	a := newApp(t, newClient(t, base))
	require.NoError(t, a.Login(context.Background(), "ada@example.com", "secret"))
	require.Eventually(t, func() bool {
		return srv.Calls(http.MethodGet, "/quiz/responses") == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, a.Dashboard.Loading())

	a.Navigate(navigation.ViewFeedback)
	release()
	require.NoError(t, a.Wait())

	assert.Empty(t, a.Dashboard.Alert())
	assert.Empty(t, a.Dashboard.Responses())
	assert.ErrorIs(t, a.Dashboard.Retry(), app.ErrNotMounted)
	assert.Empty(t, a.Feedback.Alert())
}

func TestModelRejectsUseAfterNavigation(t *testing.T) {
	_, a := loginAs(t, types.RoleStudent)
	require.NoError(t, a.Wait())
	a.Navigate(navigation.ViewFeedback)
	require.NoError(t, a.Wait())

	_, err := a.Feedback.Submit("hello")
	require.NoError(t, err)

	a.Navigate(navigation.ViewDashboard)
	_, err = a.Feedback.Submit("late")
	assert.ErrorIs(t, err, app.ErrNotMounted)
	assert.NotErrorIs(t, err, task.ErrDiscarded)
}

func TestFeedback(t *testing.T) {
	srv, a := loginAs(t, types.RoleStudent)
	a.Navigate(navigation.ViewFeedback)
	require.NoError(t, a.Wait())
	assert.Empty(t, a.Feedback.Items())

	_, err := a.Feedback.Submit("")
	assert.ErrorIs(t, err, app.ErrMissingField)
	assert.Zero(t, srv.Calls(http.MethodPost, "/feedback"))

	fb, err := a.Feedback.Submit("Loved the quiz")
	require.NoError(t, err)
	assert.Equal(t, "Loved the quiz", fb.Message)
	require.Len(t, a.Feedback.Items(), 1)

	srv.Fail(http.MethodPost, "/feedback", http.StatusInternalServerError, "boom")
	_, err = a.Feedback.Submit("again")
	require.Error(t, err)
	assert.Equal(t, app.FeedbackSubmitFailedMessage, a.Feedback.Alert())
	assert.Len(t, a.Feedback.Items(), 1)
}

func TestReport(t *testing.T) {
	_, a := loginAs(t, types.RoleStudent)
	takeQuiz(t, a)
	require.NoError(t, a.Wait())

	a.Navigate(navigation.ViewReport)
	require.NoError(t, a.Wait())
	r := a.Report.Report()
	require.NotNil(t, r)
	assert.Equal(t, "Ada", r.Name)
	assert.Equal(t, fixedNow, r.GeneratedAt)
	top, ok := r.Top()
	require.True(t, ok)
	assert.Equal(t, "Research Scientist", top.Career)
	assert.Empty(t, a.Report.Alert())
}

func TestReport_NoRecommendations(t *testing.T) {
	_, a := loginAs(t, types.RoleStudent)
	a.Navigate(navigation.ViewReport)
	require.NoError(t, a.Wait())
	require.NotNil(t, a.Report.Report())
	assert.Empty(t, a.Report.Report().Entries)
	assert.Equal(t, app.NoRecommendationsMessage, a.Report.Alert())
}

func TestAdmin(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Root", "root@example.com", "admin", types.RoleAdmin)
	require.NoError(t, err)
	_, err = srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)

	student := newClient(t, base)
	_, err = student.Login(context.Background(), types.LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	_, err = student.SubmitFeedback(context.Background(), "Nice")
	require.NoError(t, err)

	a := newApp(t, newClient(t, base))
	require.NoError(t, a.Login(context.Background(), "root@example.com", "admin"))
	require.NoError(t, a.Wait())

	data := a.Admin.Data()
	assert.Len(t, data.Users, 2)
	require.Len(t, data.Feedback, 1)
	assert.Empty(t, data.Responses)

	_, err = a.Admin.CreateQuestion(types.CreateQuestionRequest{QuestionText: "Favourite tool?"})
	assert.ErrorIs(t, err, app.ErrMissingField)

	q, err := a.Admin.CreateQuestion(types.CreateQuestionRequest{
		QuestionText: "Favourite tool?",
		Category:     "tools",
		Options:      []types.Option{{Value: "hammer", Label: "Hammer"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Favourite tool?", q.Prompt)
	assert.Len(t, a.Admin.Data().Questions, 7)

	require.NoError(t, a.Admin.DeleteQuestion(q.ID))
	assert.Len(t, a.Admin.Data().Questions, 6)

	err = a.Admin.DeleteQuestion(q.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.NotEmpty(t, a.Admin.Alert())

	require.NoError(t, a.Admin.DeleteFeedback(data.Feedback[0].ID))
	assert.Empty(t, a.Admin.Data().Feedback)
}

func TestAdmin_LoadFailure(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Root", "root@example.com", "admin", types.RoleAdmin)
	require.NoError(t, err)
	srv.Fail(http.MethodGet, "/feedback/all", http.StatusInternalServerError, "boom")

	a := newApp(t, newClient(t, base))
	require.NoError(t, a.Login(context.Background(), "root@example.com", "admin"))
	require.Error(t, a.Wait())
	assert.Equal(t, app.AdminLoadFailedMessage, a.Admin.Alert())
	assert.Empty(t, a.Admin.Data().Users)

	srv.ClearFaults()
	require.NoError(t, a.Retry())
	assert.Len(t, a.Admin.Data().Users, 1)
}
