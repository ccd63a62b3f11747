package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-guide/internal/types"
)

type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestClient(t *testing.T, base string) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, base: base, http: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path string, body any) (int, map[string]any, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	var obj map[string]any
	_ = json.Unmarshal(data, &obj)
	return resp.StatusCode, obj, data
}

func TestRegisterLoginMeLogout(t *testing.T) {
	_, base := NewTestServer(t)
	c := newTestClient(t, base)

	status, body, _ := c.do(http.MethodPost, "/auth/register", types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "student", user["role"])

	status, body, _ = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ada@example.com", body["user"].(map[string]any)["email"])

	status, _, _ = c.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, body, _ = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required", body["error"])

	status, body, _ = c.do(http.MethodPost, "/auth/login", types.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", body["error"])

	status, body, _ = c.do(http.MethodPost, "/auth/login", types.LoginRequest{Email: "ada@example.com", Password: "secret"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
}

func TestLogoutRevokesCookieServerSide(t *testing.T) {
	srv, base := NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)

	c := newTestClient(t, base)
	status, _, _ := c.do(http.MethodPost, "/auth/login", types.LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, srv.ActiveSessions())

	status, _, _ = c.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, srv.ActiveSessions())
}

func TestRegisterValidation(t *testing.T) {
	_, base := NewTestServer(t)
	c := newTestClient(t, base)

	status, body, _ := c.do(http.MethodPost, "/auth/register", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["error"])
	details := body["details"].(map[string]any)
	assert.Contains(t, details, "Name")
	assert.Contains(t, details, "Password")

	status, body, _ = c.do(http.MethodPost, "/auth/register", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No data provided", body["error"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, base := NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)

	c := newTestClient(t, base)
	status, body, _ := c.do(http.MethodPost, "/auth/register", types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "other",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User with this email already exists", body["error"])
}

func TestQuestionsUseBackendFieldNames(t *testing.T) {
	_, base := NewTestServer(t)
	c := newTestClient(t, base)

	status, _, raw := c.do(http.MethodGet, "/quiz/questions", nil)
	require.Equal(t, http.StatusOK, status)

	var questions []map[string]any
	require.NoError(t, json.Unmarshal(raw, &questions))
	require.Len(t, questions, 6)
	assert.Equal(t, "Which type of activities do you find most engaging?", questions[0]["question_text"])
	assert.NotContains(t, questions[0], "question")
	assert.Equal(t, "interests", questions[0]["category"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	srv, base := NewTestServer(t)
	_, err := srv.SeedUser("Stu", "stu@example.com", "pw", types.RoleStudent)
	require.NoError(t, err)

	anon := newTestClient(t, base)
	status, _, _ := anon.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	c := newTestClient(t, base)
	status, _, _ = c.do(http.MethodPost, "/auth/login", types.LoginRequest{Email: "stu@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, status)

	for _, path := range []string{"/users", "/quiz/responses/all", "/recommendations/all", "/feedback/all"} {
		status, body, _ := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusForbidden, status, path)
		assert.Equal(t, "Admin access required", body["error"], path)
	}
}

func TestSubmitAndGenerate(t *testing.T) {
	srv, base := NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)

	c := newTestClient(t, base)
	status, _, _ := c.do(http.MethodPost, "/auth/login", types.LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, status)

	status, body, _ := c.do(http.MethodPost, "/recommendations/generate", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No quiz response found. Please take the quiz first.", body["error"])

	answers := types.Answers{"1": "analytical", "2": "team", "3": "stem", "4": "technical", "5": "laboratory", "6": "innovation"}
	status, body, _ = c.do(http.MethodPost, "/quiz/responses", types.SubmitAnswersRequest{Answers: answers})
	require.Equal(t, http.StatusCreated, status)
	stored := body["response"].(map[string]any)
	assert.IsType(t, "", stored["answers"], "answers are returned as stored text")

	status, body, _ = c.do(http.MethodPost, "/recommendations/generate", nil)
	require.Equal(t, http.StatusCreated, status)
	recs := body["recommendations"].([]any)
	require.Len(t, recs, maxRecommendations)
	top := recs[0].(map[string]any)
	assert.Equal(t, "Research Scientist", top["career"])
	assert.Equal(t, 100.0, top["score"])
	assert.IsType(t, map[string]any{}, top["details"])

	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/quiz/responses"))
	assert.Equal(t, 2, srv.Calls(http.MethodPost, "/recommendations/generate"))
}

func TestFaultInjection(t *testing.T) {
	srv, base := NewTestServer(t)
	c := newTestClient(t, base)

	srv.Fail(http.MethodGet, "/quiz/questions", http.StatusServiceUnavailable, "maintenance")
	status, body, _ := c.do(http.MethodGet, "/quiz/questions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "maintenance", body["error"])

	srv.FailRaw(http.MethodGet, "/quiz/questions", http.StatusBadGateway, "<html>bad gateway</html>")
	status, _, raw := c.do(http.MethodGet, "/quiz/questions", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "<html>bad gateway</html>", string(raw))

	srv.ClearFaults()
	status, _, _ = c.do(http.MethodGet, "/quiz/questions", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, srv.Calls(http.MethodGet, "/quiz/questions"))
}

func TestFeedbackLifecycle(t *testing.T) {
	srv, base := NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)
	_, err = srv.SeedUser("Root", "root@example.com", "admin", types.RoleAdmin)
	require.NoError(t, err)

	student := newTestClient(t, base)
	status, _, _ := student.do(http.MethodPost, "/auth/login", types.LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, status)
	status, body, _ := student.do(http.MethodPost, "/feedback", types.FeedbackRequest{Message: "great"})
	require.Equal(t, http.StatusCreated, status)
	id := int(body["feedback"].(map[string]any)["id"].(float64))

	admin := newTestClient(t, base)
	status, _, _ = admin.do(http.MethodPost, "/auth/login", types.LoginRequest{Email: "root@example.com", Password: "admin"})
	require.Equal(t, http.StatusOK, status)

	status, _, raw := admin.do(http.MethodGet, "/feedback/all", nil)
	require.Equal(t, http.StatusOK, status)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(raw, &all))
	assert.Len(t, all, 1)

	status, _, _ = admin.do(http.MethodDelete, "/feedback/99", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body, _ = admin.do(http.MethodDelete, "/feedback/"+strconv.Itoa(id), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Feedback deleted successfully", body["message"])
}
