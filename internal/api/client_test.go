package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-guide/internal/api"
	"github.com/jonathan/career-guide/internal/apitest"
	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/types"
	schemafiles "github.com/jonathan/career-guide/schemas"
)

func newClient(t *testing.T, baseURL string, validate bool) *api.Client {
	t.Helper()
	opts := api.DefaultOptions()
	opts.BaseURL = baseURL
	opts.Timeout = 5 * time.Second
	if validate {
		v, err := schemas.NewValidator(schemafiles.FS, schemafiles.All()...)
		require.NoError(t, err)
		opts.Validator = v
	}
	client, err := api.New(opts)
	require.NoError(t, err)
	return client
}

func rawServer(t *testing.T, status int, body string) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := api.New(&api.Options{BaseURL: "not a url"})
	require.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	client, err := api.New(nil)
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, client.BaseURL())
}

func TestLoginCarriesSessionCookie(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	_, err := srv.SeedUser("Ada", "ada@example.com", "secret", types.RoleStudent)
	require.NoError(t, err)

	client := newClient(t, base, true)
	ctx := context.Background()

	user, err := client.Login(ctx, types.LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, types.RoleStudent, user.Role)
	assert.False(t, user.CreatedAt.IsZero())

	me, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	require.NoError(t, client.Logout(ctx))

	_, err = client.CurrentUser(ctx)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
	assert.Equal(t, "Authentication required", api.Message(err))
}

func TestRegister(t *testing.T) {
	_, base := apitest.NewTestServer(t)
	client := newClient(t, base, true)

	user, err := client.Register(context.Background(), types.RegisterRequest{
		Name: "Root", Email: "root@example.com", Password: "pw", Role: types.RoleAdmin,
	})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}

func TestErrorMessageFromBody(t *testing.T) {
	_, base := apitest.NewTestServer(t)
	client := newClient(t, base, false)

	_, err := client.Login(context.Background(), types.LoginRequest{Email: "nobody@example.com", Password: "x"})
	require.Error(t, err)

	var reqErr *api.RequestFailedError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.MethodPost, reqErr.Method)
	assert.Equal(t, "/auth/login", reqErr.Path)
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
	assert.Equal(t, "Invalid email or password", reqErr.Message)
}

func TestErrorMessageFallback(t *testing.T) {
	base := rawServer(t, http.StatusBadGateway, "<html>upstream down</html>")
	client := newClient(t, base, false)

	_, err := client.Questions(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, api.StatusCode(err))
	assert.Equal(t, "HTTP error! status: 502", api.Message(err))
}

func TestTransportFailureHasNoStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL + "/api"
	ts.Close()

	client := newClient(t, base, false)
	_, err := client.Questions(context.Background())
	require.Error(t, err)

	var reqErr *api.RequestFailedError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 0, reqErr.Status)
	assert.NotNil(t, reqErr.Cause)
}

func TestInvalidJSONOnSuccess(t *testing.T) {
	base := rawServer(t, http.StatusOK, "{not json")
	client := newClient(t, base, false)

	_, err := client.Recommendations(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, api.StatusCode(err))
	assert.Equal(t, "invalid JSON response", api.Message(err))
}

func TestSchemaMismatch(t *testing.T) {
	base := rawServer(t, http.StatusOK, `[{"id": 1, "category": "interests"}]`)
	client := newClient(t, base, true)

	_, err := client.Questions(context.Background())
	require.Error(t, err)
	assert.Equal(t, "unexpected response shape", api.Message(err))

	var ve *schemas.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSchemaSkippedWithoutValidator(t *testing.T) {
	base := rawServer(t, http.StatusOK, `[{"id": 1, "category": "interests"}]`)
	client := newClient(t, base, false)

	questions, err := client.Questions(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Empty(t, questions[0].Prompt)
}

func TestContextCancellation(t *testing.T) {
	srv, base := apitest.NewTestServer(t)
	release := srv.Hold(http.MethodGet, "/quiz/questions")
	defer release()

	client := newClient(t, base, false)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := client.Questions(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		return srv.Calls(http.MethodGet, "/quiz/questions") == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, api.StatusCode(err))
	case <-time.After(2 * time.Second):
		t.Fatal("request did not return after cancellation")
	}
}

func TestStatusCodeAndMessageHelpers(t *testing.T) {
	assert.Equal(t, 0, api.StatusCode(errors.New("plain")))
	assert.Equal(t, "plain", api.Message(errors.New("plain")))
	assert.Equal(t, "", api.Message(nil))

	err := &api.RequestFailedError{Method: "GET", Path: "/x", Status: 404, Message: "missing"}
	assert.Equal(t, "GET /x failed with status 404: missing", err.Error())
	wrapped := errors.Join(errors.New("outer"), err)
	assert.Equal(t, 404, api.StatusCode(wrapped))
}
