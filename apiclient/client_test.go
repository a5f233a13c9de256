package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/sessionstore/storefake"
	"github.com/jrsteele09/go-crm-console/users"
)

const testToken = "tok1"

type testFixture struct {
	store  *storefake.FakeStore
	client *apiclient.Client
	server *httptest.Server

	lastAuthHeader string
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	f := &testFixture{store: storefake.NewFakeStore()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastAuthHeader = r.Header.Get("Authorization")
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	client, err := apiclient.New(f.server.URL, f.store)
	require.NoError(t, err)
	f.client = client
	return f
}

func jsonHandler(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func TestAttachesBearerTokenWhenPresent(t *testing.T) {
	f := setupTestFixture(t, jsonHandler(http.StatusOK, `{}`))
	f.store.SaveToken(testToken)

	err := f.client.Get(context.Background(), "/prospects", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer "+testToken, f.lastAuthHeader)
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	f := setupTestFixture(t, jsonHandler(http.StatusOK, `{}`))

	err := f.client.Get(context.Background(), "/prospects", nil, nil)
	require.NoError(t, err)
	require.Empty(t, f.lastAuthHeader)
}

func TestTokenSavedAfterConstructionIsPickedUp(t *testing.T) {
	f := setupTestFixture(t, jsonHandler(http.StatusOK, `{}`))

	require.NoError(t, f.client.Get(context.Background(), "/a", nil, nil))
	require.Empty(t, f.lastAuthHeader)

	f.store.SaveToken(testToken)
	require.NoError(t, f.client.Get(context.Background(), "/b", nil, nil))
	require.Equal(t, "Bearer "+testToken, f.lastAuthHeader)
}

func TestUnauthorizedClearsStoreAndNotifies(t *testing.T) {
	f := setupTestFixture(t, jsonHandler(http.StatusUnauthorized, `{"status":"fail","message":"you are not logged in"}`))
	f.store.SaveToken(testToken)
	f.store.SaveUser(&users.User{ID: "u1"})

	notified := 0
	f.client.OnUnauthenticated(func() { notified++ })

	err := f.client.Get(context.Background(), "/sales", nil, nil)
	require.Error(t, err)
	require.True(t, apiclient.IsUnauthorized(err))

	// The store must be empty the moment the caller sees the error,
	// whatever endpoint produced the 401.
	require.True(t, f.store.Empty())
	require.Equal(t, 1, notified)
}

func TestUnsubscribedListenerIsNotNotified(t *testing.T) {
	f := setupTestFixture(t, jsonHandler(http.StatusUnauthorized, `{"status":"fail","message":"nope"}`))

	notified := 0
	remove := f.client.OnUnauthenticated(func() { notified++ })
	remove()

	_ = f.client.Get(context.Background(), "/sales", nil, nil)
	require.Zero(t, notified)
}

func TestServerErrorCarriesMessage(t *testing.T) {
	f := setupTestFixture(t, jsonHandler(http.StatusBadRequest, `{"status":"fail","message":"Passwords do not match"}`))

	err := f.client.Post(context.Background(), "/auth/signup", map[string]string{}, nil)
	require.Error(t, err)

	apiErr, ok := err.(*apiclient.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "fail", apiErr.Status)
	require.Equal(t, "Passwords do not match", apiErr.Message)
}

func TestNonJSONErrorBodyStillYieldsAPIError(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	err := f.client.Get(context.Background(), "/reports/dashboard-summary", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*apiclient.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Empty(t, apiErr.Message)
}

func TestDecodesSuccessBody(t *testing.T) {
	f := setupTestFixture(t, jsonHandler(http.StatusOK, `{"data":{"user":{"id":"u1","name":"Ann"}}}`))

	var out struct {
		Data struct {
			User *users.User `json:"user"`
		} `json:"data"`
	}
	err := f.client.Get(context.Background(), "/users/getMe", nil, &out)
	require.NoError(t, err)
	require.Equal(t, "u1", out.Data.User.ID)
	require.Equal(t, "Ann", out.Data.User.Name)
}

func TestTransportFailurePropagates(t *testing.T) {
	store := storefake.NewFakeStore()
	client, err := apiclient.New("http://127.0.0.1:1", store)
	require.NoError(t, err)

	err = client.Get(context.Background(), "/prospects", nil, nil)
	require.Error(t, err)
	require.False(t, apiclient.IsUnauthorized(err))
}

func TestNewValidatesArguments(t *testing.T) {
	_, err := apiclient.New("", storefake.NewFakeStore())
	require.Error(t, err)

	_, err = apiclient.New("http://localhost", nil)
	require.Error(t, err)
}
