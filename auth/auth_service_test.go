package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/auth"
	"github.com/jrsteele09/go-crm-console/sessionstore/storefake"
	"github.com/jrsteele09/go-crm-console/users"
)

const (
	testEmail    = "a@b.com"
	testPassword = "secret"
	testToken    = "tok1"
)

type testFixture struct {
	store   *storefake.FakeStore
	service *auth.Service

	loginRequests  []map[string]string
	signupRequests []auth.SignupParams
	logoutCalls    int
}

func setupTestFixture(t *testing.T, loginStatus int, loginBody string) *testFixture {
	t.Helper()

	f := &testFixture{store: storefake.NewFakeStore()}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.loginRequests = append(f.loginRequests, body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(loginStatus)
		_, _ = w.Write([]byte(loginBody))
	})
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var params auth.SignupParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		f.signupRequests = append(f.signupRequests, params)

		if params.Password != params.PasswordConfirm {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":"fail","message":"Passwords do not match"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(loginBody))
	})
	mux.HandleFunc("GET /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := apiclient.New(server.URL, f.store)
	require.NoError(t, err)

	service, err := auth.NewService(client, f.store)
	require.NoError(t, err)
	f.service = service
	return f
}

const successBody = `{"status":"success","token":"tok1","data":{"user":{"id":"u1","name":"Ann","email":"a@b.com","role":"team_lead"}}}`

func TestLoginPersistsTokenAndProfile(t *testing.T) {
	f := setupTestFixture(t, http.StatusOK, successBody)

	user, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	require.Equal(t, "u1", user.ID)
	require.Equal(t, "Ann", user.Name)
	require.Equal(t, users.RoleTeamLead, user.Role)

	// The profile returned equals the persisted snapshot, written as a
	// pair with the token.
	require.Equal(t, testToken, f.store.LoadToken())
	require.Equal(t, user, f.store.LoadUser())

	require.Len(t, f.loginRequests, 1)
	require.Equal(t, testEmail, f.loginRequests[0]["email"])
	require.Equal(t, testPassword, f.loginRequests[0]["password"])
}

func TestLoginFailurePropagatesUntouched(t *testing.T) {
	f := setupTestFixture(t, http.StatusUnauthorized, `{"status":"fail","message":"incorrect email or password"}`)

	user, err := f.service.Login(context.Background(), testEmail, "wrong")
	require.Error(t, err)
	require.Nil(t, user)

	apiErr, ok := err.(*apiclient.APIError)
	require.True(t, ok)
	require.Equal(t, "incorrect email or password", apiErr.Message)

	// Nothing persisted on failure.
	require.True(t, f.store.Empty())
}

func TestSignupPersistsLikeLogin(t *testing.T) {
	f := setupTestFixture(t, http.StatusOK, successBody)

	params := auth.SignupParams{
		Name:            "Ann",
		Email:           testEmail,
		Password:        testPassword,
		PasswordConfirm: testPassword,
		RefID:           "ref-1",
		Role:            users.RoleTeamLead,
	}
	user, err := f.service.Signup(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, testToken, f.store.LoadToken())

	require.Len(t, f.signupRequests, 1)
	require.Equal(t, params, f.signupRequests[0])
}

func TestSignupMismatchedPasswordsRejectedWithServerMessage(t *testing.T) {
	f := setupTestFixture(t, http.StatusOK, successBody)

	_, err := f.service.Signup(context.Background(), auth.SignupParams{
		Name:            "Ann",
		Email:           testEmail,
		Password:        testPassword,
		PasswordConfirm: "different",
		Role:            users.RoleTeamLead,
	})
	require.Error(t, err)

	apiErr, ok := err.(*apiclient.APIError)
	require.True(t, ok)
	require.Equal(t, "Passwords do not match", apiErr.Message)
	require.True(t, f.store.Empty())
}

func TestLoginRejectsMalformedCredentialResponse(t *testing.T) {
	f := setupTestFixture(t, http.StatusOK, `{"status":"success","data":{}}`)

	_, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, auth.MalformedCredentialResponseErr)
	require.True(t, f.store.Empty())
}

func TestLogoutCallsServerAndLeavesStoreAlone(t *testing.T) {
	f := setupTestFixture(t, http.StatusOK, successBody)
	f.store.SaveToken(testToken)
	f.store.SaveUser(&users.User{ID: "u1"})

	err := f.service.Logout(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.logoutCalls)

	// Clearing local state is the session manager's job, not this service's.
	require.Equal(t, testToken, f.store.LoadToken())
}

func TestTokenClaims(t *testing.T) {
	// HS256 token with sub "u1" and no expiry, signature irrelevant for
	// unverified parsing.
	const token = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ1MSJ9.x"

	claims, err := auth.TokenClaims(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.True(t, claims.ExpiresAt.IsZero())

	_, err = auth.TokenClaims("not-a-jwt")
	require.Error(t, err)
}
