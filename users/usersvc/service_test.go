package usersvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/internal/utils"
	"github.com/jrsteele09/go-crm-console/sessionstore/storefake"
	"github.com/jrsteele09/go-crm-console/users"
	"github.com/jrsteele09/go-crm-console/users/usersvc"
)

type testFixture struct {
	store   *storefake.FakeStore
	service *usersvc.Service

	lastMethod string
	lastPath   string
	lastBody   map[string]any
}

func setupTestFixture(t *testing.T, responseBody string) *testFixture {
	t.Helper()

	f := &testFixture{store: storefake.NewFakeStore()}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastMethod = r.Method
		f.lastPath = r.URL.Path
		f.lastBody = nil
		_ = json.NewDecoder(r.Body).Decode(&f.lastBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	client, err := apiclient.New(server.URL, f.store)
	require.NoError(t, err)

	service, err := usersvc.NewService(client, f.store)
	require.NoError(t, err)
	f.service = service
	return f
}

const profileBody = `{"status":"success","data":{"user":{"id":"u1","name":"Ann","email":"a@b.com","role":"team_lead","location":"Leeds"}}}`

func TestMeRefreshesCachedProfile(t *testing.T) {
	f := setupTestFixture(t, profileBody)

	user, err := f.service.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/users/getMe", f.lastPath)
	require.Equal(t, "u1", user.ID)

	// The persisted snapshot tracks the freshest server copy.
	require.Equal(t, user, f.store.LoadUser())
}

func TestUpdateMeSendsOnlySetFields(t *testing.T) {
	f := setupTestFixture(t, profileBody)

	user, err := f.service.UpdateMe(context.Background(), usersvc.UpdateMeParams{
		Location: utils.Ptr("Leeds"),
	})
	require.NoError(t, err)

	require.Equal(t, http.MethodPatch, f.lastMethod)
	require.Equal(t, "/users/getMe", f.lastPath)
	require.Equal(t, "Leeds", f.lastBody["location"])
	require.NotContains(t, f.lastBody, "name")
	require.NotContains(t, f.lastBody, "contactNo")

	require.Equal(t, "Leeds", user.Location)
	require.Equal(t, user, f.store.LoadUser())
}

func TestListDecodesDirectory(t *testing.T) {
	f := setupTestFixture(t, `{"status":"success","data":{"users":[{"id":"u1","role":"team_lead"},{"id":"u2","role":"sales_executive"}]}}`)

	list, err := f.service.List(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "/users", f.lastPath)
	require.Len(t, list, 2)
	require.Equal(t, users.RoleSalesExecutive, list[1].Role)
}

func TestCreateUsesCreateUserPath(t *testing.T) {
	f := setupTestFixture(t, profileBody)

	created, err := f.service.Create(context.Background(), &users.User{
		Name:  "Ann",
		Email: "a@b.com",
		Role:  users.RoleTeamLead,
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, f.lastMethod)
	require.Equal(t, "/users/createUser", f.lastPath)
	require.Equal(t, "u1", created.ID)
}

func TestGetUpdateDelete(t *testing.T) {
	f := setupTestFixture(t, profileBody)

	_, err := f.service.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "/users/u1", f.lastPath)

	_, err = f.service.Update(context.Background(), "u1", &users.User{Location: "Leeds"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, f.lastMethod)
	require.Equal(t, "/users/u1", f.lastPath)

	require.NoError(t, f.service.Delete(context.Background(), "u1"))
	require.Equal(t, http.MethodDelete, f.lastMethod)
}

func TestNewServiceValidatesArguments(t *testing.T) {
	_, err := usersvc.NewService(nil, storefake.NewFakeStore())
	require.Error(t, err)
}
