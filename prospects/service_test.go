package prospects_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/prospects"
	"github.com/jrsteele09/go-crm-console/sessionstore/storefake"
)

type testFixture struct {
	service *prospects.Service

	lastMethod string
	lastPath   string
	lastQuery  url.Values
	lastBody   map[string]any
}

func setupTestFixture(t *testing.T, responseBody string) *testFixture {
	t.Helper()

	f := &testFixture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastMethod = r.Method
		f.lastPath = r.URL.Path
		f.lastQuery = r.URL.Query()
		f.lastBody = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	client, err := apiclient.New(server.URL, storefake.NewFakeStore())
	require.NoError(t, err)

	service, err := prospects.NewService(client)
	require.NoError(t, err)
	f.service = service
	return f
}

func TestListSendsFiltersVerbatim(t *testing.T) {
	f := setupTestFixture(t, `{"status":"success","data":{"prospects":[{"id":"p1","clientName":"Acme"},{"id":"p2","clientName":"Globex"}]}}`)

	filters := url.Values{"status": {"open"}, "assignedTo": {"u1"}}
	list, err := f.service.List(context.Background(), filters)
	require.NoError(t, err)

	require.Equal(t, http.MethodGet, f.lastMethod)
	require.Equal(t, "/prospects", f.lastPath)
	require.Equal(t, "open", f.lastQuery.Get("status"))
	require.Equal(t, "u1", f.lastQuery.Get("assignedTo"))

	require.Len(t, list, 2)
	require.Equal(t, "p1", list[0].ID)
	require.Equal(t, "Globex", list[1].ClientName)
}

func TestListUntouchedHitsDedicatedPath(t *testing.T) {
	f := setupTestFixture(t, `{"status":"success","data":{"prospects":[]}}`)

	list, err := f.service.ListUntouched(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, "/prospects/untouched", f.lastPath)
}

func TestCreatePostsBodyAndDecodesRecord(t *testing.T) {
	f := setupTestFixture(t, `{"status":"success","data":{"prospect":{"id":"p1","clientName":"Acme","status":"new"}}}`)

	created, err := f.service.Create(context.Background(), &prospects.Prospect{
		ClientName:  "Acme",
		CompanyName: "Acme Corp",
		EmailID:     "buyer@acme.test",
	})
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, f.lastMethod)
	require.Equal(t, "/prospects", f.lastPath)
	require.Equal(t, "Acme", f.lastBody["clientName"])
	require.Equal(t, "buyer@acme.test", f.lastBody["emailId"])

	require.Equal(t, "p1", created.ID)
	require.Equal(t, "new", created.Status)
}

func TestGetAndUpdateUseRecordPath(t *testing.T) {
	f := setupTestFixture(t, `{"status":"success","data":{"prospect":{"id":"p1","status":"contacted"}}}`)

	got, err := f.service.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "/prospects/p1", f.lastPath)
	require.Equal(t, "contacted", got.Status)

	updated, err := f.service.Update(context.Background(), "p1", &prospects.Prospect{Status: "contacted"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, f.lastMethod)
	require.Equal(t, "/prospects/p1", f.lastPath)
	require.Equal(t, "contacted", f.lastBody["status"])
	require.Equal(t, "p1", updated.ID)
}

func TestDelete(t *testing.T) {
	f := setupTestFixture(t, `{"status":"success"}`)

	require.NoError(t, f.service.Delete(context.Background(), "p1"))
	require.Equal(t, http.MethodDelete, f.lastMethod)
	require.Equal(t, "/prospects/p1", f.lastPath)
}

func TestNewServiceRequiresClient(t *testing.T) {
	_, err := prospects.NewService(nil)
	require.Error(t, err)
}
