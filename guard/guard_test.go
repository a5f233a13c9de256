package guard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crm-console/auth"
	"github.com/jrsteele09/go-crm-console/guard"
	"github.com/jrsteele09/go-crm-console/session"
	"github.com/jrsteele09/go-crm-console/sessionstore/storefake"
	"github.com/jrsteele09/go-crm-console/users"
)

func snapshot(user *users.User, loading bool) session.Snapshot {
	return session.Snapshot{User: user, Authenticated: user != nil, Loading: loading}
}

func testUser() *users.User {
	return &users.User{ID: "u1", Name: "Ann", Role: users.RoleTeamLead}
}

func TestLoadingNeverRedirects(t *testing.T) {
	g := guard.New()

	// Loading wins even while anonymous, and never consumes the redirect.
	require.Equal(t, guard.DecisionWait, g.Evaluate(snapshot(nil, true)))
	require.Equal(t, guard.DecisionWait, g.Evaluate(snapshot(nil, true)))
	require.Equal(t, guard.DecisionRedirect, g.Evaluate(snapshot(nil, false)))
}

func TestAuthenticatedAllows(t *testing.T) {
	g := guard.New()
	require.Equal(t, guard.DecisionAllow, g.Evaluate(snapshot(testUser(), false)))
}

func TestRedirectsExactlyOncePerAnonymousStretch(t *testing.T) {
	g := guard.New()

	require.Equal(t, guard.DecisionRedirect, g.Evaluate(snapshot(nil, false)))
	require.Equal(t, guard.DecisionDeny, g.Evaluate(snapshot(nil, false)))
	require.Equal(t, guard.DecisionDeny, g.Evaluate(snapshot(nil, false)))
}

func TestAuthenticationRearmsTheRedirect(t *testing.T) {
	g := guard.New()

	require.Equal(t, guard.DecisionRedirect, g.Evaluate(snapshot(nil, false)))
	require.Equal(t, guard.DecisionAllow, g.Evaluate(snapshot(testUser(), false)))

	// A fresh drop to anonymous earns a fresh redirect.
	require.Equal(t, guard.DecisionRedirect, g.Evaluate(snapshot(nil, false)))
	require.Equal(t, guard.DecisionDeny, g.Evaluate(snapshot(nil, false)))
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "wait", guard.DecisionWait.String())
	require.Equal(t, "redirect", guard.DecisionRedirect.String())
	require.Equal(t, "deny", guard.DecisionDeny.String())
	require.Equal(t, "allow", guard.DecisionAllow.String())
}

type staticAuthenticator struct {
	user *users.User
}

func (s *staticAuthenticator) Login(ctx context.Context, email, password string) (*users.User, error) {
	return s.user, nil
}

func (s *staticAuthenticator) Signup(ctx context.Context, params auth.SignupParams) (*users.User, error) {
	return s.user, nil
}

func (s *staticAuthenticator) Logout(ctx context.Context) error { return nil }

func TestBindRedirectsOnExternalInvalidation(t *testing.T) {
	store := storefake.NewFakeStore()
	store.SaveToken("tok1")
	store.SaveUser(testUser())

	manager, err := session.NewManager(&staticAuthenticator{user: testUser()}, store)
	require.NoError(t, err)

	g := guard.New()
	require.Equal(t, guard.DecisionAllow, g.Evaluate(manager.Snapshot()))

	redirects := 0
	unbind := g.Bind(manager, func() { redirects++ })
	defer unbind()

	// A 401 elsewhere drops the session; the bound guard must fire the
	// redirect without anyone polling Evaluate.
	manager.HandleUnauthenticated()
	require.Equal(t, 1, redirects)

	// Still anonymous: no second redirect.
	require.Equal(t, guard.DecisionDeny, g.Evaluate(manager.Snapshot()))

	// Logging back in and invalidating again redirects again.
	_, err = manager.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, guard.DecisionAllow, g.Evaluate(manager.Snapshot()))

	manager.HandleUnauthenticated()
	require.Equal(t, 2, redirects)
}
