// Package session owns the single logical session of the process: the
// current user, whether they are authenticated, and whether an auth
// operation is in flight. The Manager is constructed once at startup and
// handed to every consumer; there is no ambient global.
//
// State machine: UNINITIALIZED -> LOADING -> {AUTHENTICATED, ANONYMOUS},
// returning through LOADING for every login, signup or logout, and dropping
// straight to ANONYMOUS when any request observes a 401.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-crm-console/auth"
	"github.com/jrsteele09/go-crm-console/sessionstore"
	"github.com/jrsteele09/go-crm-console/users"
)

// OperationInFlightErr is returned when a login, signup or logout is started
// while another auth operation has not settled. The session models exactly
// one in-flight auth operation at a time.
var OperationInFlightErr = errors.New("auth operation already in flight")

// Authenticator is the slice of the auth service the Manager needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*users.User, error)
	Signup(ctx context.Context, params auth.SignupParams) (*users.User, error)
	Logout(ctx context.Context) error
}

// Snapshot is an immutable view of session state. Invariant:
// Authenticated == (User != nil).
type Snapshot struct {
	User          *users.User
	Authenticated bool
	Loading       bool
}

// ListenerFunc observes session snapshots. Listeners run synchronously on
// every transition, on the goroutine that caused it.
type ListenerFunc func(Snapshot)

// Manager is the process-wide session state machine.
type Manager struct {
	auth  Authenticator
	store sessionstore.Store
	log   zerolog.Logger

	lock           sync.Mutex
	user           *users.User
	loading        bool
	listeners      map[int]ListenerFunc
	nextListenerID int
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for non-surfaced failures.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = logger
	}
}

// NewManager hydrates synchronously from the persisted store: a cached
// profile is trusted until a later 401 proves it stale, and no network call
// is made here. The initial state is therefore already settled.
func NewManager(authenticator Authenticator, store sessionstore.Store, options ...ManagerOption) (*Manager, error) {
	if authenticator == nil {
		return nil, errors.New("[session.NewManager] authenticator is required")
	}
	if store == nil {
		return nil, errors.New("[session.NewManager] session store is required")
	}

	m := &Manager{
		auth:      authenticator,
		store:     store,
		log:       log.Logger,
		listeners: make(map[int]ListenerFunc),
	}
	for _, opt := range options {
		opt(m)
	}

	m.user = store.LoadUser()
	return m, nil
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers a listener for state transitions and returns its
// unsubscribe function. The route guard relies on this to re-evaluate
// whenever the authenticated or loading flags change.
func (m *Manager) Subscribe(fn ListenerFunc) func() {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextListenerID
	m.nextListenerID++
	m.listeners[id] = fn

	return func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		delete(m.listeners, id)
	}
}

// Login transitions through LOADING and settles AUTHENTICATED on success or
// ANONYMOUS on failure. The failure is rethrown so the caller can display
// it; the persisted store is cleared so no partial session survives.
func (m *Manager) Login(ctx context.Context, email, password string) (*users.User, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}

	user, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.store.Clear()
		m.settle(nil)
		return nil, err
	}
	m.settle(user)
	return user, nil
}

// Signup has the same state contract as Login.
func (m *Manager) Signup(ctx context.Context, params auth.SignupParams) (*users.User, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}

	user, err := m.auth.Signup(ctx, params)
	if err != nil {
		m.store.Clear()
		m.settle(nil)
		return nil, err
	}
	m.settle(user)
	return user, nil
}

// Logout always ends ANONYMOUS with the store cleared. A failed server-side
// invalidation is logged, not surfaced: consistent client state wins over
// guaranteed server-side logout.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.begin(); err != nil {
		return
	}

	if err := m.auth.Logout(ctx); err != nil {
		m.log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}
	m.store.Clear()
	m.settle(nil)
}

// HandleUnauthenticated is the subscription target for the API client's
// unauthenticated signal. The client has already cleared the persisted
// store; this drops the in-memory session to ANONYMOUS so guards and views
// react.
func (m *Manager) HandleUnauthenticated() {
	m.lock.Lock()
	if m.user == nil {
		m.lock.Unlock()
		return
	}
	m.user = nil
	snap := m.snapshotLocked()
	listeners := m.listenersLocked()
	m.lock.Unlock()

	m.log.Debug().Msg("session invalidated by 401 response")
	notify(listeners, snap)
}

func (m *Manager) begin() error {
	m.lock.Lock()
	if m.loading {
		m.lock.Unlock()
		return OperationInFlightErr
	}
	m.loading = true
	snap := m.snapshotLocked()
	listeners := m.listenersLocked()
	m.lock.Unlock()

	notify(listeners, snap)
	return nil
}

func (m *Manager) settle(user *users.User) {
	m.lock.Lock()
	m.loading = false
	m.user = user
	snap := m.snapshotLocked()
	listeners := m.listenersLocked()
	m.lock.Unlock()

	notify(listeners, snap)
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:          m.user,
		Authenticated: m.user != nil,
		Loading:       m.loading,
	}
}

func (m *Manager) listenersLocked() []ListenerFunc {
	fns := make([]ListenerFunc, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func notify(listeners []ListenerFunc, snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}
