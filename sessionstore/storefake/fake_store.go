package storefake

import (
	"sync"

	"github.com/jrsteele09/go-crm-console/sessionstore"
	"github.com/jrsteele09/go-crm-console/users"
)

var _ sessionstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store for tests.
type FakeStore struct {
	lock  sync.RWMutex
	token string
	user  *users.User
	set   map[string]bool
}

func NewFakeStore() *FakeStore {
	return &FakeStore{set: make(map[string]bool)}
}

func (s *FakeStore) SaveToken(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.token = token
	s.set[sessionstore.TokenKey] = true
}

func (s *FakeStore) SaveUser(user *users.User) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.user = user
	s.set[sessionstore.UserKey] = true
}

func (s *FakeStore) LoadToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.token
}

func (s *FakeStore) LoadUser() *users.User {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.user
}

func (s *FakeStore) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.token = ""
	s.user = nil
	s.set = make(map[string]bool)
}

// Empty reports whether neither key holds a value, for asserting the
// paired-lifecycle invariant in tests.
func (s *FakeStore) Empty() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return !s.set[sessionstore.TokenKey] && !s.set[sessionstore.UserKey]
}
