package sessionstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-crm-console/users"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the session under a data directory, one file per key.
// It survives process restarts, which is what lets the session manager
// hydrate without a network call.
type FileStore struct {
	dir  string
	log  zerolog.Logger
	lock sync.Mutex
}

// FileStoreOption defines a function type to modify the FileStore instance.
type FileStoreOption func(*FileStore)

// WithLogger sets the logger used to report write failures.
func WithLogger(logger zerolog.Logger) FileStoreOption {
	return func(fs *FileStore) {
		fs.log = logger
	}
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string, options ...FileStoreOption) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("[NewFileStore] data directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	store := &FileStore{dir: dir, log: log.Logger}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

func (s *FileStore) SaveToken(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.write(TokenKey, []byte(token))
}

func (s *FileStore) SaveUser(user *users.User) {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		s.log.Warn().Err(err).Msg("session store: failed to encode user profile")
		return
	}
	s.write(UserKey, data)
}

func (s *FileStore) LoadToken() string {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path(TokenKey))
	if err != nil {
		return ""
	}
	return string(data)
}

// LoadUser returns the cached profile, or nil when nothing is stored or the
// stored value is not valid JSON. Corruption degrades to "no session".
func (s *FileStore) LoadUser() *users.User {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path(UserKey))
	if err != nil {
		return nil
	}

	var user users.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn().Err(err).Msg("session store: discarding corrupt user profile")
		return nil
	}
	return &user
}

// Clear removes both keys. Removing an already-empty store is not an error,
// so Clear is idempotent.
func (s *FileStore) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, key := range []string{TokenKey, UserKey} {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("key", key).Msg("session store: failed to remove key")
		}
	}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStore) write(key string, data []byte) {
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("session store: failed to write key")
	}
}
