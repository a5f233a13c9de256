// Package sessionstore persists the session credential and the cached user
// profile between process runs. The token and the profile share a paired
// lifecycle: callers always save and clear them together, so a token never
// outlives its matching profile.
package sessionstore

import "github.com/jrsteele09/go-crm-console/users"

// Fixed keys of the persisted key-value layout.
const (
	TokenKey = "jwtToken"
	UserKey  = "currentUser"
)

// Store is the persisted-session contract. All operations are synchronous
// and never surface errors: a failed write is logged by the implementation,
// and corrupt persisted data degrades to "no session" (zero values).
type Store interface {
	SaveToken(token string)
	SaveUser(user *users.User)
	LoadToken() string
	LoadUser() *users.User
	Clear()
}
