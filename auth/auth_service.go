// Package auth maps the credential endpoints of the CRM API to Go calls and
// keeps the persisted session in step with their outcomes. Each operation is
// one request/response pair; there is no retry and no client-side validation
// of credentials (the server owns that).
package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/sessionstore"
	"github.com/jrsteele09/go-crm-console/users"
)

// SignupParams are the registration fields the signup endpoint expects.
// Password confirmation is checked server-side, not here.
type SignupParams struct {
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"passwordConfirm"`
	RefID           string         `json:"refId"` // Reference identifier of the inviting user
	Role            users.RoleType `json:"role"`
}

// Service performs login, signup and logout against the API.
type Service struct {
	client *apiclient.Client
	store  sessionstore.Store
}

// NewService initializes a new Service with required dependencies.
func NewService(client *apiclient.Client, store sessionstore.Store) (*Service, error) {
	if client == nil {
		return nil, errors.New("[auth.NewService] api client is required")
	}
	if store == nil {
		return nil, errors.New("[auth.NewService] session store is required")
	}
	return &Service{client: client, store: store}, nil
}

// credentialResponse is the shape of successful login/signup replies:
// {token, data:{user}}.
type credentialResponse struct {
	Token string `json:"token"`
	Data  struct {
		User *users.User `json:"user"`
	} `json:"data"`
}

// Login posts the credentials, persists the issued token and profile as a
// pair, and returns the profile. Failures propagate untouched.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp credentialResponse
	if err := s.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return s.persistCredentials(&resp)
}

// Signup registers a new user. Persistence and error contract match Login.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*users.User, error) {
	var resp credentialResponse
	if err := s.client.Post(ctx, "/auth/signup", params, &resp); err != nil {
		return nil, err
	}
	return s.persistCredentials(&resp)
}

// Logout calls the server-side invalidation endpoint. It does not clear
// local state: the session manager clears unconditionally regardless of
// this call's outcome.
func (s *Service) Logout(ctx context.Context) error {
	return s.client.Get(ctx, "/auth/logout", nil, nil)
}

func (s *Service) persistCredentials(resp *credentialResponse) (*users.User, error) {
	if resp.Token == "" || resp.Data.User == nil {
		return nil, MalformedCredentialResponseErr
	}
	// Token and profile are always written together.
	s.store.SaveToken(resp.Token)
	s.store.SaveUser(resp.Data.User)
	return resp.Data.User, nil
}
