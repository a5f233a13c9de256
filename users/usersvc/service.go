// Package usersvc wraps the user endpoints: a user's own profile
// (GET/PATCH /users/getMe) and, for team leads and managers, the user
// directory. Permission checks live server-side.
package usersvc

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/sessionstore"
	"github.com/jrsteele09/go-crm-console/users"
)

// UpdateMeParams are the self-service profile fields. Nil fields are left
// untouched by the server.
type UpdateMeParams struct {
	Name      *string `json:"name,omitempty"`
	ContactNo *string `json:"contactNo,omitempty"`
	Location  *string `json:"location,omitempty"`
}

type Service struct {
	client *apiclient.Client
	store  sessionstore.Store
}

// NewService builds the user service. The store is used to refresh the
// cached profile snapshot after a successful self-update, keeping the
// persisted copy no staler than the last fetch.
func NewService(client *apiclient.Client, store sessionstore.Store) (*Service, error) {
	if client == nil {
		return nil, errors.New("[usersvc.NewService] api client is required")
	}
	if store == nil {
		return nil, errors.New("[usersvc.NewService] session store is required")
	}
	return &Service{client: client, store: store}, nil
}

type userEnvelope struct {
	Data struct {
		User *users.User `json:"user"`
	} `json:"data"`
}

// Me fetches the caller's own profile and refreshes the cached snapshot.
func (s *Service) Me(ctx context.Context) (*users.User, error) {
	var resp userEnvelope
	if err := s.client.Get(ctx, "/users/getMe", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.User != nil {
		s.store.SaveUser(resp.Data.User)
	}
	return resp.Data.User, nil
}

// UpdateMe patches the caller's own profile and refreshes the cached
// snapshot with the server's copy.
func (s *Service) UpdateMe(ctx context.Context, params UpdateMeParams) (*users.User, error) {
	var resp userEnvelope
	if err := s.client.Patch(ctx, "/users/getMe", params, &resp); err != nil {
		return nil, err
	}
	if resp.Data.User != nil {
		s.store.SaveUser(resp.Data.User)
	}
	return resp.Data.User, nil
}

// List returns the users visible to the caller: a manager sees everyone, a
// team lead their executives.
func (s *Service) List(ctx context.Context, filters url.Values) ([]*users.User, error) {
	var resp struct {
		Data struct {
			Users []*users.User `json:"users"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/users", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Users, nil
}

func (s *Service) Get(ctx context.Context, id string) (*users.User, error) {
	var resp userEnvelope
	if err := s.client.Get(ctx, "/users/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.User, nil
}

func (s *Service) Create(ctx context.Context, user *users.User) (*users.User, error) {
	var resp userEnvelope
	if err := s.client.Post(ctx, "/users/createUser", user, &resp); err != nil {
		return nil, err
	}
	return resp.Data.User, nil
}

func (s *Service) Update(ctx context.Context, id string, fields *users.User) (*users.User, error) {
	var resp userEnvelope
	if err := s.client.Patch(ctx, "/users/"+id, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Data.User, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/users/"+id)
}
