// Package teams wraps the team endpoints.
package teams

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
)

// Team groups sales executives under a team lead.
type Team struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name,omitempty"`
	TeamLeadID string   `json:"teamLeadId,omitempty"`
	MemberIDs  []string `json:"memberIds,omitempty"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[teams.NewService] api client is required")
	}
	return &Service{client: client}, nil
}

type teamEnvelope struct {
	Data struct {
		Team *Team `json:"team"`
	} `json:"data"`
}

func (s *Service) Create(ctx context.Context, team *Team) (*Team, error) {
	var resp teamEnvelope
	if err := s.client.Post(ctx, "/teams", team, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Team, nil
}

func (s *Service) List(ctx context.Context, filters url.Values) ([]*Team, error) {
	var resp struct {
		Data struct {
			Teams []*Team `json:"teams"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/teams", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Teams, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Team, error) {
	var resp teamEnvelope
	if err := s.client.Get(ctx, "/teams/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Team, nil
}

func (s *Service) Update(ctx context.Context, id string, fields *Team) (*Team, error) {
	var resp teamEnvelope
	if err := s.client.Patch(ctx, "/teams/"+id, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Team, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/teams/"+id)
}
