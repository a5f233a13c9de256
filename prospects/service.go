// Package prospects wraps the prospect endpoints. The server filters every
// listing by the caller's role; the client sends filters verbatim and
// displays whatever comes back.
package prospects

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
)

// Prospect is a potential client record worked by a sales executive.
type Prospect struct {
	ID           string    `json:"id,omitempty"`
	ClientName   string    `json:"clientName,omitempty"`
	CompanyName  string    `json:"companyName,omitempty"`
	EmailID      string    `json:"emailId,omitempty"`
	ContactNo    string    `json:"contactNo,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	Status       string    `json:"status,omitempty"`
	AssignedTo   string    `json:"assignedTo,omitempty"` // User ID of the current owner
	ReminderDate time.Time `json:"reminderDate,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[prospects.NewService] api client is required")
	}
	return &Service{client: client}, nil
}

type prospectEnvelope struct {
	Data struct {
		Prospect *Prospect `json:"prospect"`
	} `json:"data"`
}

type prospectListEnvelope struct {
	Data struct {
		Prospects []*Prospect `json:"prospects"`
	} `json:"data"`
}

func (s *Service) Create(ctx context.Context, prospect *Prospect) (*Prospect, error) {
	var resp prospectEnvelope
	if err := s.client.Post(ctx, "/prospects", prospect, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Prospect, nil
}

func (s *Service) List(ctx context.Context, filters url.Values) ([]*Prospect, error) {
	var resp prospectListEnvelope
	if err := s.client.Get(ctx, "/prospects", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Prospects, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Prospect, error) {
	var resp prospectEnvelope
	if err := s.client.Get(ctx, "/prospects/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Prospect, nil
}

func (s *Service) Update(ctx context.Context, id string, fields *Prospect) (*Prospect, error) {
	var resp prospectEnvelope
	if err := s.client.Patch(ctx, "/prospects/"+id, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Prospect, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/prospects/"+id)
}

// ListUntouched returns prospects with no recorded activity yet.
func (s *Service) ListUntouched(ctx context.Context, filters url.Values) ([]*Prospect, error) {
	var resp prospectListEnvelope
	if err := s.client.Get(ctx, "/prospects/untouched", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Prospects, nil
}
