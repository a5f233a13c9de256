// Package calllogs wraps the call-log endpoints.
package calllogs

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
)

// CallLog is one recorded call against a prospect.
type CallLog struct {
	ID         string    `json:"id,omitempty"`
	ProspectID string    `json:"prospectId,omitempty"`
	CalledBy   string    `json:"calledBy,omitempty"` // User ID of the caller
	Outcome    string    `json:"outcome,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Duration   int       `json:"duration,omitempty"` // Seconds
	Date       time.Time `json:"date,omitempty"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[calllogs.NewService] api client is required")
	}
	return &Service{client: client}, nil
}

type callLogEnvelope struct {
	Data struct {
		CallLog *CallLog `json:"callLog"`
	} `json:"data"`
}

func (s *Service) Create(ctx context.Context, callLog *CallLog) (*CallLog, error) {
	var resp callLogEnvelope
	if err := s.client.Post(ctx, "/calllogs", callLog, &resp); err != nil {
		return nil, err
	}
	return resp.Data.CallLog, nil
}

func (s *Service) List(ctx context.Context, filters url.Values) ([]*CallLog, error) {
	var resp struct {
		Data struct {
			CallLogs []*CallLog `json:"callLogs"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/calllogs", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.CallLogs, nil
}

func (s *Service) Get(ctx context.Context, id string) (*CallLog, error) {
	var resp callLogEnvelope
	if err := s.client.Get(ctx, "/calllogs/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.CallLog, nil
}

func (s *Service) Update(ctx context.Context, id string, fields *CallLog) (*CallLog, error) {
	var resp callLogEnvelope
	if err := s.client.Patch(ctx, "/calllogs/"+id, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Data.CallLog, nil
}
