// Package transfers wraps the internal data-transfer workflow: reassigning
// a batch of records from one owner to another, with an audit history kept
// server-side.
package transfers

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
)

// InternalTransfer asks the server to reassign Count records from the
// source owner to the target owner.
type InternalTransfer struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Count      int    `json:"count"`
}

// Result is the server's acknowledgement of a transfer request.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HistoryEntry is one audit record of a past transfer.
type HistoryEntry struct {
	ID            string    `json:"id,omitempty"`
	FromUserID    string    `json:"fromUserId,omitempty"`
	ToUserID      string    `json:"toUserId,omitempty"`
	Count         int       `json:"count,omitempty"`
	TransferredBy string    `json:"transferredBy,omitempty"`
	TransferredAt time.Time `json:"transferredAt,omitempty"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[transfers.NewService] api client is required")
	}
	return &Service{client: client}, nil
}

type historyEnvelope struct {
	Data struct {
		History []*HistoryEntry `json:"history"`
	} `json:"data"`
}

// TransferInternal reassigns records between owners.
func (s *Service) TransferInternal(ctx context.Context, transfer InternalTransfer) (*Result, error) {
	var resp Result
	if err := s.client.Post(ctx, "/transfer/internal", transfer, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InternalHistory lists past internal transfers.
func (s *Service) InternalHistory(ctx context.Context, filters url.Values) ([]*HistoryEntry, error) {
	var resp historyEnvelope
	if err := s.client.Get(ctx, "/transfer/internal-history", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.History, nil
}

// TransferToFinance hands completed sales over to the finance system.
func (s *Service) TransferToFinance(ctx context.Context, salesIDs []string) (*Result, error) {
	body := struct {
		SalesIDs []string `json:"salesIds"`
	}{SalesIDs: salesIDs}

	var resp Result
	if err := s.client.Post(ctx, "/transfer/finance", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FinanceHistory lists past finance transfers.
func (s *Service) FinanceHistory(ctx context.Context, filters url.Values) ([]*HistoryEntry, error) {
	var resp historyEnvelope
	if err := s.client.Get(ctx, "/transfer/finance-history", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.History, nil
}
