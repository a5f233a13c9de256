// Package sales wraps the sales-record endpoints. Executives see their own
// records, team leads their team's, managers everything; all of that
// filtering happens server-side.
package sales

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/apiclient"
)

// Sale is a closed sales record.
type Sale struct {
	ID          string    `json:"id,omitempty"`
	ClientName  string    `json:"clientName,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	Product     string    `json:"product,omitempty"`
	SoldBy      string    `json:"soldBy,omitempty"` // User ID of the selling executive
	Date        time.Time `json:"date,omitempty"`
}

// Summary is the aggregated sales report shape.
type Summary struct {
	TotalSales  int     `json:"totalSales"`
	TotalAmount float64 `json:"totalAmount"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[sales.NewService] api client is required")
	}
	return &Service{client: client}, nil
}

type saleEnvelope struct {
	Data struct {
		Sale *Sale `json:"sale"`
	} `json:"data"`
}

type saleListEnvelope struct {
	Data struct {
		Sales []*Sale `json:"sales"`
	} `json:"data"`
}

func (s *Service) Create(ctx context.Context, sale *Sale) (*Sale, error) {
	var resp saleEnvelope
	if err := s.client.Post(ctx, "/sales", sale, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Sale, nil
}

func (s *Service) List(ctx context.Context, filters url.Values) ([]*Sale, error) {
	var resp saleListEnvelope
	if err := s.client.Get(ctx, "/sales", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Sales, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Sale, error) {
	var resp saleEnvelope
	if err := s.client.Get(ctx, "/sales/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Sale, nil
}

// SummaryReport fetches the aggregated summary, typically for team leads
// and managers.
func (s *Service) SummaryReport(ctx context.Context, filters url.Values) (*Summary, error) {
	var resp struct {
		Data struct {
			Summary *Summary `json:"summary"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/sales/report/summary", filters, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Summary, nil
}
