package directory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bank-accounts-service/internal/config"
	"github.com/bank-accounts-service/internal/domain/customer"
)

const customerService = "customer"

// CustomerClient resolves customers from GET /v1.0/customers/{id}.
type CustomerClient struct {
	client *jsonClient
	logger *slog.Logger
}

func NewCustomerClient(logger *slog.Logger, cfg config.DirectoryConfig) *CustomerClient {
	logger = logger.With("component", "customer_client")
	return &CustomerClient{
		client: newJSONClient(cfg.CustomerServiceURL, cfg, logger),
		logger: logger,
	}
}

func (c *CustomerClient) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	var cust customer.Customer
	err := c.client.getJSON(ctx, "/v1.0/customers/"+url.PathEscape(id), &cust)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, customer.ErrCustomerNotFound{CustomerID: id}
		}
		c.logger.Error("Customer lookup failed", "customer_id", id, "error", err)
		return nil, customer.ErrUpstreamUnavailable{Service: customerService, Err: err}
	}

	if cust.ID == "" {
		cust.ID = id
	}
	return &cust, nil
}

var _ customer.Directory = (*CustomerClient)(nil)
