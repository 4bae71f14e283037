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

const creditService = "credit"

// CreditClient talks to the credit service.
type CreditClient struct {
	client *jsonClient
	logger *slog.Logger
}

func NewCreditClient(logger *slog.Logger, cfg config.DirectoryConfig) *CreditClient {
	logger = logger.With("component", "credit_client")
	return &CreditClient{
		client: newJSONClient(cfg.CreditServiceURL, cfg, logger),
		logger: logger,
	}
}

// ListByCustomer treats 404 as a customer without credit products.
func (c *CreditClient) ListByCustomer(ctx context.Context, customerID string) ([]customer.CreditProduct, error) {
	var products []customer.CreditProduct
	err := c.client.getJSON(ctx, "/v1.0/credits/customer/"+url.PathEscape(customerID), &products)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return []customer.CreditProduct{}, nil
		}
		c.logger.Error("Credit products lookup failed", "customer_id", customerID, "error", err)
		return nil, customer.ErrUpstreamUnavailable{Service: creditService, Err: err}
	}
	if products == nil {
		products = []customer.CreditProduct{}
	}
	return products, nil
}

// HasOverdueDebt fails open: any error reads as "no debt" and is logged at WARN.
func (c *CreditClient) HasOverdueDebt(ctx context.Context, customerID string) bool {
	var overdue bool
	err := c.client.getJSON(ctx, "/v1.0/credits/hasOverdueDebt/"+url.PathEscape(customerID), &overdue)
	if err != nil {
		c.logger.Warn("Overdue debt check failed, assuming no debt",
			"customer_id", customerID,
			"error", err,
		)
		return false
	}
	return overdue
}

var _ customer.CreditDirectory = (*CreditClient)(nil)
