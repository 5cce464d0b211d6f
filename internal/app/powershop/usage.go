package powershop

import (
	"context"
	"fmt"
	gohttp "net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/tariffhawk/powershop-rates/internal/pkg/model"
)

// UsageData downloads the customer's usage CSV. Strictly best effort: every
// failure mode degrades to an unavailable snapshot, never an error, because
// not all accounts expose the export.
func (c *Client) UsageData(ctx context.Context) model.UsageSnapshot {
	if c.customerID == "" {
		c.logger.Warn("usage data requested before authentication")
		return model.UsageSnapshot{}
	}

	usageURL := fmt.Sprintf("%s/customers/%s/usage.csv", c.baseURL, c.customerID)

	page, err := c.httpClient.Get(ctx, usageURL)
	if err != nil {
		c.logger.Warn("failed fetching usage csv", zap.Error(err))
		return model.UsageSnapshot{}
	}
	if page.StatusCode != gohttp.StatusOK {
		c.logger.Debug("usage csv not available", zap.Int("status", page.StatusCode))
		return model.UsageSnapshot{}
	}

	lines := strings.Split(strings.TrimSpace(page.Body), "\n")
	if len(lines) < 2 { // header only, or empty
		return model.UsageSnapshot{}
	}

	return model.UsageSnapshot{
		Available:   true,
		CSVData:     page.Body,
		RecordCount: len(lines) - 1,
	}
}
