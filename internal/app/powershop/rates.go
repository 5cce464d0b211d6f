package powershop

import (
	"context"
	"fmt"
	gohttp "net/http"
	"regexp"

	"go.uber.org/zap"

	"github.com/tariffhawk/powershop-rates/internal/pkg/model"
)

// rediscoveryRgxs are the narrower ID patterns used when a poll starts with
// the UnknownCustomerID sentinel and gets another look at the portal root.
var rediscoveryRgxs = []*regexp.Regexp{
	customerPathRgx,
	regexp.MustCompile(`(?i)customer[_-]?id["']?\s*[:=]\s*["']?(\d+)`),
}

// RateData fetches the customer's balance page and extracts the current rate
// snapshot. A successful Authenticate call must have happened first.
func (c *Client) RateData(ctx context.Context) (model.RateSnapshot, error) {
	if c.customerID == "" {
		return model.RateSnapshot{}, ErrNotAuthenticated
	}

	if c.customerID == UnknownCustomerID {
		if snapshot, done := c.rediscoverCustomerID(ctx); done {
			return snapshot, nil
		}
	}

	balanceURL := fmt.Sprintf("%s/customers/%s/balance", c.baseURL, c.customerID)

	page, err := c.httpClient.Get(ctx, balanceURL)
	if err != nil {
		return model.RateSnapshot{}, fmt.Errorf("failed fetching balance page: %w", err)
	}
	if !is2xx(page.StatusCode) {
		return model.RateSnapshot{}, fmt.Errorf("balance page returned status %d", page.StatusCode)
	}

	return c.ExtractRates(page.Body), nil
}

// rediscoverCustomerID retries ID discovery against the portal root. When the
// ID still cannot be found, it extracts rates straight off the root page and
// returns that snapshot as the poll's final answer.
func (c *Client) rediscoverCustomerID(ctx context.Context) (model.RateSnapshot, bool) {
	page, err := c.httpClient.Get(ctx, c.baseURL)
	if err != nil || page.StatusCode != gohttp.StatusOK {
		// Leave the sentinel in place; the balance fetch will report the
		// real failure.
		return model.RateSnapshot{}, false
	}

	searchText := page.FinalURL + page.Body
	for _, rgx := range rediscoveryRgxs {
		if m := rgx.FindStringSubmatch(searchText); m != nil {
			c.customerID = m[1]
			c.logger.Info("discovered customer id", zap.String("customerID", c.customerID))
			return model.RateSnapshot{}, false
		}
	}

	c.logger.Warn("customer id still unknown, extracting rates from portal root")

	return c.ExtractRates(page.Body), true
}
