package powershop

import (
	"context"
	"fmt"
	gohttp "net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/tariffhawk/powershop-rates/internal/pkg/utils"
)

var (
	// Phrases the portal uses to report a rejected or locked-out login.
	loginFailureRgxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)login.*failed`),
		regexp.MustCompile(`(?i)invalid.*credentials`),
		regexp.MustCompile(`(?i)authentication.*failed`),
		regexp.MustCompile(`(?i)account.*locked`),
		regexp.MustCompile(`(?i)password.*reset`),
		regexp.MustCompile(`(?i)too.*many.*attempts`),
	}

	// customerPathRgx matches the canonical post-login redirect target.
	customerPathRgx = regexp.MustCompile(`(?i)/customers/(\d+)`)

	// Fallback patterns for digging the customer ID out of the landing page,
	// tried in order; the first one that matches anywhere wins.
	customerIDRgxs = []*regexp.Regexp{
		customerPathRgx,
		regexp.MustCompile(`(?i)customer[_-]?id["']?\s*[:=]\s*["']?(\d+)`),
		regexp.MustCompile(`(?i)data-customer[_-]?id["']?\s*=\s*["']?(\d+)`),
		regexp.MustCompile(`(?i)"customer"[^}]*"id"[:\s]*(\d+)`),
		regexp.MustCompile(`(?i)customerId["']?\s*[:=]\s*["']?(\d+)`),
	}

	// Words that only show up once logged in. Seeing one without a customer
	// ID still counts as a successful login.
	successIndicators = []string{"dashboard", "account", "balance", "logout", "welcome"}
)

// Authenticate logs into the portal. It returns false on any failure and
// never propagates errors to the caller. Attempts are rate limited to one per
// authRetryDelay, and after maxAuthFailures consecutive failures the client
// refuses to hit the network at all until a later success clears the streak.
func (c *Client) Authenticate(ctx context.Context) bool {
	if wait := c.authWait(); wait > 0 {
		c.logger.Info("rate limiting login attempt", zap.Duration("wait", wait))
		select {
		case <-ctx.Done():
			c.logger.Warn("login attempt cancelled while rate limited", zap.Error(ctx.Err()))
			return false
		case <-time.After(wait):
		}
	}

	if c.authFailures >= maxAuthFailures {
		c.logger.Error("too many consecutive login failures, refusing to retry",
			zap.Int("failures", c.authFailures))
		return false
	}

	c.lastAuthAttempt = time.Now()

	if err := c.login(ctx); err != nil {
		c.authFailures++
		c.logger.Error("login failed",
			zap.Error(err),
			zap.Int("consecutiveFailures", c.authFailures))
		return false
	}

	return true
}

func (c *Client) login(ctx context.Context) error {
	loginPage, err := c.httpClient.Get(ctx, c.baseURL)
	if err != nil {
		return fmt.Errorf("failed fetching login page: %w", err)
	}
	if !is2xx(loginPage.StatusCode) {
		return fmt.Errorf("login page returned status %d", loginPage.StatusCode)
	}

	token, ok := findInputValue(loginPage.Body, "authenticity_token")
	if !ok {
		return ErrCSRFTokenNotFound
	}

	form := url.Values{
		"authenticity_token": {token},
		"email":              {c.email},
		"password":           {c.password},
		"remember_me":        {"0"},
		"commit":             {"Login"},
	}

	resp, err := c.httpClient.PostForm(ctx, c.baseURL, form)
	if err != nil {
		return fmt.Errorf("failed submitting login form: %w", err)
	}
	if !is2xx(resp.StatusCode) {
		return fmt.Errorf("login submission returned status %d", resp.StatusCode)
	}

	for _, rgx := range loginFailureRgxs {
		if msg := rgx.FindString(resp.Body); msg != "" {
			return fmt.Errorf("%w: %q", ErrLoginRejected, utils.NormalizeSpaces(msg))
		}
	}

	// A login form posting back to the portal root plus an email input means
	// the credentials were silently bounced.
	if hasFormWithAction(resp.Body, "/") && hasInput(resp.Body, "email") {
		return ErrStillOnLoginPage
	}

	if m := customerPathRgx.FindStringSubmatch(resp.FinalURL); m != nil {
		c.setCustomerID(m[1])
		return nil
	}

	searchText := resp.FinalURL + resp.Body
	for _, rgx := range customerIDRgxs {
		if m := rgx.FindStringSubmatch(searchText); m != nil {
			c.setCustomerID(m[1])
			return nil
		}
	}

	landing := strings.ToLower(resp.FinalURL) + strings.ToLower(resp.Body)
	for _, indicator := range successIndicators {
		if strings.Contains(landing, indicator) {
			c.logger.Warn("login looks successful but no customer id was found",
				zap.String("indicator", indicator))
			// No failure-counter reset here: only a login that resolves a
			// concrete ID clears the streak.
			c.customerID = UnknownCustomerID
			return nil
		}
	}

	return fmt.Errorf("%w: landed on %s", ErrCustomerIDNotFound, resp.FinalURL)
}

func (c *Client) setCustomerID(id string) {
	c.customerID = id
	c.authFailures = 0
	c.logger.Info("authenticated", zap.String("customerID", id))
}

// authWait returns how long the next login attempt has to hold off to honor
// the rate limit.
func (c *Client) authWait() time.Duration {
	if c.lastAuthAttempt.IsZero() {
		return 0
	}
	if elapsed := time.Since(c.lastAuthAttempt); elapsed < c.authRetryDelay {
		return c.authRetryDelay - elapsed
	}
	return 0
}

func is2xx(status int) bool {
	return status >= gohttp.StatusOK && status < gohttp.StatusMultipleChoices
}

// findInputValue scans rawHTML for the first <input> with the given name and
// returns its value attribute.
func findInputValue(rawHTML, name string) (string, bool) {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	for node := tokenizer.Next(); node != html.ErrorToken; node = tokenizer.Next() {
		if node != html.StartTagToken && node != html.SelfClosingTagToken {
			continue
		}

		tkn := tokenizer.Token()
		if tkn.Data != "input" {
			continue
		}

		var inputName, value string
		for _, attr := range tkn.Attr {
			switch attr.Key {
			case "name":
				inputName = attr.Val
			case "value":
				value = attr.Val
			}
		}
		if inputName == name {
			return value, true
		}
	}

	return "", false
}

func hasInput(rawHTML, name string) bool {
	_, ok := findInputValue(rawHTML, name)
	return ok
}

func hasFormWithAction(rawHTML, action string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	for node := tokenizer.Next(); node != html.ErrorToken; node = tokenizer.Next() {
		if node != html.StartTagToken {
			continue
		}

		tkn := tokenizer.Token()
		if tkn.Data != "form" {
			continue
		}

		for _, attr := range tkn.Attr {
			if attr.Key == "action" && attr.Val == action {
				return true
			}
		}
	}

	return false
}
