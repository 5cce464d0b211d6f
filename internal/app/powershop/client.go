// Package powershop implements the client for the Powershop customer portal:
// session login with CSRF handling, time-of-use rate extraction from the
// balance page, and best-effort usage CSV download.
//
// The portal has no documented API; everything here scrapes the HTML pages a
// browser would see.
package powershop

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tariffhawk/powershop-rates/internal/pkg/http"
)

const (
	// DefaultBaseURL is the production portal.
	DefaultBaseURL = "https://secure.powershop.co.nz"

	// UnknownCustomerID marks a login that succeeded without revealing a
	// numeric customer ID anywhere we could find one.
	UnknownCustomerID = "unknown"

	defaultAuthRetryDelay = 5 * time.Second
	maxAuthFailures       = 3
)

// Config carries the account credentials and portal coordinates.
type Config struct {
	Email    string
	Password string
	// BaseURL defaults to DefaultBaseURL when empty.
	BaseURL string
	// CustomerID may carry a previously resolved ID so the first poll can
	// skip straight to the balance page.
	CustomerID string
}

// Client talks to the portal on behalf of one account. It is not safe for
// concurrent use; the polling service serializes all calls to one client.
type Client struct {
	httpClient http.Client
	logger     *zap.Logger

	email    string
	password string
	baseURL  string

	customerID      string
	lastAuthAttempt time.Time
	authFailures    int

	// authRetryDelay is the minimum gap between login attempts. Tests shrink it.
	authRetryDelay time.Duration
}

func NewClient(cfg Config, httpClient http.Client, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		logger:         logger,
		email:          cfg.Email,
		password:       cfg.Password,
		baseURL:        strings.TrimRight(baseURL, "/"),
		customerID:     cfg.CustomerID,
		authRetryDelay: defaultAuthRetryDelay,
	}
}

// CustomerID returns the resolved numeric customer ID, UnknownCustomerID when
// login succeeded without resolving one, or "" before any successful login.
func (c *Client) CustomerID() string {
	return c.customerID
}

// Close releases the HTTP session. Safe to call multiple times.
func (c *Client) Close() {
	c.httpClient.Close()
}
