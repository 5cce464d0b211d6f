// Package poller drives the periodic scrape cycle: authenticate when the
// session is cold, pull the rate snapshot and usage CSV, stamp the result and
// hand it to the store.
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tariffhawk/powershop-rates/internal/pkg/model"
	"github.com/tariffhawk/powershop-rates/internal/pkg/store"
)

// DefaultInterval matches the portal's data freshness; rates rarely change
// within a quarter hour.
const DefaultInterval = 15 * time.Minute

// PortalClient is the slice of the portal client the poller needs.
type PortalClient interface {
	Authenticate(ctx context.Context) bool
	RateData(ctx context.Context) (model.RateSnapshot, error)
	UsageData(ctx context.Context) model.UsageSnapshot
	CustomerID() string
	Close()
}

type Service struct {
	client   PortalClient
	store    store.Store
	interval time.Duration
	logger   *zap.Logger
	metrics  *Metrics
}

func NewService(client PortalClient, s store.Store, interval time.Duration, logger *zap.Logger, metrics *Metrics) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Service{
		client:   client,
		store:    s,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run polls immediately and then on every interval tick until ctx is
// cancelled. The portal client is closed on the way out.
func (s *Service) Run(ctx context.Context) {
	defer s.client.Close()

	s.logger.Info("starting poller", zap.Duration("interval", s.interval))

	s.poll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping poller", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Service) poll(ctx context.Context) {
	start := time.Now()
	defer func() { s.metrics.ObservePoll(time.Since(start)) }()

	if s.client.CustomerID() == "" {
		if !s.client.Authenticate(ctx) {
			s.metrics.IncAuth("failure")
			s.metrics.IncPoll("auth_failure")
			s.logger.Warn("skipping poll, authentication failed")
			return
		}
		s.metrics.IncAuth("success")
	}

	rates, err := s.client.RateData(ctx)
	if err != nil {
		s.metrics.IncPoll("rate_failure")
		s.logger.Error("failed to fetch rate data", zap.Error(err))
		return
	}

	now := time.Now()
	rates.LastUpdated = &now

	usage := s.client.UsageData(ctx)
	s.metrics.IncUsageFetch(usage.Available)

	result := model.PollResult{Rates: rates, Usage: usage}
	if err := s.store.UpsertResult(result); err != nil {
		s.metrics.IncPoll("store_failure")
		s.logger.Error("failed to store poll result", zap.Error(err))
		return
	}

	s.metrics.IncPoll("success")
	s.metrics.SetRatePeriods(len(rates.RatePeriods))

	s.logger.Info("poll complete",
		zap.String("customerID", rates.CustomerID),
		zap.Int("ratePeriods", len(rates.RatePeriods)),
		zap.Int("bareRates", len(rates.Rates)),
		zap.Bool("usageAvailable", usage.Available),
		zap.Duration("took", time.Since(start)),
	)
}
