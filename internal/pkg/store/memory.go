package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/tariffhawk/powershop-rates/internal/pkg/model"
)

// MemoryStore keeps poll results for the lifetime of the process. The host's
// own config storage is the only durable state this system relies on.
// Safe for concurrent use; the poller writes while readers inspect.
type MemoryStore struct {
	logger *zap.Logger

	mu   sync.RWMutex
	data []model.PollResult
}

func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		logger: logger,
		data:   []model.PollResult{},
	}
}

func (s *MemoryStore) UpsertResult(result model.PollResult) error {
	s.logger.Debug("recording poll result",
		zap.String("customerID", result.Rates.CustomerID),
		zap.Int("ratePeriods", len(result.Rates.RatePeriods)),
		zap.Bool("usageAvailable", result.Usage.Available),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, result)

	return nil
}

func (s *MemoryStore) Latest() (model.PollResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.data) == 0 {
		return model.PollResult{}, false
	}
	return s.data[len(s.data)-1], true
}

func (s *MemoryStore) Results() ([]model.PollResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.PollResult, len(s.data))
	copy(results, s.data)

	return results, nil
}
