// Package store provides in-memory persistence for poll results.
//
//go:generate go run -mod=mod github.com/matryer/moq -out storemock/store_mock.go -pkg storemock . Store
package store

import "github.com/tariffhawk/powershop-rates/internal/pkg/model"

// Store defines the interface for keeping poll results between cycles.
type Store interface {
	// UpsertResult records the outcome of one poll cycle.
	UpsertResult(result model.PollResult) error
	// Latest returns the most recent poll result, if any was recorded.
	Latest() (model.PollResult, bool)
	// Results returns every recorded poll result, oldest first.
	Results() ([]model.PollResult, error)
}
