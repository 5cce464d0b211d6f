// Package model holds the data types shared between the portal client, the
// polling service and the store.
package model

import (
	"sort"
	"strings"
	"time"
)

// RatePeriod is one named time-of-use pricing window, e.g. "Off Peak" between
// 12am and 7am at 19.08 c/kWh.
type RatePeriod struct {
	Name          string  `json:"name"`
	TimeRange     string  `json:"timeRange"`
	Rate          float64 `json:"rate"`
	RateFormatted string  `json:"rateFormatted"`
}

// RateSnapshot is the result of one rate extraction pass over a portal page.
// Snapshots are recomputed from scratch every poll cycle and never merged with
// earlier ones.
type RateSnapshot struct {
	// Rates holds every distinct rate value found anywhere on the page,
	// ascending.
	Rates []float64 `json:"rates"`
	// PrimaryRate is the lowest rate on the page, nil when none was found.
	PrimaryRate *float64 `json:"primaryRate"`
	// RatePeriods maps period name to the extracted period.
	RatePeriods map[string]RatePeriod `json:"ratePeriods"`
	CustomerID  string                `json:"customerId"`
	// LastUpdated is stamped by the polling service, not the extractor.
	LastUpdated *time.Time `json:"lastUpdated"`
}

// UsageSnapshot is the best-effort result of one usage CSV download.
type UsageSnapshot struct {
	Available   bool   `json:"available"`
	CSVData     string `json:"csvData,omitempty"`
	RecordCount int    `json:"recordCount,omitempty"`
}

// PollResult bundles what one poll cycle produced: the rate snapshot plus the
// usage download that ran alongside it.
type PollResult struct {
	Rates RateSnapshot  `json:"rates"`
	Usage UsageSnapshot `json:"usage"`
}

// OffPeakRate returns the off-peak period, if one was extracted.
func (s RateSnapshot) OffPeakRate() (RatePeriod, bool) {
	return s.findPeriod(func(name string) bool {
		return strings.Contains(name, "off peak")
	})
}

// PeakRate returns the peak period, preferring a weekday peak over any other
// peak. Off-peak periods never qualify.
func (s RateSnapshot) PeakRate() (RatePeriod, bool) {
	if p, ok := s.findPeriod(func(name string) bool {
		return strings.Contains(name, "peak") && strings.Contains(name, "weekday")
	}); ok {
		return p, true
	}
	return s.findPeriod(func(name string) bool {
		return strings.Contains(name, "peak") && !strings.Contains(name, "off")
	})
}

// ShoulderRate returns the shoulder period, if one was extracted.
func (s RateSnapshot) ShoulderRate() (RatePeriod, bool) {
	return s.findPeriod(func(name string) bool {
		return strings.Contains(name, "shoulder")
	})
}

// findPeriod scans periods in sorted-name order so repeated calls pick the
// same period even though map iteration order is random.
func (s RateSnapshot) findPeriod(match func(lowerName string) bool) (RatePeriod, bool) {
	names := make([]string, 0, len(s.RatePeriods))
	for name := range s.RatePeriods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if match(strings.ToLower(name)) {
			return s.RatePeriods[name], true
		}
	}
	return RatePeriod{}, false
}
