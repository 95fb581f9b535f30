package domain

import (
	"sort"
	"time"
)

// Represents a fuel station registered in the store.
// ID is assigned by the store and never changes; the coordinate pair is
// unique among stations.
type Station struct {
	ID   int64
	Name string
	Coordinates
}

// A single price observation for a station. Observations are append-only.
type PriceObservation struct {
	ID         int64
	StationID  int64
	Price      float64
	RecordedAt time.Time
}

// A station together with its latest price.
// Only stations with at least one observation have this shape.
type PricedStation struct {
	Station
	LatestPrice float64
}

// Read-only view of a station and its full price history, newest first.
// LatestPrice and RecordedAt mirror Prices[0] and are nil when Prices is empty.
type StationWithHistory struct {
	Station
	LatestPrice *float64
	RecordedAt  *time.Time
	Prices      []PriceObservation
}

// NewStationWithHistory builds the history view for s. The given observations
// are copied and ordered newest first, ties broken by higher ID.
func NewStationWithHistory(s Station, prices []PriceObservation) StationWithHistory {
	ordered := make([]PriceObservation, len(prices))
	copy(ordered, prices)
	SortNewestFirst(ordered)

	view := StationWithHistory{Station: s, Prices: ordered}
	if len(ordered) > 0 {
		latest := ordered[0].Price
		recordedAt := ordered[0].RecordedAt
		view.LatestPrice = &latest
		view.RecordedAt = &recordedAt
	}

	return view
}

// SortNewestFirst orders observations by RecordedAt descending, then ID descending.
func SortNewestFirst(prices []PriceObservation) {
	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Newer(prices[j])
	})
}

// Newer reports whether a is more recent than b under the latest-price rule.
func (a PriceObservation) Newer(b PriceObservation) bool {
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.After(b.RecordedAt)
	}
	return a.ID > b.ID
}
