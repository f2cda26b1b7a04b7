package model

import "time"

// Freshness labels shown on the storefront. Purely derived from
// days-since-harvest against fixed thresholds; nothing is stored.
const (
	FreshnessHarvestedToday = "harvested_today"
	FreshnessVeryFresh      = "very_fresh"
	FreshnessFresh          = "fresh"
	FreshnessAging          = "aging"
	FreshnessExpired        = "expired"
)

// Fixed day thresholds for the freshness ladder.
const (
	veryFreshMaxDays = 2
	freshMaxDays     = 5
)

// Freshness returns the display label for a batch harvested on harvestDate,
// for a product that keeps shelfLifeDays, evaluated at now.
func Freshness(harvestDate time.Time, shelfLifeDays int, now time.Time) string {
	days := DaysSinceHarvest(harvestDate, now)
	switch {
	case days <= 0:
		return FreshnessHarvestedToday
	case days <= veryFreshMaxDays:
		return FreshnessVeryFresh
	case days <= freshMaxDays:
		return FreshnessFresh
	case days <= shelfLifeDays:
		return FreshnessAging
	default:
		return FreshnessExpired
	}
}
