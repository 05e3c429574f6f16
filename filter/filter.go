// Package filter selects a bounded, price-ordered subset of listings under
// a budget ceiling.
package filter

import (
	"sort"

	"ai-travel-agent/config"
	"ai-travel-agent/models"
)

// Filter applies budget selection to listings.
type Filter struct {
	showRatio    float64
	cheaperRatio float64
	quota        int
}

// NewFilter creates a Filter from configuration.
func NewFilter(cfg *config.Config) *Filter {
	return &Filter{
		showRatio:    cfg.Filter.ShowRatio,
		cheaperRatio: cfg.Filter.CheaperRatio,
		quota:        cfg.Filter.BackfillQuota,
	}
}

// WithinBudget selects listings for the default "show listings" path:
// ceiling = budget * show ratio.
func (f *Filter) WithinBudget(listings []models.Listing, totalBudget float64, tripDays int) []models.Listing {
	return f.selectUnderCeiling(listings, totalBudget*f.showRatio, tripDays)
}

// CheaperOptions selects listings under the tighter "cheaper options"
// ceiling: budget * cheaper ratio.
func (f *Filter) CheaperOptions(listings []models.Listing, totalBudget float64, tripDays int) []models.Listing {
	return f.selectUnderCeiling(listings, totalBudget*f.cheaperRatio, tripDays)
}

// selectUnderCeiling sorts listings ascending by trip total, keeps those at
// or under the ceiling, then backfills with the next-cheapest listings until
// the display quota is met or the pool runs out. The input slice is never
// mutated.
func (f *Filter) selectUnderCeiling(listings []models.Listing, ceiling float64, tripDays int) []models.Listing {
	if len(listings) == 0 {
		return []models.Listing{}
	}

	sorted := make([]models.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPriceCents(tripDays) < sorted[j].TotalPriceCents(tripDays)
	})

	ceilingCents := int64(ceiling * 100)
	cutoff := 0
	for cutoff < len(sorted) && sorted[cutoff].TotalPriceCents(tripDays) <= ceilingCents {
		cutoff++
	}

	// Backfill past the ceiling up to the quota. Sorted order means the
	// backfilled listings are the next-cheapest available.
	if cutoff < f.quota {
		cutoff = f.quota
		if cutoff > len(sorted) {
			cutoff = len(sorted)
		}
	}

	return sorted[:cutoff]
}
