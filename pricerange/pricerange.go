// Package pricerange groups listings into fixed-width price bands and picks
// representatives spread across price points, so a short display set covers
// the cheap-to-expensive span instead of clustering at one end.
package pricerange

import (
	"fmt"
	"sort"

	"ai-travel-agent/models"
)

// DefaultStep is the default band width in dollars.
const DefaultStep = 50

// Band is a contiguous price range with the listings whose trip total falls
// inside it.
type Band struct {
	Label    string // e.g. "$0-$50"
	Min      int    // dollars, inclusive
	Max      int    // dollars, exclusive
	Listings []models.Listing
}

// Bands buckets listings into $step-wide bands by trip total. Empty bands
// are omitted; bands come back in ascending price order.
func Bands(listings []models.Listing, tripDays, step int) []Band {
	if step <= 0 {
		step = DefaultStep
	}
	if len(listings) == 0 {
		return nil
	}

	byBand := make(map[int][]models.Listing)
	for _, l := range listings {
		dollars := int(l.TotalPriceCents(tripDays) / 100)
		byBand[dollars/step] = append(byBand[dollars/step], l)
	}

	keys := make([]int, 0, len(byBand))
	for k := range byBand {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	bands := make([]Band, 0, len(keys))
	for _, k := range keys {
		min := k * step
		max := min + step
		members := byBand[k]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].TotalPriceCents(tripDays) < members[j].TotalPriceCents(tripDays)
		})
		bands = append(bands, Band{
			Label:    fmt.Sprintf("$%d-$%d", min, max),
			Min:      min,
			Max:      max,
			Listings: members,
		})
	}
	return bands
}

// Spread returns up to count listings at distinct price points: one per
// band, cheapest band first, then second picks per band round-robin if the
// band count falls short. Ascending price order is preserved.
func Spread(listings []models.Listing, tripDays, count int) []models.Listing {
	if count <= 0 || len(listings) == 0 {
		return []models.Listing{}
	}

	bands := Bands(listings, tripDays, DefaultStep)

	var out []models.Listing
	for round := 0; len(out) < count; round++ {
		picked := false
		for _, b := range bands {
			if round < len(b.Listings) {
				out = append(out, b.Listings[round])
				picked = true
				if len(out) == count {
					break
				}
			}
		}
		if !picked {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPriceCents(tripDays) < out[j].TotalPriceCents(tripDays)
	})
	return out
}

// CountBands returns how many $step bands span the given dollar range.
func CountBands(min, max, step int) int {
	if step <= 0 || max <= min {
		return 1
	}
	count := (max - min) / step
	if (max-min)%step != 0 {
		count++
	}
	return count
}
