package pricerange

import (
	"testing"

	"ai-travel-agent/models"
)

func nightly(cents int64) models.Listing {
	return models.Listing{Price: models.Money{AmountCents: cents, PerNight: true}}
}

func TestBands(t *testing.T) {
	listings := []models.Listing{
		nightly(4500),  // $45/night, $45 total at 1 day -> band $0-$50
		nightly(12000), // $120 -> band $100-$150
		nightly(13000), // $130 -> band $100-$150
		nightly(20000), // $200 -> band $200-$250
	}

	bands := Bands(listings, 1, 50)
	if len(bands) != 3 {
		t.Fatalf("got %d bands, want 3", len(bands))
	}
	if bands[0].Label != "$0-$50" || len(bands[0].Listings) != 1 {
		t.Errorf("band 0 = %s with %d listings", bands[0].Label, len(bands[0].Listings))
	}
	if bands[1].Label != "$100-$150" || len(bands[1].Listings) != 2 {
		t.Errorf("band 1 = %s with %d listings", bands[1].Label, len(bands[1].Listings))
	}
	if bands[2].Label != "$200-$250" {
		t.Errorf("band 2 = %s", bands[2].Label)
	}
}

func TestBandsEmpty(t *testing.T) {
	if bands := Bands(nil, 1, 50); bands != nil {
		t.Errorf("Bands(nil) = %v, want nil", bands)
	}
}

func TestSpreadPrefersDistinctPricePoints(t *testing.T) {
	listings := []models.Listing{
		nightly(4000), nightly(4500), // $0-$50 band
		nightly(9000), nightly(9500), // $50-$100 band
		nightly(14000), // $100-$150 band
	}

	got := Spread(listings, 1, 3)
	if len(got) != 3 {
		t.Fatalf("got %d listings, want 3", len(got))
	}
	// one representative per band, cheapest in each
	wantCents := []int64{4000, 9000, 14000}
	for i, l := range got {
		if l.Price.AmountCents != wantCents[i] {
			t.Errorf("spread[%d] = %d cents, want %d", i, l.Price.AmountCents, wantCents[i])
		}
	}
}

func TestSpreadRoundRobinWhenFewBands(t *testing.T) {
	listings := []models.Listing{
		nightly(4000), nightly(4200), nightly(4400),
	}

	got := Spread(listings, 1, 5)
	if len(got) != 3 {
		t.Fatalf("got %d listings, want all 3", len(got))
	}
}

func TestCountBands(t *testing.T) {
	tests := []struct {
		min, max, step, want int
	}{
		{0, 100, 50, 2},
		{0, 120, 50, 3},
		{0, 0, 50, 1},
		{100, 50, 50, 1},
		{0, 100, 0, 1},
	}
	for _, tt := range tests {
		if got := CountBands(tt.min, tt.max, tt.step); got != tt.want {
			t.Errorf("CountBands(%d, %d, %d) = %d, want %d", tt.min, tt.max, tt.step, got, tt.want)
		}
	}
}
