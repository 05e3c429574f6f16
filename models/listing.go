package models

// Money is a price parsed once at the listing-source boundary. PerNight
// distinguishes nightly rates from trip totals.
type Money struct {
	AmountCents int64 `json:"amount_cents"`
	PerNight    bool  `json:"per_night"`
}

// IsZero reports whether no price was parsed.
func (m Money) IsZero() bool {
	return m.AmountCents == 0
}

// TotalCents returns the trip total for the given number of days.
// Nightly rates are multiplied out; totals are returned as-is.
func (m Money) TotalCents(tripDays int) int64 {
	if tripDays < 1 {
		tripDays = 1
	}
	if m.PerNight {
		return m.AmountCents * int64(tripDays)
	}
	return m.AmountCents
}

// Listing represents a candidate accommodation record.
// PriceText and RatingText are kept for display only; downstream code
// consumes the structured Price, Rating and ReviewCount fields.
type Listing struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	PriceText   string   `json:"price_text"`
	RatingText  string   `json:"rating_text"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url,omitempty"`
	Location    string   `json:"location,omitempty"`
	Type        string   `json:"accommodation_type,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Price       Money    `json:"price"`
	Rating      float64  `json:"rating,omitempty"`
	ReviewCount int      `json:"review_count,omitempty"`
}

// TotalPriceCents returns the listing's trip total for the given duration.
func (l Listing) TotalPriceCents(tripDays int) int64 {
	return l.Price.TotalCents(tripDays)
}
