package listings

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"ai-travel-agent/models"
	"ai-travel-agent/parser"
)

var accommodationTypes = []string{"apartment", "house", "condo", "villa", "studio", "loft"}

var amenityPool = []string{"WiFi", "Kitchen", "Parking", "Air conditioning"}

// MockSource generates placeholder listings for a destination. A fixed seed
// makes the output reproducible in tests.
type MockSource struct {
	count int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockSource returns a generator producing count listings per query.
func NewMockSource(count int, seed int64) *MockSource {
	if count < 1 {
		count = 10
	}
	return &MockSource{
		count: count,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Fetch generates mock listings: $50-$249 per night, ratings between 4.0
// and 5.0, accommodation types cycling through a fixed set.
func (m *MockSource) Fetch(_ context.Context, q Query) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tripDays := q.TripDays()
	out := make([]models.Listing, 0, m.count)
	for i := 0; i < m.count; i++ {
		perNight := m.rng.Intn(200) + 50
		rating := float64(m.rng.Intn(11))/10 + 4.0
		reviews := m.rng.Intn(200) + 20
		accType := accommodationTypes[i%len(accommodationTypes)]
		photo := 1500000000000 + int64(i)

		l := models.Listing{
			ID:          fmt.Sprintf("listing_%d", i+1),
			Title:       fmt.Sprintf("Beautiful %s in %s #%d", accType, q.Destination, i+1),
			PriceText:   fmt.Sprintf("$%d night · $%d total", perNight, perNight*tripDays),
			RatingText:  fmt.Sprintf("%.1f (%d reviews)", rating, reviews),
			URL:         fmt.Sprintf("https://www.airbnb.com/rooms/%d", m.rng.Intn(100000)),
			ImageURL:    fmt.Sprintf("https://images.unsplash.com/photo-%d?w=400&h=300&fit=crop&crop=entropy&auto=format", photo),
			Location:    q.Destination,
			Type:        accType,
			Amenities:   amenityPool[:m.rng.Intn(len(amenityPool))+1],
			Rating:      rating,
			ReviewCount: reviews,
		}
		if price, ok := parser.ParsePriceText(l.PriceText); ok {
			l.Price = price
		}
		out = append(out, l)
	}
	return out, nil
}
