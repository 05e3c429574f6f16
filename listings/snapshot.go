package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-travel-agent/models"
	"ai-travel-agent/parser"

	"github.com/samber/lo"
)

// snapshotRecord is the on-disk listing shape. Prices and ratings are stored
// as the free-text strings the records were captured with.
type snapshotRecord struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	PriceText  string   `json:"price_text"`
	RatingText string   `json:"rating_text"`
	URL        string   `json:"url"`
	ImageURL   string   `json:"image_url,omitempty"`
	Location   string   `json:"location,omitempty"`
	Type       string   `json:"accommodation_type,omitempty"`
	Amenities  []string `json:"amenities,omitempty"`
}

// SnapshotSource reads listing sets persisted as
// airbnb_listings_<destination>_<date>.json files.
type SnapshotSource struct {
	dir string

	// now is swappable for tests
	now func() time.Time
}

// NewSnapshotSource returns a source reading snapshots from dir.
func NewSnapshotSource(dir string) *SnapshotSource {
	return &SnapshotSource{dir: dir, now: time.Now}
}

// Fetch loads today's snapshot for the query destination. Structured prices
// and ratings are parsed out of the stored text once, here. A missing or
// corrupt file is an error; callers treat it as a cache miss.
func (s *SnapshotSource) Fetch(_ context.Context, q Query) ([]models.Listing, error) {
	path := filepath.Join(s.dir, SnapshotFilename(q.Destination, s.now()))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	listings := lo.FilterMap(records, func(r snapshotRecord, _ int) (models.Listing, bool) {
		if strings.TrimSpace(r.Title) == "" {
			return models.Listing{}, false
		}
		l := models.Listing{
			ID:         r.ID,
			Title:      r.Title,
			PriceText:  r.PriceText,
			RatingText: r.RatingText,
			URL:        r.URL,
			ImageURL:   r.ImageURL,
			Location:   r.Location,
			Type:       r.Type,
			Amenities:  r.Amenities,
		}
		if price, ok := parser.ParsePriceText(r.PriceText); ok {
			l.Price = price
		}
		l.Rating, l.ReviewCount = parser.ParseRating(r.RatingText)
		return l, true
	})
	return listings, nil
}

// SnapshotFilename returns the snapshot file name for a destination and
// capture date. Spaces in the destination become underscores.
func SnapshotFilename(destination string, date time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(destination), " ", "_")
	return fmt.Sprintf("airbnb_listings_%s_%s.json", name, date.Format("2006-01-02"))
}

// WriteSnapshot persists a listing set for a destination, dated today.
func WriteSnapshot(dir, destination string, ls []models.Listing) error {
	records := lo.Map(ls, func(l models.Listing, _ int) snapshotRecord {
		return snapshotRecord{
			ID:         l.ID,
			Title:      l.Title,
			PriceText:  l.PriceText,
			RatingText: l.RatingText,
			URL:        l.URL,
			ImageURL:   l.ImageURL,
			Location:   l.Location,
			Type:       l.Type,
			Amenities:  l.Amenities,
		}
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := filepath.Join(dir, SnapshotFilename(destination, time.Now()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
