// Package listings provides accommodation records for a destination. The
// service answers from an in-memory query cache, then from local snapshot
// files, and falls back to generated mock listings so a search never fails
// outright.
package listings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-travel-agent/config"
	"ai-travel-agent/logger"
	"ai-travel-agent/models"

	"github.com/patrickmn/go-cache"
)

// Query describes one listing search.
type Query struct {
	Destination string  `json:"destination"`
	Budget      float64 `json:"budget,omitempty"`
	CheckIn     string  `json:"checkIn,omitempty"`
	CheckOut    string  `json:"checkOut,omitempty"`
	Guests      int     `json:"guests,omitempty"`
}

// TripDays derives the stay length from the check-in/check-out dates,
// defaulting to 1 when dates are absent or unparseable.
func (q Query) TripDays() int {
	start, err1 := time.Parse("2006-01-02", q.CheckIn)
	end, err2 := time.Parse("2006-01-02", q.CheckOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Source returns listings for a query. Implementations are opaque to the
// rest of the system.
type Source interface {
	Fetch(ctx context.Context, q Query) ([]models.Listing, error)
}

// Service front-ends the listing sources with a per-query cache.
type Service struct {
	snapshot Source
	mock     Source
	cache    *cache.Cache

	// persist, when set, receives freshly fetched listing sets so they can
	// be written out as snapshot files.
	persist func(destination string, listings []models.Listing)
}

// NewQueryCache builds the per-query listings cache with the configured TTL.
// Constructing it separately lets the maintenance loop share it.
func NewQueryCache(cfg *config.Config) *cache.Cache {
	ttl := time.Duration(cfg.Listings.CacheTTLMinutes) * time.Minute
	return cache.New(ttl, 2*ttl)
}

// NewService builds a Service from configuration. A nil qc gets a fresh
// cache; persist may be nil.
func NewService(cfg *config.Config, qc *cache.Cache, persist func(string, []models.Listing)) *Service {
	if qc == nil {
		qc = NewQueryCache(cfg)
	}
	return &Service{
		snapshot: NewSnapshotSource(cfg.Listings.SnapshotDir),
		mock:     NewMockSource(cfg.Listings.MockCount, time.Now().UnixNano()),
		cache:    qc,
		persist:  persist,
	}
}

// Cache exposes the underlying query cache for maintenance loops.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// Search returns listings for the query. Snapshot files are preferred; any
// failure there degrades to mock listings rather than an error. Results are
// cached per (destination, check-in, check-out, guests).
func (s *Service) Search(ctx context.Context, q Query) ([]models.Listing, error) {
	if strings.TrimSpace(q.Destination) == "" {
		return nil, fmt.Errorf("destination is required")
	}

	key := cacheKey(q)
	if cached, found := s.cache.Get(key); found {
		logger.Debug("using cached listings", "key", key)
		return cached.([]models.Listing), nil
	}

	results, err := s.snapshot.Fetch(ctx, q)
	if err != nil || len(results) == 0 {
		if err != nil {
			logger.Debug("snapshot lookup failed, generating mock listings", "destination", q.Destination, "error", err)
		}
		results, err = s.mock.Fetch(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listings: %w", err)
		}
		if s.persist != nil {
			s.persist(q.Destination, results)
		}
	}

	s.cache.SetDefault(key, results)
	return results, nil
}

func cacheKey(q Query) string {
	guests := q.Guests
	if guests < 1 {
		guests = 1
	}
	return fmt.Sprintf("%s_%s_%s_%d",
		strings.ToLower(q.Destination), q.CheckIn, q.CheckOut, guests)
}
