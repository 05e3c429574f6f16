// Package scheduler runs the background maintenance loop: it writes fetched
// listing sets out as snapshot files and prunes expired cache entries.
package scheduler

import (
	"context"
	"time"

	"ai-travel-agent/listings"
	"ai-travel-agent/logger"
	"ai-travel-agent/models"

	"github.com/patrickmn/go-cache"
)

// snapshotJob is one listing set queued for persistence.
type snapshotJob struct {
	destination string
	listings    []models.Listing
}

// Scheduler persists snapshots off the request path and sweeps the query
// cache on a fixed interval.
type Scheduler struct {
	dir    string
	cache  *cache.Cache
	jobs   chan snapshotJob
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler writing snapshots into dir and sweeping
// the given cache. cache may be nil.
func NewScheduler(dir string, c *cache.Cache) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		dir:    dir,
		cache:  c,
		jobs:   make(chan snapshotJob, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the scheduler in a goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	logger.Info("scheduler stopped")
}

// Enqueue queues a listing set for snapshot persistence. A full queue drops
// the job; snapshots are best-effort.
func (s *Scheduler) Enqueue(destination string, ls []models.Listing) {
	select {
	case s.jobs <- snapshotJob{destination: destination, listings: ls}:
	default:
		logger.Warn("snapshot queue full, dropping job", "destination", destination)
	}
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.jobs:
			s.persist(job)
		case <-ticker.C:
			if s.cache != nil {
				s.cache.DeleteExpired()
			}
		}
	}
}

func (s *Scheduler) persist(job snapshotJob) {
	if err := listings.WriteSnapshot(s.dir, job.destination, job.listings); err != nil {
		logger.Error("failed to write snapshot", "destination", job.destination, "error", err)
		return
	}
	logger.Debug("snapshot written", "destination", job.destination, "count", len(job.listings))
}
