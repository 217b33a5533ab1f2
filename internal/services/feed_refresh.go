package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// FeedRefresher keeps the default render of every configured feed warm by
// refetching it once per cache TTL, regardless of what is cached
type FeedRefresher struct {
	service  *GeometryService
	interval time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewFeedRefresher creates a refresher that runs once per cache TTL
func NewFeedRefresher(service *GeometryService) *FeedRefresher {
	return &FeedRefresher{
		service:  service,
		interval: service.config.Cache.TTL,
		timeout:  2 * time.Minute,
	}
}

// Start begins refreshing in the background. It does nothing when the cache
// is disabled or no feeds are configured.
func (r *FeedRefresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running || r.service.cache == nil || len(r.service.config.Feeds) == 0 {
		return
	}
	r.running = true
	r.stopChan = make(chan struct{})

	log.Printf("Starting feed refresh every %v for %d feeds", r.interval, len(r.service.config.Feeds))
	go r.refreshLoop(ctx, r.stopChan)
}

// Stop ends the background refresh
func (r *FeedRefresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.running = false
	close(r.stopChan)
	log.Printf("Stopped feed refresh")
}

// IsRunning returns whether the background refresh is active
func (r *FeedRefresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *FeedRefresher) refreshLoop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RefreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Feed refresh stopping due to context cancellation")
			return
		case <-stop:
			return
		case <-ticker.C:
			r.RefreshAll(ctx)
		}
	}
}

// RefreshAll fetches every configured feed once and returns how many
// renders were stored
func (r *FeedRefresher) RefreshAll(ctx context.Context) int {
	ok := 0
	for _, feed := range r.service.config.Feeds {
		refreshCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.service.refreshFeed(refreshCtx, feed.ID)
		cancel()
		if err != nil {
			log.Printf("Feed refresh for %s failed: %v", feed.ID, err)
			continue
		}
		ok++
	}
	return ok
}
