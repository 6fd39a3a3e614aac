package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/stride/pkg/metrics"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store. Clips are treated as immutable once
// stored; callers clone before editing.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]Entry
	capacity int

	// listing is rebuilt on every write so List never takes the lock.
	listing atomic.Pointer[[]Summary]

	metricsUpdateInterval time.Duration
	wg                    sync.WaitGroup
	stopChan              chan struct{}
	closeOnce             sync.Once
}

// NewMemoryStore constructs a store and starts its metrics updater, which
// stops when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]Entry),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.publishListing()
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// Put stores e under a fresh id.
func (s *MemoryStore) Put(ctx context.Context, e Entry) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("put", float64(time.Since(start).Microseconds())/1000)
	}()

	if e.Clip == nil {
		metrics.RecordErrorByComponent("repository", "nil_clip")
		return Entry{}, ErrNilClip
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capacity > 0 && len(s.byID) >= s.capacity {
		metrics.RecordErrorByComponent("repository", "store_full")
		return Entry{}, fmt.Errorf("%d clips: %w", len(s.byID), ErrStoreFull)
	}
	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.byID[e.ID] = e
	s.publishListingLocked()
	metrics.UpdateClipsStored(len(s.byID))
	return e, nil
}

// Get returns the entry for id.
func (s *MemoryStore) Get(ctx context.Context, id string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("get", float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.RLock()
	e, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, fmt.Errorf("clip %q: %w", id, ErrNotFound)
	}
	return e, nil
}

// Delete removes id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return fmt.Errorf("clip %q: %w", id, ErrNotFound)
	}
	delete(s.byID, id)
	s.publishListingLocked()
	metrics.UpdateClipsStored(len(s.byID))
	return nil
}

// List returns summaries ordered by creation time, then id.
func (s *MemoryStore) List(ctx context.Context) []Summary {
	cur := s.listing.Load()
	return append([]Summary(nil), (*cur)...)
}

// Count returns the number of stored clips.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemoryStore) publishListing() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.publishListingLocked()
}

// publishListingLocked rebuilds the listing (assumes lock is held).
func (s *MemoryStore) publishListingLocked() {
	out := make([]Summary, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, Summarize(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	s.listing.Store(&out)
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateClipsStored(s.Count(ctx))
			}
		}
	}()
}
