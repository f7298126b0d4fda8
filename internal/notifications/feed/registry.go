package feed

import (
	"context"
	"sync"

	"domus/internal/identity/cache"
	"domus/pkg/logger"
)

// Registry holds one feed per seller, materialized on first access. Event
// patches only reach feeds whose initial load has completed; a feed nobody
// asked for has nobody to serve.
type Registry struct {
	source   BookingSource
	resolver cache.Resolver
	log      *logger.Logger

	mu    sync.Mutex
	feeds map[string]*feedEntry
}

// feedEntry gates a feed behind its initial load so concurrent callers
// never observe it empty. loaded is guarded by Registry.mu.
type feedEntry struct {
	feed   *Feed
	once   sync.Once
	err    error
	loaded bool
}

func NewRegistry(source BookingSource, resolver cache.Resolver, log *logger.Logger) *Registry {
	return &Registry{
		source:   source,
		resolver: resolver,
		log:      log,
		feeds:    make(map[string]*feedEntry),
	}
}

// Get returns the seller's feed, loading it on first use. Concurrent calls
// for the same seller block until the initial load finishes, so a second
// caller never sees the feed before its rows arrive.
func (r *Registry) Get(ctx context.Context, sellerID string) (*Feed, error) {
	r.mu.Lock()
	e, ok := r.feeds[sellerID]
	if !ok {
		e = &feedEntry{feed: New(sellerID, r.source, r.resolver, r.log)}
		r.feeds[sellerID] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.err = e.feed.Reload(ctx)
		r.mu.Lock()
		if e.err != nil {
			if r.feeds[sellerID] == e {
				delete(r.feeds, sellerID)
			}
		} else {
			e.loaded = true
		}
		r.mu.Unlock()
	})
	if e.err != nil {
		return nil, e.err
	}
	return e.feed, nil
}

// Loaded returns the seller's feed only if its initial load completed.
func (r *Registry) Loaded(sellerID string) (*Feed, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.feeds[sellerID]
	if !ok || !e.loaded {
		return nil, false
	}
	return e.feed, true
}
