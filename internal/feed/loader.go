// Package feed owns "get the current job feed": cache freshness, remote
// fetch, normalization, and the stale-cache fallback.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/normalize"
)

// DefaultTTL is how long a cached snapshot counts as fresh.
const DefaultTTL = 5 * time.Minute

// Loader is the single entry point for feed snapshots. It holds no mutable
// state of its own; concurrent Loads each run to completion and the store
// keeps whichever write lands last.
type Loader struct {
	source model.FeedSource
	store  model.SnapshotStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewLoader creates a loader. A non-positive ttl falls back to DefaultTTL.
func NewLoader(source model.FeedSource, store model.SnapshotStore, ttl time.Duration, logger *slog.Logger) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Loader{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the freshness window.
func (l *Loader) TTL() time.Duration { return l.ttl }

// Load returns the cached snapshot when it is younger than the TTL, and
// otherwise fetches a new one. A failed fetch falls back to the cached
// snapshot however old it is; only when there is none does Load fail, with
// an error wrapping model.ErrFeedUnavailable.
func (l *Loader) Load(ctx context.Context, now time.Time) (*model.FeedSnapshot, error) {
	cached, ok := l.store.Read(ctx)
	if ok && cached.Age(now) < l.ttl {
		l.logger.Debug("cache hit", "age", cached.Age(now).Round(time.Second), "jobs", len(cached.Jobs))
		return cached, nil
	}
	if ok {
		l.logger.Debug("cache stale", "age", cached.Age(now).Round(time.Second))
	} else {
		l.logger.Debug("cache miss")
	}
	return l.fetch(ctx, now, cached)
}

// Refresh fetches regardless of cache freshness, with the same fallback as Load.
func (l *Loader) Refresh(ctx context.Context, now time.Time) (*model.FeedSnapshot, error) {
	cached, _ := l.store.Read(ctx)
	return l.fetch(ctx, now, cached)
}

// Detail looks up a single job through the detail endpoint. Results are
// normalized like feed records but never cached.
func (l *Loader) Detail(ctx context.Context, id string, now time.Time) (model.Job, error) {
	raw, err := l.source.FetchJob(ctx, id)
	if err != nil {
		return model.Job{}, fmt.Errorf("fetching job %s: %w", id, err)
	}
	return normalize.Job(raw, now), nil
}

// fetch runs fetch → normalize → write. fallback may be nil.
func (l *Loader) fetch(ctx context.Context, now time.Time, fallback *model.FeedSnapshot) (*model.FeedSnapshot, error) {
	raws, err := l.source.FetchFeed(ctx)
	if err != nil {
		if fallback != nil {
			l.logger.Warn("feed fetch failed, serving cached snapshot",
				"error", err,
				"age", fallback.Age(now).Round(time.Second),
				"jobs", len(fallback.Jobs),
			)
			return fallback, nil
		}
		return nil, fmt.Errorf("%w: %w", model.ErrFeedUnavailable, err)
	}

	snap := &model.FeedSnapshot{
		Jobs:      normalize.Feed(raws, now),
		FetchedAt: now,
	}

	if err := l.store.Write(ctx, snap); err != nil {
		// The fetched snapshot is still good; only persistence failed.
		l.logger.Warn("writing snapshot failed", "error", err)
	} else {
		l.logger.Info("snapshot written", "fetched", len(raws), "jobs", len(snap.Jobs))
	}

	return snap, nil
}
