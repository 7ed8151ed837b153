package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// SchemaVersion tags every persisted snapshot. Bump it whenever model.Job
// changes shape; older payloads then read as a miss instead of decoding wrong.
const SchemaVersion = 1

// Ensure Store implements model.SnapshotStore.
var _ model.SnapshotStore = (*Store)(nil)

// persisted is the on-disk shape of the snapshot key.
type persisted struct {
	Version int         `json:"version"`
	Jobs    []model.Job `json:"jobs"`
}

// Store keeps one snapshot under two namespaced keys: the serialized jobs
// and their fetch timestamp. It never judges freshness.
type Store struct {
	kv           KV
	snapshotKey  string
	fetchedAtKey string
	logger       *slog.Logger
}

// NewStore creates a Store over kv with keys "<namespace>:snapshot" and
// "<namespace>:fetched_at".
func NewStore(kv KV, namespace string, logger *slog.Logger) *Store {
	if namespace == "" {
		namespace = "jobfeed"
	}
	return &Store{
		kv:           kv,
		snapshotKey:  namespace + ":snapshot",
		fetchedAtKey: namespace + ":fetched_at",
		logger:       logger,
	}
}

// Read returns the stored snapshot. An empty, unreadable, corrupt, or
// outdated medium is a miss, never an error.
func (s *Store) Read(ctx context.Context) (*model.FeedSnapshot, bool) {
	rawTS, ok, err := s.kv.Get(ctx, s.fetchedAtKey)
	if err != nil {
		s.logger.Warn("cache read failed, treating as miss", "key", s.fetchedAtKey, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	fetchedAt, err := time.Parse(time.RFC3339Nano, rawTS)
	if err != nil {
		s.logger.Debug("cache timestamp corrupt, treating as miss", "error", err)
		return nil, false
	}

	rawSnap, ok, err := s.kv.Get(ctx, s.snapshotKey)
	if err != nil {
		s.logger.Warn("cache read failed, treating as miss", "key", s.snapshotKey, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var p persisted
	if err := json.Unmarshal([]byte(rawSnap), &p); err != nil {
		s.logger.Debug("cache snapshot corrupt, treating as miss", "error", err)
		return nil, false
	}
	if p.Version != SchemaVersion {
		s.logger.Debug("cache snapshot has another schema version, treating as miss",
			"version", p.Version, "want", SchemaVersion)
		return nil, false
	}
	if p.Jobs == nil {
		p.Jobs = []model.Job{}
	}

	return &model.FeedSnapshot{Jobs: p.Jobs, FetchedAt: fetchedAt}, true
}

// Write replaces the stored snapshot and timestamp in one atomic write.
func (s *Store) Write(ctx context.Context, snap *model.FeedSnapshot) error {
	data, err := json.Marshal(persisted{Version: SchemaVersion, Jobs: snap.Jobs})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	err = s.kv.SetAll(ctx, map[string]string{
		s.snapshotKey:  string(data),
		s.fetchedAtKey: snap.FetchedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
