package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func testSnapshot() *model.FeedSnapshot {
	posted := time.Date(2024, 5, 18, 9, 0, 0, 0, time.UTC)
	return &model.FeedSnapshot{
		FetchedAt: time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC),
		Jobs: []model.Job{
			{
				ID:           "a",
				Title:        "Engineer",
				CompanyName:  "Acme",
				Location:     strPtr("Remote"),
				SalaryAmount: 40,
				SalaryKnown:  true,
				Skills:       []string{"Go"},
				PostedAt:     &posted,
				PostedLabel:  "2 days ago",
				Category:     "IT & Tech",
			},
			{ID: "b", Title: "Clerk", CompanyName: "Globex", Skills: []string{}, PostedLabel: "Recently"},
		},
	}
}

// failingKV fails every operation.
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingKV) SetAll(context.Context, map[string]string) error { return errors.New("disk on fire") }
func (failingKV) Close() error                                    { return nil }

func TestStore_ReadEmptyIsMiss(t *testing.T) {
	s := NewStore(newTestKV(t), "test", discardLogger())
	if snap, ok := s.Read(context.Background()); ok || snap != nil {
		t.Fatalf("expected miss on empty medium, got %+v", snap)
	}
}

func TestStore_WriteThenRead(t *testing.T) {
	s := NewStore(newTestKV(t), "test", discardLogger())
	ctx := context.Background()
	want := testSnapshot()

	if err := s.Write(ctx, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok := s.Read(ctx)
	if !ok {
		t.Fatal("expected hit after Write")
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
	}
	if len(got.Jobs) != 2 {
		t.Fatalf("len(Jobs) = %d, want 2", len(got.Jobs))
	}
	a := got.Jobs[0]
	if a.ID != "a" || a.CompanyName != "Acme" || a.SalaryAmount != 40 || !a.SalaryKnown {
		t.Errorf("job a = %+v", a)
	}
	if a.Location == nil || *a.Location != "Remote" {
		t.Errorf("Location = %v", a.Location)
	}
	if a.PostedAt == nil || !a.PostedAt.Equal(*want.Jobs[0].PostedAt) {
		t.Errorf("PostedAt = %v", a.PostedAt)
	}
	if got.Jobs[1].Location != nil || got.Jobs[1].PostedAt != nil {
		t.Errorf("nil fields should stay nil: %+v", got.Jobs[1])
	}
}

func TestStore_CorruptionIsMiss(t *testing.T) {
	valid := time.Now().UTC().Format(time.RFC3339Nano)

	tests := []struct {
		name    string
		entries map[string]string
	}{
		{"garbage snapshot", map[string]string{"test:snapshot": "{{{", "test:fetched_at": valid}},
		{"garbage timestamp", map[string]string{"test:snapshot": `{"version":1,"jobs":[]}`, "test:fetched_at": "yesterday"}},
		{"other schema version", map[string]string{"test:snapshot": `{"version":99,"jobs":[]}`, "test:fetched_at": valid}},
		{"unversioned payload", map[string]string{"test:snapshot": `[{"id":"a"}]`, "test:fetched_at": valid}},
		{"timestamp without snapshot", map[string]string{"test:fetched_at": valid}},
		{"snapshot without timestamp", map[string]string{"test:snapshot": `{"version":1,"jobs":[]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newTestKV(t)
			if err := kv.SetAll(context.Background(), tt.entries); err != nil {
				t.Fatalf("seed: %v", err)
			}
			s := NewStore(kv, "test", discardLogger())
			if snap, ok := s.Read(context.Background()); ok {
				t.Fatalf("expected miss, got %+v", snap)
			}
		})
	}
}

func TestStore_MediumErrorIsMiss(t *testing.T) {
	s := NewStore(failingKV{}, "test", discardLogger())
	if _, ok := s.Read(context.Background()); ok {
		t.Fatal("expected miss when medium fails")
	}
	if err := s.Write(context.Background(), testSnapshot()); err == nil {
		t.Fatal("expected Write to surface medium error")
	}
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := NewStore(kv, "one", discardLogger()).Write(ctx, testSnapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, ok := NewStore(kv, "two", discardLogger()).Read(ctx); ok {
		t.Fatal("namespace two should not see namespace one's snapshot")
	}
}

func TestStore_EmptySnapshotRoundTrips(t *testing.T) {
	s := NewStore(newTestKV(t), "test", discardLogger())
	ctx := context.Background()

	if err := s.Write(ctx, &model.FeedSnapshot{FetchedAt: time.Now()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, ok := s.Read(ctx)
	if !ok {
		t.Fatal("an empty feed is still a valid snapshot")
	}
	if got.Jobs == nil || len(got.Jobs) != 0 {
		t.Errorf("Jobs = %#v, want empty non-nil", got.Jobs)
	}
}

func TestNopKV_NeverHits(t *testing.T) {
	s := NewStore(NewNopKV(), "test", discardLogger())
	ctx := context.Background()
	if err := s.Write(ctx, testSnapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, ok := s.Read(ctx); ok {
		t.Fatal("NopKV should never produce a hit")
	}
}

func TestRedisKV_WriteThenRead(t *testing.T) {
	url := os.Getenv("JOBFEED_TEST_REDIS_URL")
	if url == "" {
		t.Skip("JOBFEED_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	kv, err := NewRedisKV(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisKV: %v", err)
	}
	defer kv.Close()

	ns := "jobfeed-test-" + time.Now().Format("150405.000000")
	s := NewStore(kv, ns, discardLogger())
	if err := s.Write(ctx, testSnapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, ok := s.Read(ctx)
	if !ok || len(got.Jobs) != 2 {
		t.Fatalf("Read = %+v, %v", got, ok)
	}
}

func TestOpenKV_UnknownBackend(t *testing.T) {
	if _, err := OpenKV(context.Background(), "etcd", "", ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
