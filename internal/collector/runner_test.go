package collector

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/types"
)

type fakeQueue struct {
	seen     map[string]bool
	marked   []string
	enqueued []int64
}

func (f *fakeQueue) Enqueue(ctx context.Context, ids ...int64) error {
	f.enqueued = append(f.enqueued, ids...)
	return nil
}

func (f *fakeQueue) IsSeen(ctx context.Context, urlHash string) (bool, error) {
	return f.seen[urlHash], nil
}

func (f *fakeQueue) MarkSeen(ctx context.Context, urlHash string) error {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	f.seen[urlHash] = true
	f.marked = append(f.marked, urlHash)
	return nil
}

func testRunner(t *testing.T, q taskQueue) *Runner {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Runner{
		queue:   q,
		metrics: observability.NewMetrics(logger),
		logger:  logger,
	}
}

func TestFilterSeenDoesNotMark(t *testing.T) {
	q := &fakeQueue{seen: map[string]bool{
		HashURL(CanonicalizeURL("https://example.com/old")): true,
	}}
	r := testRunner(t, q)

	articles := []*types.Article{
		{URL: "https://example.com/old"},
		{URL: "https://example.com/new"},
	}
	fresh := r.filterSeen(context.Background(), articles, &types.CollectionLog{})

	if len(fresh) != 1 || fresh[0].URL != "https://example.com/new" {
		t.Fatalf("fresh = %+v, want only the unseen article", fresh)
	}
	// Marking happens only after a successful save, so the survivor must
	// still be unseen here.
	if len(q.marked) != 0 {
		t.Errorf("filterSeen marked %v, want none", q.marked)
	}
	if got := r.metrics.ArticlesDuplicate.Load(); got != 1 {
		t.Errorf("ArticlesDuplicate = %d, want 1", got)
	}
}

func TestFilterSeenKeepsArticleTwiceUntilMarked(t *testing.T) {
	q := &fakeQueue{}
	r := testRunner(t, q)
	articles := []*types.Article{{URL: "https://example.com/story"}}

	// Two passes without a save in between: the article survives both,
	// modeling a failed save that must not suppress a retry.
	for i := 0; i < 2; i++ {
		fresh := r.filterSeen(context.Background(), articles, &types.CollectionLog{})
		if len(fresh) != 1 {
			t.Fatalf("pass %d: fresh = %d articles, want 1", i, len(fresh))
		}
	}

	r.markSeen(context.Background(), articles)
	if len(q.marked) != 1 {
		t.Fatalf("marked = %v, want one entry", q.marked)
	}

	fresh := r.filterSeen(context.Background(), articles, &types.CollectionLog{})
	if len(fresh) != 0 {
		t.Errorf("after markSeen, fresh = %d articles, want 0", len(fresh))
	}
}
