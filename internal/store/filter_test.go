package store

import (
	"strings"
	"testing"
	"time"
)

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   ArticleFilter
		contains []string
		numArgs  int
	}{
		{
			name:    "empty filter",
			filter:  ArticleFilter{},
			numArgs: 0,
		},
		{
			name:     "source only",
			filter:   ArticleFilter{SourceID: 7},
			contains: []string{"a.source_id = $1"},
			numArgs:  1,
		},
		{
			name:     "status and priority",
			filter:   ArticleFilter{Status: "analyzed", Priority: "high"},
			contains: []string{"a.status = $1", "a.priority = $2", " AND "},
			numArgs:  2,
		},
		{
			name:     "positive sentiment adds no args",
			filter:   ArticleFilter{Sentiment: "positive"},
			contains: []string{"a.sentiment_score > 0.1"},
			numArgs:  0,
		},
		{
			name:     "neutral sentiment band",
			filter:   ArticleFilter{Sentiment: "neutral"},
			contains: []string{"BETWEEN -0.1 AND 0.1"},
			numArgs:  0,
		},
		{
			name:     "search matches title content author",
			filter:   ArticleFilter{Search: "election"},
			contains: []string{"a.title ILIKE $1", "a.content ILIKE $1", "a.author ILIKE $1"},
			numArgs:  1,
		},
		{
			name:     "category subquery",
			filter:   ArticleFilter{Category: "politics"},
			contains: []string{"article_categories", "c.name = $1"},
			numArgs:  1,
		},
		{
			name:     "breaking flag",
			filter:   ArticleFilter{Breaking: true},
			contains: []string{"a.is_breaking"},
			numArgs:  0,
		},
		{
			name: "time window",
			filter: ArticleFilter{
				From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			},
			contains: []string{"a.collected_at >= $1", "a.collected_at <= $2"},
			numArgs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.whereClause(1)
			if len(args) != tt.numArgs {
				t.Errorf("got %d args, want %d", len(args), tt.numArgs)
			}
			if tt.numArgs > 0 || len(tt.contains) > 0 {
				if !strings.HasPrefix(where, "WHERE ") {
					t.Errorf("clause %q missing WHERE prefix", where)
				}
			} else if where != "" {
				t.Errorf("expected empty clause, got %q", where)
			}
			for _, frag := range tt.contains {
				if !strings.Contains(where, frag) {
					t.Errorf("clause %q missing %q", where, frag)
				}
			}
		})
	}
}

func TestWhereClauseArgOffset(t *testing.T) {
	where, args := ArticleFilter{SourceID: 3, Status: "collected"}.whereClause(5)
	if len(args) != 2 {
		t.Fatalf("got %d args, want 2", len(args))
	}
	if !strings.Contains(where, "$5") || !strings.Contains(where, "$6") {
		t.Errorf("args not numbered from offset: %q", where)
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		orderBy string
		want    string
	}{
		{"", "ORDER BY a.collected_at DESC"},
		{"collected_at", "ORDER BY a.collected_at ASC"},
		{"-sentiment_score", "ORDER BY a.sentiment_score DESC"},
		{"views_count", "ORDER BY a.views_count ASC"},
		{"drop_table", "ORDER BY a.collected_at DESC"},
		{"-id; DELETE FROM articles", "ORDER BY a.collected_at DESC"},
	}
	for _, tt := range tests {
		got := ArticleFilter{OrderBy: tt.orderBy}.orderClause()
		if got != tt.want {
			t.Errorf("orderClause(%q) = %q, want %q", tt.orderBy, got, tt.want)
		}
	}
}

func TestLimitOffset(t *testing.T) {
	tests := []struct {
		page, size            int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{1, 10, 10, 0},
		{3, 10, 10, 20},
		{-1, 50, 50, 0},
	}
	for _, tt := range tests {
		limit, offset := ArticleFilter{Page: tt.page, PageSize: tt.size}.limitOffset()
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("limitOffset(page=%d size=%d) = (%d, %d), want (%d, %d)",
				tt.page, tt.size, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
