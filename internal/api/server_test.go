package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

// fakeStorage returns canned data and records calls.
type fakeStorage struct {
	articles   []*types.Article
	sources    map[int64]*types.Source
	lastFilter store.ArticleFilter
	viewsBumps []int64
	readAlerts []int64
	deleted    []int64
}

func newFakeStorage() *fakeStorage {
	published := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	return &fakeStorage{
		articles: []*types.Article{
			{ID: 1, Title: "First story", URL: "https://example.com/1", SourceID: 1,
				PublishedAt: &published, Status: types.StatusAnalyzed},
			{ID: 2, Title: "Second story", URL: "https://example.com/2", SourceID: 1,
				Status: types.StatusCollected},
		},
		sources: map[int64]*types.Source{
			1: {ID: 1, Name: "Example", URL: "https://example.com", Type: types.SourceRSS, IsActive: true},
		},
	}
}

func (f *fakeStorage) GetArticle(_ context.Context, id int64) (*types.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, types.ErrNotFound
}

func (f *fakeStorage) ListArticles(_ context.Context, filter store.ArticleFilter) ([]*types.Article, int, error) {
	f.lastFilter = filter
	return f.articles, len(f.articles), nil
}

func (f *fakeStorage) BreakingArticles(_ context.Context, _ time.Duration, _ int) ([]*types.Article, error) {
	return nil, nil
}

func (f *fakeStorage) TrendingArticles(_ context.Context, _ time.Duration, _ int) ([]*types.Article, error) {
	return f.articles[:1], nil
}

func (f *fakeStorage) IncrementViews(_ context.Context, id int64) error {
	f.viewsBumps = append(f.viewsBumps, id)
	return nil
}

func (f *fakeStorage) CreateSource(_ context.Context, src *types.Source) (int64, error) {
	src.ID = int64(len(f.sources) + 1)
	f.sources[src.ID] = src
	return src.ID, nil
}

func (f *fakeStorage) GetSource(_ context.Context, id int64) (*types.Source, error) {
	src, ok := f.sources[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return src, nil
}

func (f *fakeStorage) ListSources(_ context.Context, _ bool) ([]*types.Source, error) {
	var out []*types.Source
	for _, src := range f.sources {
		out = append(out, src)
	}
	return out, nil
}

func (f *fakeStorage) DueSources(_ context.Context, _ time.Time) ([]*types.Source, error) {
	return []*types.Source{f.sources[1]}, nil
}

func (f *fakeStorage) UpdateSource(_ context.Context, src *types.Source) error {
	if _, ok := f.sources[src.ID]; !ok {
		return types.ErrNotFound
	}
	f.sources[src.ID] = src
	return nil
}

func (f *fakeStorage) DeleteSource(_ context.Context, id int64) error {
	if _, ok := f.sources[id]; !ok {
		return types.ErrNotFound
	}
	delete(f.sources, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStorage) GetSourceStats(_ context.Context) (*store.SourceStats, error) {
	return &store.SourceStats{TotalSources: len(f.sources), ActiveSources: 1}, nil
}

func (f *fakeStorage) CreateCategory(_ context.Context, cat *types.Category) (int64, error) {
	cat.ID = 2
	return cat.ID, nil
}

func (f *fakeStorage) GetCategory(_ context.Context, id int64) (*types.Category, error) {
	if id != 1 {
		return nil, types.ErrNotFound
	}
	return &types.Category{ID: 1, Name: "Politics", Slug: "politics"}, nil
}

func (f *fakeStorage) ListCategories(_ context.Context) ([]*types.Category, error) {
	return []*types.Category{{ID: 1, Name: "Politics", Slug: "politics"}}, nil
}

func (f *fakeStorage) UpdateCategory(_ context.Context, cat *types.Category) error {
	if cat.ID != 1 {
		return types.ErrNotFound
	}
	return nil
}

func (f *fakeStorage) DeleteCategory(_ context.Context, id int64) error {
	if id != 1 {
		return types.ErrNotFound
	}
	return nil
}

func (f *fakeStorage) ListAnalyses(_ context.Context, _ int64, _ types.AnalysisType, _ int) ([]*types.Analysis, error) {
	return nil, nil
}

func (f *fakeStorage) ListAlerts(_ context.Context, _ types.AlertType, _ bool, _ int) ([]*types.Alert, error) {
	return []*types.Alert{{ID: 9, Title: "Spike", Type: types.AlertVolumeSpike}}, nil
}

func (f *fakeStorage) MarkAlertRead(_ context.Context, id int64) error {
	if id != 9 {
		return types.ErrNotFound
	}
	f.readAlerts = append(f.readAlerts, id)
	return nil
}

func (f *fakeStorage) ListCollectionLogs(_ context.Context, _ int64, _ types.CollectionStatus, _ int) ([]*types.CollectionLog, error) {
	return nil, nil
}

func (f *fakeStorage) GetStats(_ context.Context, _ time.Duration) (*store.Stats, error) {
	return &store.Stats{TotalArticles: len(f.articles)}, nil
}

func (f *fakeStorage) TrendingKeywords(_ context.Context, _ time.Duration, _ int) ([]store.TrendingTerm, error) {
	return []store.TrendingTerm{{Term: "budget", Count: 12}}, nil
}

func (f *fakeStorage) TrendingEntities(_ context.Context, _ time.Duration, _ int) ([]store.TrendingTerm, error) {
	return []store.TrendingTerm{{Term: "Jakarta", Count: 4}}, nil
}

type fakeEnricher struct {
	processed []int64
}

func (f *fakeEnricher) AnalyzeSentiment(text string) (*types.SentimentResult, error) {
	if text == "" {
		return nil, types.ErrEmptyText
	}
	return &types.SentimentResult{Score: 0.5, Label: "positive"}, nil
}

func (f *fakeEnricher) ExtractKeywords(text string) ([]types.Keyword, error) {
	return []types.Keyword{{Text: "budget", Score: 0.2}}, nil
}

func (f *fakeEnricher) ExtractEntities(text string) ([]types.Entity, error) {
	return []types.Entity{{Text: "Jakarta", Type: "LOC"}}, nil
}

func (f *fakeEnricher) ScoreQuality(a *types.Article) *types.QualityResult {
	return &types.QualityResult{Overall: 0.6}
}

func (f *fakeEnricher) ProcessArticle(_ context.Context, id int64) (*types.AnalysisBundle, error) {
	f.processed = append(f.processed, id)
	return &types.AnalysisBundle{}, nil
}

func (f *fakeEnricher) ProcessBacklog(_ context.Context, limit int) (int, error) {
	return 3, nil
}

type fakeCollector struct{}

func (f *fakeCollector) CollectSource(_ context.Context, src *types.Source) *types.CollectionLog {
	return &types.CollectionLog{SourceID: src.ID, Status: types.CollectionSuccess}
}

func testServer(t *testing.T) (*Server, *fakeStorage, *fakeEnricher) {
	t.Helper()
	st := newFakeStorage()
	en := &fakeEnricher{}
	cfg := &config.APIConfig{Port: 0, PageSize: 20, MaxPageSize: 100}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, st, en, &fakeCollector{}, nil, logger), st, en
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeBody(t, w)["status"] != "ok" {
		t.Error("health status not ok")
	}
}

func TestListArticlesAppliesFilter(t *testing.T) {
	s, st, _ := testServer(t)
	w := doRequest(t, s, http.MethodGet,
		"/api/articles?status=analyzed&sentiment=positive&page=2&page_size=5&breaking=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	f := st.lastFilter
	if f.Status != "analyzed" || f.Sentiment != "positive" || !f.Breaking {
		t.Errorf("filter not applied: %+v", f)
	}
	if f.Page != 2 || f.PageSize != 5 {
		t.Errorf("pagination not applied: page=%d size=%d", f.Page, f.PageSize)
	}
	body := decodeBody(t, w)
	if body["count"].(float64) != 2 {
		t.Errorf("count = %v", body["count"])
	}
}

func TestGetArticleBumpsViews(t *testing.T) {
	s, st, _ := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/articles/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(st.viewsBumps) != 1 || st.viewsBumps[0] != 1 {
		t.Errorf("views not bumped: %v", st.viewsBumps)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	s, _, _ := testServer(t)
	if w := doRequest(t, s, http.MethodGet, "/api/articles/999", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetArticleBadID(t *testing.T) {
	s, _, _ := testServer(t)
	if w := doRequest(t, s, http.MethodGet, "/api/articles/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeArticle(t *testing.T) {
	s, _, en := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/articles/2/analyze", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(en.processed) != 1 || en.processed[0] != 2 {
		t.Errorf("processed = %v", en.processed)
	}
}

func TestCreateSourceValidation(t *testing.T) {
	s, _, _ := testServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/sources", map[string]any{"url": "https://x.test"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name: status = %d, want 400", w.Code)
	}

	w = doRequest(t, s, http.MethodPost, "/api/sources", map[string]any{
		"name": "X", "url": "https://x.test", "source_type": "smoke_signal"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad type: status = %d, want 400", w.Code)
	}

	w = doRequest(t, s, http.MethodPost, "/api/sources", map[string]any{
		"name": "X", "url": "https://x.test", "source_type": "rss"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var created types.Source
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CollectionInterval != 300 || created.MaxArticles != 50 {
		t.Errorf("defaults not applied: %+v", created)
	}
}

func TestDeleteSource(t *testing.T) {
	s, st, _ := testServer(t)
	if w := doRequest(t, s, http.MethodDelete, "/api/sources/1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(st.deleted) != 1 {
		t.Error("source not deleted")
	}
	if w := doRequest(t, s, http.MethodDelete, "/api/sources/1", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestCollectSourceAccepted(t *testing.T) {
	s, _, _ := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/sources/1/collect", nil)
	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", w.Code)
	}
}

func TestSentimentAnalysisEndpoint(t *testing.T) {
	s, _, _ := testServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/sentiment-analysis", map[string]string{"text": "great news"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeBody(t, w)["label"] != "positive" {
		t.Error("label missing from response")
	}

	w = doRequest(t, s, http.MethodPost, "/api/sentiment-analysis", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty payload status = %d, want 400", w.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	s, st, _ := testServer(t)
	if w := doRequest(t, s, http.MethodGet, "/api/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if w := doRequest(t, s, http.MethodGet, "/api/search?q=budget", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if st.lastFilter.Search != "budget" {
		t.Errorf("search filter = %q", st.lastFilter.Search)
	}
}

func TestTrendingEndpoint(t *testing.T) {
	s, _, _ := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/trending?hours=48", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["window_hours"].(float64) != 48 {
		t.Errorf("window_hours = %v", body["window_hours"])
	}
	if body["keywords"] == nil || body["entities"] == nil {
		t.Error("trending lists missing")
	}
}

func TestCreateCategory(t *testing.T) {
	s, _, _ := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/categories", map[string]string{"name": "Local News"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["slug"] != "local-news" {
		t.Error("slug not derived from name")
	}
}

func TestCategoryArticles(t *testing.T) {
	s, st, _ := testServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/categories/1/articles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if st.lastFilter.Category != "Politics" {
		t.Errorf("category filter = %q", st.lastFilter.Category)
	}
	if w := doRequest(t, s, http.MethodGet, "/api/categories/7/articles", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing category status = %d, want 404", w.Code)
	}
}

func TestCollectDueAccepted(t *testing.T) {
	s, _, _ := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/collect", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeBody(t, w)["sources"].(float64) != 1 {
		t.Error("due source count missing")
	}
}

func TestMetricsLite(t *testing.T) {
	s, _, _ := testServer(t)
	if w := doRequest(t, s, http.MethodGet, "/api/metrics-lite", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestMarkAlertRead(t *testing.T) {
	s, st, _ := testServer(t)
	if w := doRequest(t, s, http.MethodPost, "/api/alerts/9/read", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(st.readAlerts) != 1 {
		t.Error("alert not marked read")
	}
	if w := doRequest(t, s, http.MethodPost, "/api/alerts/8/read", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestProcessBacklogEndpoint(t *testing.T) {
	s, _, _ := testServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/process?limit=50", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeBody(t, w)["processed"].(float64) != 3 {
		t.Error("processed count missing")
	}
}
