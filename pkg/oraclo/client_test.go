package oraclo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestArticlesQueryEncoding(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{
			"count":   1,
			"results": []map[string]any{{"id": 1, "title": "hello"}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	articles, count, err := client.Articles(context.Background(), ArticleQuery{
		Sentiment: "negative",
		Breaking:  true,
		Page:      2,
		PageSize:  5,
	})
	if err != nil {
		t.Fatalf("Articles: %v", err)
	}
	if count != 1 || len(articles) != 1 {
		t.Fatalf("count = %d, len = %d", count, len(articles))
	}
	if articles[0].Title != "hello" {
		t.Errorf("title = %q", articles[0].Title)
	}

	for _, want := range []string{"sentiment=negative", "breaking=true", "page=2", "page_size=5"} {
		if !strings.Contains(gotPath, want) {
			t.Errorf("query %q missing %q", gotPath, want)
		}
	}
}

func TestArticleNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Article(context.Background(), 42)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAnalyzeSentimentPostsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "great news" {
			t.Errorf("text = %q", body["text"])
		}
		json.NewEncoder(w).Encode(map[string]any{"score": 0.8, "label": "positive"})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).AnalyzeSentiment(context.Background(), "great news")
	if err != nil {
		t.Fatalf("AnalyzeSentiment: %v", err)
	}
	if res.Label != "positive" {
		t.Errorf("label = %q", res.Label)
	}
}

func TestCollectNowNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).CollectNow(context.Background(), 1); err != nil {
		t.Fatalf("CollectNow: %v", err)
	}
}
