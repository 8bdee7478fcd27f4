package types

import (
	"errors"
	"strings"
	"testing"
)

func TestProcessErrorStageType(t *testing.T) {
	inner := errors.New("upsert failed")
	perr := &ProcessError{ArticleID: 42, Stage: AnalysisKeywords, Err: inner}

	msg := perr.Error()
	if !strings.Contains(msg, "article 42") {
		t.Errorf("Error() = %q, want article id in message", msg)
	}
	if !strings.Contains(msg, string(AnalysisKeywords)) {
		t.Errorf("Error() = %q, want stage %q in message", msg, AnalysisKeywords)
	}
	if !errors.Is(perr, inner) {
		t.Error("errors.Is should unwrap to the inner error")
	}
}

func TestErrorWrapping(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		name string
		err  error
	}{
		{"fetch", &FetchError{URL: "https://example.com", StatusCode: 500, Err: inner}},
		{"collect", &CollectError{SourceName: "wire", SourceType: SourceRSS, Err: inner}},
		{"process", &ProcessError{ArticleID: 1, Stage: AnalysisSentiment, Err: inner}},
		{"store", &StoreError{Op: "save_articles", Err: inner}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, inner) {
				t.Error("errors.Is should reach the wrapped error")
			}
			if tt.err.Error() == "" {
				t.Error("Error() should not be empty")
			}
		})
	}
}
