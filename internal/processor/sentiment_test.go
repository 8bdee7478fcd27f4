package processor

import (
	"errors"
	"testing"

	"github.com/oraclo-news/oraclo/internal/types"
)

func TestSentimentLabels(t *testing.T) {
	s := NewSentimentAnalyzer(0.05, -0.05)

	tests := []struct {
		name, text, wantLabel string
	}{
		{"positive", "This is wonderful fantastic excellent news and everyone is thrilled", "positive"},
		{"negative", "A horrible tragic disaster killed many people and destroyed homes", "negative"},
		{"neutral", "The committee will meet on Thursday to review the schedule", "neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Analyze(tt.text)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if res.Label != tt.wantLabel {
				t.Errorf("label = %q (score %.3f), want %q", res.Label, res.Score, tt.wantLabel)
			}
			if res.Score < -1 || res.Score > 1 {
				t.Errorf("score %.3f out of range", res.Score)
			}
			if res.Confidence < 0 {
				t.Errorf("confidence %.3f negative", res.Confidence)
			}
		})
	}
}

func TestSentimentEmptyText(t *testing.T) {
	s := NewSentimentAnalyzer(0.05, -0.05)
	if _, err := s.Analyze("   "); !errors.Is(err, types.ErrEmptyText) {
		t.Errorf("want ErrEmptyText, got %v", err)
	}
}

func TestSentimentDetails(t *testing.T) {
	s := NewSentimentAnalyzer(0.05, -0.05)
	res, err := s.Analyze("Great progress was made today")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, key := range []string{"positive", "negative", "neutral", "compound"} {
		if _, ok := res.Details[key]; !ok {
			t.Errorf("details missing %q", key)
		}
	}
}
