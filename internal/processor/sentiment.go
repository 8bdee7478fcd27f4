package processor

import (
	"math"

	"github.com/jonreiter/govader"

	"github.com/oraclo-news/oraclo/internal/types"
)

// SentimentAnalyzer scores text polarity with VADER.
type SentimentAnalyzer struct {
	analyzer          *govader.SentimentIntensityAnalyzer
	positiveThreshold float64
	negativeThreshold float64
}

// NewSentimentAnalyzer builds an analyzer with label thresholds on the
// compound score.
func NewSentimentAnalyzer(positiveThreshold, negativeThreshold float64) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		analyzer:          govader.NewSentimentIntensityAnalyzer(),
		positiveThreshold: positiveThreshold,
		negativeThreshold: negativeThreshold,
	}
}

// Analyze scores the text and labels it positive, negative, or neutral.
func (s *SentimentAnalyzer) Analyze(text string) (*types.SentimentResult, error) {
	text = CleanText(text)
	if text == "" {
		return nil, types.ErrEmptyText
	}

	scores := s.analyzer.PolarityScores(text)
	compound := scores.Compound

	label := "neutral"
	switch {
	case compound >= s.positiveThreshold:
		label = "positive"
	case compound <= s.negativeThreshold:
		label = "negative"
	}

	return &types.SentimentResult{
		Score:      compound,
		Label:      label,
		Confidence: math.Abs(compound),
		Details: map[string]float64{
			"positive": scores.Positive,
			"negative": scores.Negative,
			"neutral":  scores.Neutral,
			"compound": compound,
		},
	}, nil
}
